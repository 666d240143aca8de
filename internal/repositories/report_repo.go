package repositories

import (
	"context"
	"time"

	"dineflow/internal/models"

	"github.com/jackc/pgx/v5"
)

// BucketTotal is one raw aggregation row: a bucket ordinal (day of period,
// ISO week number or month number) and its revenue sum. Zero-filling happens
// in the reporting service.
type BucketTotal struct {
	Bucket int
	Total  float64
}

type ReportRepository interface {
	RevenueByDay(ctx context.Context, from, to time.Time) (map[string]float64, error)
	RevenueByWeek(ctx context.Context, from, to time.Time) ([]BucketTotal, error)
	RevenueByMonth(ctx context.Context, year int) ([]BucketTotal, error)
	TotalSales(ctx context.Context) (float64, error)
	TotalCustomers(ctx context.Context) (int, error)
	TotalOrders(ctx context.Context) (int, error)
	TopFoods(ctx context.Context, limit int) ([]models.TopFood, error)
	EmployeeSummary(ctx context.Context) ([]models.EmployeeStats, error)
}

type reportRepo struct {
	db DB
}

func NewReportRepo(db DB) ReportRepository {
	return &reportRepo{db: db}
}

// RevenueByDay sums completed-order totals per calendar day, keyed by
// YYYY-MM-DD.
func (r *reportRepo) RevenueByDay(ctx context.Context, from, to time.Time) (map[string]float64, error) {
	query := `
		SELECT TO_CHAR(completed_at, 'YYYY-MM-DD') AS day, COALESCE(SUM(total_price), 0)
		FROM orders_completed
		WHERE completed_at >= $1 AND completed_at < $2
		GROUP BY day
	`
	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make(map[string]float64)
	for rows.Next() {
		var day string
		var total float64
		if err := rows.Scan(&day, &total); err != nil {
			return nil, err
		}
		totals[day] = total
	}
	return totals, rows.Err()
}

func (r *reportRepo) RevenueByWeek(ctx context.Context, from, to time.Time) ([]BucketTotal, error) {
	query := `
		SELECT EXTRACT(WEEK FROM completed_at)::int AS week, COALESCE(SUM(total_price), 0)
		FROM orders_completed
		WHERE completed_at >= $1 AND completed_at < $2
		GROUP BY week
		ORDER BY week
	`
	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	return collectBuckets(rows)
}

func (r *reportRepo) RevenueByMonth(ctx context.Context, year int) ([]BucketTotal, error) {
	query := `
		SELECT EXTRACT(MONTH FROM completed_at)::int AS month, COALESCE(SUM(total_price), 0)
		FROM orders_completed
		WHERE EXTRACT(YEAR FROM completed_at)::int = $1
		GROUP BY month
		ORDER BY month
	`
	rows, err := r.db.Query(ctx, query, year)
	if err != nil {
		return nil, err
	}
	return collectBuckets(rows)
}

func (r *reportRepo) TotalSales(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(total_price), 0) FROM orders_completed`).Scan(&total)
	return total, err
}

func (r *reportRepo) TotalCustomers(ctx context.Context) (int, error) {
	query := `SELECT COUNT(DISTINCT customer_phone) FROM orders_completed WHERE customer_phone <> ''`
	var count int
	err := r.db.QueryRow(ctx, query).Scan(&count)
	return count, err
}

func (r *reportRepo) TotalOrders(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders_completed`).Scan(&count)
	return count, err
}

func (r *reportRepo) TopFoods(ctx context.Context, limit int) ([]models.TopFood, error) {
	query := `
		SELECT f.id, f.name, SUM(ci.quantity)::int AS total_ordered
		FROM completed_order_items ci
		JOIN foods f ON f.id = ci.food_id
		GROUP BY f.id, f.name
		ORDER BY total_ordered DESC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var foods []models.TopFood
	for rows.Next() {
		var tf models.TopFood
		if err := rows.Scan(&tf.FoodID, &tf.Name, &tf.TotalOrdered); err != nil {
			return nil, err
		}
		foods = append(foods, tf)
	}
	return foods, rows.Err()
}

func (r *reportRepo) EmployeeSummary(ctx context.Context) ([]models.EmployeeStats, error) {
	query := `
		SELECT employee_id, COUNT(*)::int, COALESCE(SUM(total_price), 0), COALESCE(AVG(total_price), 0)
		FROM orders_completed
		GROUP BY employee_id
		ORDER BY SUM(total_price) DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []models.EmployeeStats
	for rows.Next() {
		var es models.EmployeeStats
		if err := rows.Scan(&es.EmployeeID, &es.OrderCount, &es.TotalSales, &es.AvgSale); err != nil {
			return nil, err
		}
		stats = append(stats, es)
	}
	return stats, rows.Err()
}

func collectBuckets(rows pgx.Rows) ([]BucketTotal, error) {
	defer rows.Close()
	var buckets []BucketTotal
	for rows.Next() {
		var bt BucketTotal
		if err := rows.Scan(&bt.Bucket, &bt.Total); err != nil {
			return nil, err
		}
		buckets = append(buckets, bt)
	}
	return buckets, rows.Err()
}
