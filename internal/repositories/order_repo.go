package repositories

import (
	"context"

	"dineflow/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const orderColumns = `id, employee_id, table_id, customer_name, customer_phone, status, total_price, created_at, updated_at`

type OrderRepository interface {
	WithTx(tx pgx.Tx) OrderRepository
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	UpdateTotal(ctx context.Context, id uuid.UUID, total float64) error
	ListByTable(ctx context.Context, tableID int) ([]*models.Order, error)
	ListActive(ctx context.Context) ([]*models.Order, error)
	CountActiveByTable(ctx context.Context, tableID int) (int, error)
	SelectOpenForUpdate(ctx context.Context, tableID int) ([]*models.Order, error)
	MarkPaid(ctx context.Context, ids []uuid.UUID, customerName, customerPhone string) error
	DeleteAll(ctx context.Context) error
}

type orderRepo struct {
	db DB
}

func NewOrderRepo(db DB) OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) WithTx(tx pgx.Tx) OrderRepository {
	return &orderRepo{db: tx}
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	order := &models.Order{}
	err := row.Scan(&order.ID, &order.EmployeeID, &order.TableID, &order.CustomerName,
		&order.CustomerPhone, &order.Status, &order.TotalPrice, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func collectOrders(rows pgx.Rows) ([]*models.Order, error) {
	defer rows.Close()
	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (r *orderRepo) Create(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (id, employee_id, table_id, customer_name, customer_phone, status, total_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, order.ID, order.EmployeeID, order.TableID,
		order.CustomerName, order.CustomerPhone, order.Status, order.TotalPrice)
	return err
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return scanOrder(r.db.QueryRow(ctx, query, id))
}

// GetByIDForUpdate locks the order row for the duration of the surrounding
// transaction so concurrent status updates cannot interleave.
func (r *orderRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`
	return scanOrder(r.db.QueryRow(ctx, query, id))
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, status, id)
	return err
}

func (r *orderRepo) UpdateTotal(ctx context.Context, id uuid.UUID, total float64) error {
	query := `UPDATE orders SET total_price = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, total, id)
	return err
}

func (r *orderRepo) ListByTable(ctx context.Context, tableID int) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE table_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, tableID)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

func (r *orderRepo) ListActive(ctx context.Context) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
		WHERE status IN ('pending', 'preparing', 'ready_to_serve')
		ORDER BY created_at`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

// CountActiveByTable counts orders that keep a table occupied.
func (r *orderRepo) CountActiveByTable(ctx context.Context, tableID int) (int, error) {
	query := `SELECT COUNT(*) FROM orders
		WHERE table_id = $1 AND status IN ('pending', 'preparing', 'ready_to_serve', 'completed')`
	var count int
	err := r.db.QueryRow(ctx, query, tableID).Scan(&count)
	return count, err
}

// SelectOpenForUpdate fetches and row-locks every order of a table that is
// eligible for consolidation. Postgres re-checks the status predicate after a
// lock wait, so a concurrent checkout that already consolidated these orders
// leaves the second caller with an empty set rather than a double merge.
func (r *orderRepo) SelectOpenForUpdate(ctx context.Context, tableID int) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
		WHERE table_id = $1 AND status IN ('pending', 'preparing', 'ready_to_serve', 'completed')
		ORDER BY created_at
		FOR UPDATE`
	rows, err := r.db.Query(ctx, query, tableID)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

// MarkPaid stamps the customer identity on the given orders and flips them to
// paid in one statement.
func (r *orderRepo) MarkPaid(ctx context.Context, ids []uuid.UUID, customerName, customerPhone string) error {
	query := `UPDATE orders
		SET status = 'paid', customer_name = $1, customer_phone = $2, updated_at = NOW()
		WHERE id = ANY($3)`
	_, err := r.db.Exec(ctx, query, customerName, customerPhone, ids)
	return err
}

func (r *orderRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `DELETE FROM orders`)
	return err
}
