package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"dineflow/internal/caching"
	"dineflow/internal/models"
	"dineflow/internal/repositories"
)

const (
	RevenueRangeWeek  = "week"
	RevenueRangeMonth = "month"
	RevenueRangeYear  = "year"

	defaultTopFoodsLimit = 5
	reportCacheTTL       = 5 * time.Minute
)

// ReportingServiceInterface defines the interface for revenue and dashboard reports
type ReportingServiceInterface interface {
	Revenue(ctx context.Context, rng string) ([]models.RevenueBucket, error)
	TopFoods(ctx context.Context, limit int) ([]models.TopFood, error)
	EmployeeSummary(ctx context.Context) ([]models.EmployeeStats, error)
	DashboardSummary(ctx context.Context) (*models.DashboardSummary, error)
	RefreshDashboard(ctx context.Context) error
}

type reportingService struct {
	reportRepo repositories.ReportRepository
	cache      caching.CacheService
	now        func() time.Time
}

// NewReportingService creates a new reporting service instance
func NewReportingService(reportRepo repositories.ReportRepository, cache caching.CacheService) ReportingServiceInterface {
	return &reportingService{
		reportRepo: reportRepo,
		cache:      cache,
		now:        time.Now,
	}
}

// Revenue returns a zero-filled bucket series for the requested range. Every
// bucket of the period is present even when no order landed in it, so charts
// never have holes.
func (s *reportingService) Revenue(ctx context.Context, rng string) ([]models.RevenueBucket, error) {
	switch rng {
	case RevenueRangeWeek, RevenueRangeMonth, RevenueRangeYear:
	default:
		return nil, fmt.Errorf("%w: unknown revenue range %q", ErrValidation, rng)
	}

	if cached, err := s.cache.GetRevenue(ctx, rng); err != nil {
		log.Printf("Revenue cache read failed for range %s: %v", rng, err)
	} else if cached != nil {
		return cached, nil
	}

	var buckets []models.RevenueBucket
	var err error
	switch rng {
	case RevenueRangeWeek:
		buckets, err = s.revenueWeek(ctx)
	case RevenueRangeMonth:
		buckets, err = s.revenueMonth(ctx)
	case RevenueRangeYear:
		buckets, err = s.revenueYear(ctx)
	}
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetRevenue(ctx, rng, buckets, reportCacheTTL); err != nil {
		log.Printf("Revenue cache write failed for range %s: %v", rng, err)
	}
	return buckets, nil
}

// revenueWeek covers the trailing seven days, one bucket per day.
func (s *reportingService) revenueWeek(ctx context.Context) ([]models.RevenueBucket, error) {
	now := s.now()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	start := end.AddDate(0, 0, -7)

	totals, err := s.reportRepo.RevenueByDay(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("revenue by day: %w", err)
	}

	buckets := make([]models.RevenueBucket, 0, 7)
	for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		buckets = append(buckets, models.RevenueBucket{Label: key, Revenue: totals[key]})
	}
	return buckets, nil
}

// revenueMonth covers the current calendar month, one bucket per ISO week
// that touches it.
func (s *reportingService) revenueMonth(ctx context.Context) ([]models.RevenueBucket, error) {
	now := s.now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, 0)

	totals, err := s.reportRepo.RevenueByWeek(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("revenue by week: %w", err)
	}
	byWeek := make(map[int]float64, len(totals))
	for _, t := range totals {
		byWeek[t.Bucket] = t.Total
	}

	var buckets []models.RevenueBucket
	seen := make(map[int]bool)
	for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
		_, week := day.ISOWeek()
		if seen[week] {
			continue
		}
		seen[week] = true
		buckets = append(buckets, models.RevenueBucket{
			Label:   fmt.Sprintf("Week %d", week),
			Revenue: byWeek[week],
		})
	}
	return buckets, nil
}

// revenueYear covers the current calendar year, one bucket per month.
func (s *reportingService) revenueYear(ctx context.Context) ([]models.RevenueBucket, error) {
	year := s.now().Year()
	totals, err := s.reportRepo.RevenueByMonth(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("revenue by month: %w", err)
	}
	byMonth := make(map[int]float64, len(totals))
	for _, t := range totals {
		byMonth[t.Bucket] = t.Total
	}

	buckets := make([]models.RevenueBucket, 0, 12)
	for month := 1; month <= 12; month++ {
		buckets = append(buckets, models.RevenueBucket{
			Label:   time.Month(month).String(),
			Revenue: byMonth[month],
		})
	}
	return buckets, nil
}

func (s *reportingService) TopFoods(ctx context.Context, limit int) ([]models.TopFood, error) {
	if limit <= 0 {
		limit = defaultTopFoodsLimit
	}
	foods, err := s.reportRepo.TopFoods(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("top foods: %w", err)
	}
	if foods == nil {
		foods = []models.TopFood{}
	}
	return foods, nil
}

func (s *reportingService) EmployeeSummary(ctx context.Context) ([]models.EmployeeStats, error) {
	stats, err := s.reportRepo.EmployeeSummary(ctx)
	if err != nil {
		return nil, fmt.Errorf("employee summary: %w", err)
	}
	if stats == nil {
		stats = []models.EmployeeStats{}
	}
	return stats, nil
}

// DashboardSummary serves from cache when possible and falls back to a fresh
// aggregation on a miss.
func (s *reportingService) DashboardSummary(ctx context.Context) (*models.DashboardSummary, error) {
	if cached, err := s.cache.GetDashboardSummary(ctx); err != nil {
		log.Printf("Dashboard cache read failed: %v", err)
	} else if cached != nil {
		return cached, nil
	}

	summary, err := s.buildDashboard(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetDashboardSummary(ctx, summary, reportCacheTTL); err != nil {
		log.Printf("Dashboard cache write failed: %v", err)
	}
	return summary, nil
}

// RefreshDashboard recomputes the dashboard payload and overwrites the cache.
// The background scheduler calls this so interactive reads stay warm.
func (s *reportingService) RefreshDashboard(ctx context.Context) error {
	summary, err := s.buildDashboard(ctx)
	if err != nil {
		return err
	}
	return s.cache.SetDashboardSummary(ctx, summary, reportCacheTTL)
}

func (s *reportingService) buildDashboard(ctx context.Context) (*models.DashboardSummary, error) {
	sales, err := s.reportRepo.TotalSales(ctx)
	if err != nil {
		return nil, fmt.Errorf("total sales: %w", err)
	}
	customers, err := s.reportRepo.TotalCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("total customers: %w", err)
	}
	orders, err := s.reportRepo.TotalOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("total orders: %w", err)
	}
	topFoods, err := s.reportRepo.TopFoods(ctx, defaultTopFoodsLimit)
	if err != nil {
		return nil, fmt.Errorf("top foods: %w", err)
	}
	if topFoods == nil {
		topFoods = []models.TopFood{}
	}

	return &models.DashboardSummary{
		TotalSales:     sales,
		TotalCustomers: customers,
		TotalOrders:    orders,
		TopFoods:       topFoods,
	}, nil
}
