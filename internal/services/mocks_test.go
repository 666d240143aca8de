package services

import (
	"context"
	"time"

	"dineflow/internal/models"
	"dineflow/internal/repositories"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

// Mock repositories and collaborators shared by the service tests. WithTx
// returns the mock itself so expectations set on it cover transactional
// calls too.

type MockTableRepository struct {
	mock.Mock
}

func (m *MockTableRepository) WithTx(tx pgx.Tx) repositories.TableRepository {
	return m
}

func (m *MockTableRepository) List(ctx context.Context) ([]*models.Table, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Table), args.Error(1)
}

func (m *MockTableRepository) GetByID(ctx context.Context, tableID int) (*models.Table, error) {
	args := m.Called(ctx, tableID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Table), args.Error(1)
}

func (m *MockTableRepository) SetStatus(ctx context.Context, tableID int, status string) (bool, error) {
	args := m.Called(ctx, tableID, status)
	return args.Bool(0), args.Error(1)
}

func (m *MockTableRepository) CreateRange(ctx context.Context, count int) ([]*models.Table, error) {
	args := m.Called(ctx, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Table), args.Error(1)
}

func (m *MockTableRepository) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) WithTx(tx pgx.Tx) repositories.OrderRepository {
	return m
}

func (m *MockOrderRepository) Create(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateTotal(ctx context.Context, id uuid.UUID, total float64) error {
	args := m.Called(ctx, id, total)
	return args.Error(0)
}

func (m *MockOrderRepository) ListByTable(ctx context.Context, tableID int) ([]*models.Order, error) {
	args := m.Called(ctx, tableID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderRepository) ListActive(ctx context.Context) ([]*models.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderRepository) CountActiveByTable(ctx context.Context, tableID int) (int, error) {
	args := m.Called(ctx, tableID)
	return args.Int(0), args.Error(1)
}

func (m *MockOrderRepository) SelectOpenForUpdate(ctx context.Context, tableID int) ([]*models.Order, error) {
	args := m.Called(ctx, tableID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderRepository) MarkPaid(ctx context.Context, ids []uuid.UUID, customerName, customerPhone string) error {
	args := m.Called(ctx, ids, customerName, customerPhone)
	return args.Error(0)
}

func (m *MockOrderRepository) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockOrderItemRepository struct {
	mock.Mock
}

func (m *MockOrderItemRepository) WithTx(tx pgx.Tx) repositories.OrderItemRepository {
	return m
}

func (m *MockOrderItemRepository) CreateMany(ctx context.Context, items []*models.OrderItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *MockOrderItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.OrderItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrderItem), args.Error(1)
}

func (m *MockOrderItemRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItem, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.OrderItem), args.Error(1)
}

func (m *MockOrderItemRepository) Update(ctx context.Context, item *models.OrderItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockOrderItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderItemRepository) MarkServed(ctx context.Context, orderID uuid.UUID, itemIDs []uuid.UUID) (int, error) {
	args := m.Called(ctx, orderID, itemIDs)
	return args.Int(0), args.Error(1)
}

func (m *MockOrderItemRepository) CountUnserved(ctx context.Context, orderID uuid.UUID) (int, error) {
	args := m.Called(ctx, orderID)
	return args.Int(0), args.Error(1)
}

func (m *MockOrderItemRepository) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockCompletedOrderRepository struct {
	mock.Mock
}

func (m *MockCompletedOrderRepository) WithTx(tx pgx.Tx) repositories.CompletedOrderRepository {
	return m
}

func (m *MockCompletedOrderRepository) Create(ctx context.Context, co *models.CompletedOrder) error {
	args := m.Called(ctx, co)
	return args.Error(0)
}

func (m *MockCompletedOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.CompletedOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CompletedOrder), args.Error(1)
}

func (m *MockCompletedOrderRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.CompletedOrder, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]*models.CompletedOrder), args.Error(1)
}

func (m *MockCompletedOrderRepository) CreateMappings(ctx context.Context, completedID uuid.UUID, orderIDs []uuid.UUID) error {
	args := m.Called(ctx, completedID, orderIDs)
	return args.Error(0)
}

func (m *MockCompletedOrderRepository) ListMappedOrderIDs(ctx context.Context, completedID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, completedID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockCompletedOrderRepository) ListMappingsFor(ctx context.Context, completedIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	args := m.Called(ctx, completedIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID][]uuid.UUID), args.Error(1)
}

func (m *MockCompletedOrderRepository) CreateItems(ctx context.Context, items []*models.CompletedOrderItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *MockCompletedOrderRepository) ListItems(ctx context.Context, completedID uuid.UUID) ([]*models.CompletedOrderItem, error) {
	args := m.Called(ctx, completedID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CompletedOrderItem), args.Error(1)
}

func (m *MockCompletedOrderRepository) ListItemsFor(ctx context.Context, completedIDs []uuid.UUID) (map[uuid.UUID][]*models.CompletedOrderItem, error) {
	args := m.Called(ctx, completedIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID][]*models.CompletedOrderItem), args.Error(1)
}

func (m *MockCompletedOrderRepository) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) WithTx(tx pgx.Tx) repositories.PaymentRepository {
	return m
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) List(ctx context.Context) ([]*models.Payment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListByPhone(ctx context.Context, phone string) ([]*models.Payment, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockFoodRepository struct {
	mock.Mock
}

func (m *MockFoodRepository) Create(ctx context.Context, food *models.Food) error {
	args := m.Called(ctx, food)
	return args.Error(0)
}

func (m *MockFoodRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Food, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Food), args.Error(1)
}

func (m *MockFoodRepository) List(ctx context.Context) ([]*models.Food, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Food), args.Error(1)
}

func (m *MockFoodRepository) Update(ctx context.Context, food *models.Food) error {
	args := m.Called(ctx, food)
	return args.Error(0)
}

func (m *MockFoodRepository) SetAvailability(ctx context.Context, id uuid.UUID, available bool) (bool, error) {
	args := m.Called(ctx, id, available)
	return args.Bool(0), args.Error(1)
}

func (m *MockFoodRepository) SetImageObject(ctx context.Context, id uuid.UUID, object string) error {
	args := m.Called(ctx, id, object)
	return args.Error(0)
}

func (m *MockFoodRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) RevenueByDay(ctx context.Context, from, to time.Time) (map[string]float64, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]float64), args.Error(1)
}

func (m *MockReportRepository) RevenueByWeek(ctx context.Context, from, to time.Time) ([]repositories.BucketTotal, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repositories.BucketTotal), args.Error(1)
}

func (m *MockReportRepository) RevenueByMonth(ctx context.Context, year int) ([]repositories.BucketTotal, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repositories.BucketTotal), args.Error(1)
}

func (m *MockReportRepository) TotalSales(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockReportRepository) TotalCustomers(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockReportRepository) TotalOrders(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockReportRepository) TopFoods(ctx context.Context, limit int) ([]models.TopFood, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TopFood), args.Error(1)
}

func (m *MockReportRepository) EmployeeSummary(ctx context.Context) ([]models.EmployeeStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.EmployeeStats), args.Error(1)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetDashboardSummary(ctx context.Context) (*models.DashboardSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DashboardSummary), args.Error(1)
}

func (m *MockCacheService) SetDashboardSummary(ctx context.Context, summary *models.DashboardSummary, ttl time.Duration) error {
	args := m.Called(ctx, summary, ttl)
	return args.Error(0)
}

func (m *MockCacheService) GetRevenue(ctx context.Context, rng string) ([]models.RevenueBucket, error) {
	args := m.Called(ctx, rng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RevenueBucket), args.Error(1)
}

func (m *MockCacheService) SetRevenue(ctx context.Context, rng string, buckets []models.RevenueBucket, ttl time.Duration) error {
	args := m.Called(ctx, rng, buckets, ttl)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateReports(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockBroadcaster struct {
	mock.Mock
}

func (m *MockBroadcaster) Broadcast(eventType string, payload any, originID string) {
	m.Called(eventType, payload, originID)
}

type MockKitchenNotifier struct {
	mock.Mock
}

func (m *MockKitchenNotifier) NotifyOrderCreated(ctx context.Context, order *models.KitchenOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}
