package services

import (
	"context"
	"testing"
	"time"

	"dineflow/internal/models"
	"dineflow/internal/realtime"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type PaymentServiceTestSuite struct {
	suite.Suite
	mockDB      pgxmock.PgxPoolIface
	orderRepo   *MockOrderRepository
	itemRepo    *MockOrderItemRepository
	tableRepo   *MockTableRepository
	completed   *MockCompletedOrderRepository
	paymentRepo *MockPaymentRepository
	cache       *MockCacheService
	hub         *MockBroadcaster
	service     PaymentServiceInterface
	ctx         context.Context
	waiterID    uuid.UUID
}

func (suite *PaymentServiceTestSuite) SetupTest() {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mockDB = mockDB

	suite.orderRepo = &MockOrderRepository{}
	suite.itemRepo = &MockOrderItemRepository{}
	suite.tableRepo = &MockTableRepository{}
	suite.completed = &MockCompletedOrderRepository{}
	suite.paymentRepo = &MockPaymentRepository{}
	suite.cache = &MockCacheService{}
	suite.hub = &MockBroadcaster{}
	suite.service = NewPaymentService(mockDB, suite.orderRepo, suite.itemRepo,
		suite.tableRepo, suite.completed, suite.paymentRepo, suite.cache, suite.hub)
	suite.ctx = context.Background()
	suite.waiterID = uuid.New()
}

func (suite *PaymentServiceTestSuite) TearDownTest() {
	suite.mockDB.Close()
}

func TestPaymentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentServiceTestSuite))
}

func (suite *PaymentServiceTestSuite) checkoutRequest() *CheckoutRequest {
	return &CheckoutRequest{
		TableID:       5,
		CustomerName:  "Ana",
		CustomerPhone: "555-0101",
		Method:        models.PaymentMethodCard,
	}
}

func (suite *PaymentServiceTestSuite) TestCheckout_ConsolidatesAllOpenOrders() {
	orderA := &models.Order{ID: uuid.New(), EmployeeID: suite.waiterID, TableID: 5,
		Status: models.OrderCompleted, TotalPrice: 200}
	orderB := &models.Order{ID: uuid.New(), EmployeeID: suite.waiterID, TableID: 5,
		Status: models.OrderReadyToServe, TotalPrice: 100}
	orders := []*models.Order{orderA, orderB}
	orderIDs := []uuid.UUID{orderA.ID, orderB.ID}

	suite.mockDB.ExpectBegin()
	suite.orderRepo.On("SelectOpenForUpdate", suite.ctx, 5).Return(orders, nil)
	suite.completed.On("Create", suite.ctx, mock.AnythingOfType("*models.CompletedOrder")).Return(nil)
	suite.completed.On("CreateMappings", suite.ctx, mock.Anything, orderIDs).Return(nil)
	suite.itemRepo.On("ListByOrder", suite.ctx, orderA.ID).
		Return([]*models.OrderItem{{ID: uuid.New(), OrderID: orderA.ID, FoodID: uuid.New(), Quantity: 2}}, nil)
	suite.itemRepo.On("ListByOrder", suite.ctx, orderB.ID).
		Return([]*models.OrderItem{{ID: uuid.New(), OrderID: orderB.ID, FoodID: uuid.New(), Quantity: 1}}, nil)
	suite.completed.On("CreateItems", suite.ctx, mock.Anything).Return(nil)
	suite.orderRepo.On("MarkPaid", suite.ctx, orderIDs, "Ana", "555-0101").Return(nil)
	suite.paymentRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.Payment")).Return(nil)
	suite.tableRepo.On("SetStatus", suite.ctx, 5, models.TableAvailable).Return(true, nil)
	suite.mockDB.ExpectCommit()

	suite.cache.On("InvalidateReports", suite.ctx).Return(nil)
	suite.hub.On("Broadcast", realtime.EventTableUpdate, mock.Anything, "").Return()
	suite.hub.On("Broadcast", realtime.EventOrderUpdate, mock.Anything, "").Return()

	receipt, err := suite.service.Checkout(suite.ctx, suite.checkoutRequest())
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 300.0, receipt.TotalPrice)
	assert.Equal(suite.T(), 300.0, receipt.AmountPaid)
	assert.Equal(suite.T(), models.PaymentMethodCard, receipt.Method)
	assert.Len(suite.T(), receipt.Orders, 2)
	for _, ro := range receipt.Orders {
		assert.Equal(suite.T(), 150.0, ro.Subtotal)
		for _, item := range ro.Items {
			assert.Equal(suite.T(), ro.OrderID, item.OriginalOrderID)
		}
	}

	suite.completed.AssertExpectations(suite.T())
	suite.paymentRepo.AssertExpectations(suite.T())
	suite.cache.AssertExpectations(suite.T())
	assert.NoError(suite.T(), suite.mockDB.ExpectationsWereMet())
}

// The consolidated order must carry the id of the waiter who opened the
// sitting (the oldest selected order), even when a different staffer runs
// the checkout. Anything else skews the per-employee sales report.
func (suite *PaymentServiceTestSuite) TestCheckout_AttributedToFirstOrderEmployee() {
	waiterA := uuid.New()
	waiterB := uuid.New()
	orderA := &models.Order{ID: uuid.New(), EmployeeID: waiterA, TableID: 5,
		Status: models.OrderCompleted, TotalPrice: 120}
	orderB := &models.Order{ID: uuid.New(), EmployeeID: waiterB, TableID: 5,
		Status: models.OrderCompleted, TotalPrice: 80}

	suite.mockDB.ExpectBegin()
	suite.orderRepo.On("SelectOpenForUpdate", suite.ctx, 5).
		Return([]*models.Order{orderA, orderB}, nil)
	suite.completed.On("Create", suite.ctx, mock.MatchedBy(func(co *models.CompletedOrder) bool {
		return co.EmployeeID == waiterA
	})).Return(nil)
	suite.completed.On("CreateMappings", suite.ctx, mock.Anything, mock.Anything).Return(nil)
	suite.itemRepo.On("ListByOrder", suite.ctx, mock.Anything).Return([]*models.OrderItem{}, nil)
	suite.completed.On("CreateItems", suite.ctx, mock.Anything).Return(nil)
	suite.orderRepo.On("MarkPaid", suite.ctx, mock.Anything, "Ana", "555-0101").Return(nil)
	suite.paymentRepo.On("Create", suite.ctx, mock.Anything).Return(nil)
	suite.tableRepo.On("SetStatus", suite.ctx, 5, models.TableAvailable).Return(true, nil)
	suite.mockDB.ExpectCommit()

	suite.cache.On("InvalidateReports", suite.ctx).Return(nil)
	suite.hub.On("Broadcast", mock.Anything, mock.Anything, "").Return()

	receipt, err := suite.service.Checkout(suite.ctx, suite.checkoutRequest())
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), waiterA, receipt.EmployeeID)
	suite.completed.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestCheckout_NoOpenOrders() {
	suite.mockDB.ExpectBegin()
	suite.orderRepo.On("SelectOpenForUpdate", suite.ctx, 5).Return([]*models.Order{}, nil)
	suite.mockDB.ExpectRollback()

	_, err := suite.service.Checkout(suite.ctx, suite.checkoutRequest())
	assert.ErrorIs(suite.T(), err, ErrNoActiveOrders)
	suite.completed.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
}

func (suite *PaymentServiceTestSuite) TestCheckout_InvalidMethod() {
	req := suite.checkoutRequest()
	req.Method = "barter"

	_, err := suite.service.Checkout(suite.ctx, req)
	assert.ErrorIs(suite.T(), err, ErrValidation)
}

func (suite *PaymentServiceTestSuite) TestCheckout_MissingCustomerName() {
	req := suite.checkoutRequest()
	req.CustomerName = ""

	_, err := suite.service.Checkout(suite.ctx, req)
	assert.ErrorIs(suite.T(), err, ErrValidation)
}

func (suite *PaymentServiceTestSuite) TestCheckout_MidFlightFailureRollsBack() {
	order := &models.Order{ID: uuid.New(), EmployeeID: suite.waiterID, TableID: 5,
		Status: models.OrderCompleted, TotalPrice: 80}

	suite.mockDB.ExpectBegin()
	suite.orderRepo.On("SelectOpenForUpdate", suite.ctx, 5).Return([]*models.Order{order}, nil)
	suite.completed.On("Create", suite.ctx, mock.Anything).Return(assert.AnError)
	suite.mockDB.ExpectRollback()

	_, err := suite.service.Checkout(suite.ctx, suite.checkoutRequest())
	assert.ErrorIs(suite.T(), err, ErrCheckoutFailed)
	suite.paymentRepo.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
	suite.cache.AssertNotCalled(suite.T(), "InvalidateReports", mock.Anything)
	suite.hub.AssertNotCalled(suite.T(), "Broadcast", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PaymentServiceTestSuite) TestCheckout_CacheFailureDoesNotFail() {
	order := &models.Order{ID: uuid.New(), EmployeeID: suite.waiterID, TableID: 5,
		Status: models.OrderCompleted, TotalPrice: 60}

	suite.mockDB.ExpectBegin()
	suite.orderRepo.On("SelectOpenForUpdate", suite.ctx, 5).Return([]*models.Order{order}, nil)
	suite.completed.On("Create", suite.ctx, mock.Anything).Return(nil)
	suite.completed.On("CreateMappings", suite.ctx, mock.Anything, mock.Anything).Return(nil)
	suite.itemRepo.On("ListByOrder", suite.ctx, order.ID).Return([]*models.OrderItem{}, nil)
	suite.completed.On("CreateItems", suite.ctx, mock.Anything).Return(nil)
	suite.orderRepo.On("MarkPaid", suite.ctx, mock.Anything, "Ana", "555-0101").Return(nil)
	suite.paymentRepo.On("Create", suite.ctx, mock.Anything).Return(nil)
	suite.tableRepo.On("SetStatus", suite.ctx, 5, models.TableAvailable).Return(true, nil)
	suite.mockDB.ExpectCommit()

	suite.cache.On("InvalidateReports", suite.ctx).Return(assert.AnError)
	suite.hub.On("Broadcast", mock.Anything, mock.Anything, "").Return()

	receipt, err := suite.service.Checkout(suite.ctx, suite.checkoutRequest())
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 60.0, receipt.TotalPrice)
}

func (suite *PaymentServiceTestSuite) TestGetReceipt_GroupsByOriginalOrder() {
	completedID := uuid.New()
	orderA := uuid.New()
	orderB := uuid.New()
	completed := &models.CompletedOrder{
		ID:            completedID,
		EmployeeID:    suite.waiterID,
		CustomerName:  "Ana",
		CustomerPhone: "555-0101",
		TableID:       5,
		TotalPrice:    300,
	}
	payment := &models.Payment{
		ID:          uuid.New(),
		CompletedID: completedID,
		AmountPaid:  300,
		Method:      models.PaymentMethodCash,
		Status:      models.PaymentCompleted,
	}
	items := []*models.CompletedOrderItem{
		{ID: uuid.New(), CompletedID: completedID, OriginalOrderID: orderA, FoodID: uuid.New(), Quantity: 1},
		{ID: uuid.New(), CompletedID: completedID, OriginalOrderID: orderB, FoodID: uuid.New(), Quantity: 2},
		{ID: uuid.New(), CompletedID: completedID, OriginalOrderID: orderA, FoodID: uuid.New(), Quantity: 3},
	}

	suite.paymentRepo.On("GetByID", suite.ctx, payment.ID).Return(payment, nil)
	suite.completed.On("GetByID", suite.ctx, completedID).Return(completed, nil)
	suite.completed.On("ListMappedOrderIDs", suite.ctx, completedID).Return([]uuid.UUID{orderA, orderB}, nil)
	suite.completed.On("ListItems", suite.ctx, completedID).Return(items, nil)

	receipt, err := suite.service.GetReceipt(suite.ctx, payment.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), payment.ID, receipt.PaymentID)
	assert.Len(suite.T(), receipt.Orders, 2)
	assert.Equal(suite.T(), orderA, receipt.Orders[0].OrderID)
	assert.Len(suite.T(), receipt.Orders[0].Items, 2)
	assert.Len(suite.T(), receipt.Orders[1].Items, 1)
	assert.Equal(suite.T(), 150.0, receipt.Orders[0].Subtotal)
}

func (suite *PaymentServiceTestSuite) TestGetReceipt_NotFound() {
	paymentID := uuid.New()
	suite.paymentRepo.On("GetByID", suite.ctx, paymentID).Return(nil, pgx.ErrNoRows)

	_, err := suite.service.GetReceipt(suite.ctx, paymentID)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *PaymentServiceTestSuite) TestListReceipts_NewestFirstWithItemGroups() {
	completedOld := &models.CompletedOrder{ID: uuid.New(), EmployeeID: suite.waiterID,
		CustomerName: "Ana", TableID: 3, TotalPrice: 100}
	completedNew := &models.CompletedOrder{ID: uuid.New(), EmployeeID: suite.waiterID,
		CustomerName: "Bo", TableID: 7, TotalPrice: 250}
	orderOld := uuid.New()
	orderNewA := uuid.New()
	orderNewB := uuid.New()

	paymentOld := &models.Payment{ID: uuid.New(), CompletedID: completedOld.ID,
		AmountPaid: 100, Method: models.PaymentMethodCash,
		PaymentDate: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
	paymentNew := &models.Payment{ID: uuid.New(), CompletedID: completedNew.ID,
		AmountPaid: 250, Method: models.PaymentMethodCard,
		PaymentDate: time.Date(2026, 8, 20, 19, 30, 0, 0, time.UTC)}

	// The repository query orders by payment_date descending.
	suite.paymentRepo.On("List", suite.ctx).
		Return([]*models.Payment{paymentNew, paymentOld}, nil)
	suite.completed.On("GetByIDs", suite.ctx, []uuid.UUID{completedNew.ID, completedOld.ID}).
		Return(map[uuid.UUID]*models.CompletedOrder{
			completedOld.ID: completedOld,
			completedNew.ID: completedNew,
		}, nil)
	suite.completed.On("ListMappingsFor", suite.ctx, mock.Anything).
		Return(map[uuid.UUID][]uuid.UUID{
			completedOld.ID: {orderOld},
			completedNew.ID: {orderNewA, orderNewB},
		}, nil)
	suite.completed.On("ListItemsFor", suite.ctx, mock.Anything).
		Return(map[uuid.UUID][]*models.CompletedOrderItem{
			completedOld.ID: {
				{ID: uuid.New(), CompletedID: completedOld.ID, OriginalOrderID: orderOld, FoodID: uuid.New(), Quantity: 2},
			},
			completedNew.ID: {
				{ID: uuid.New(), CompletedID: completedNew.ID, OriginalOrderID: orderNewA, FoodID: uuid.New(), Quantity: 1},
				{ID: uuid.New(), CompletedID: completedNew.ID, OriginalOrderID: orderNewB, FoodID: uuid.New(), Quantity: 3},
			},
		}, nil)

	receipts, err := suite.service.ListReceipts(suite.ctx)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), receipts, 2)

	assert.Equal(suite.T(), paymentNew.ID, receipts[0].PaymentID)
	assert.Equal(suite.T(), paymentOld.ID, receipts[1].PaymentID)
	assert.True(suite.T(), receipts[0].PaymentDate.After(receipts[1].PaymentDate))

	assert.Len(suite.T(), receipts[0].Orders, 2)
	assert.Equal(suite.T(), orderNewA, receipts[0].Orders[0].OrderID)
	assert.Len(suite.T(), receipts[0].Orders[0].Items, 1)
	assert.Equal(suite.T(), 125.0, receipts[0].Orders[0].Subtotal)
	assert.Len(suite.T(), receipts[1].Orders, 1)
	assert.Len(suite.T(), receipts[1].Orders[0].Items, 1)
	assert.Equal(suite.T(), 100.0, receipts[1].Orders[0].Subtotal)
}

func (suite *PaymentServiceTestSuite) TestListReceipts_Empty() {
	suite.paymentRepo.On("List", suite.ctx).Return([]*models.Payment{}, nil)

	receipts, err := suite.service.ListReceipts(suite.ctx)
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), receipts)
	suite.completed.AssertNotCalled(suite.T(), "GetByIDs", mock.Anything, mock.Anything)
}

func (suite *PaymentServiceTestSuite) TestListReceiptsByPhone_RequiresPhone() {
	_, err := suite.service.ListReceiptsByPhone(suite.ctx, "")
	assert.ErrorIs(suite.T(), err, ErrValidation)
}
