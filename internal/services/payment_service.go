package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"dineflow/internal/caching"
	"dineflow/internal/models"
	"dineflow/internal/realtime"
	"dineflow/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CheckoutRequest carries everything needed to consolidate a table's open
// orders into one payment.
type CheckoutRequest struct {
	TableID       int
	CustomerName  string
	CustomerPhone string
	Method        string
	OriginID      string
}

// PaymentServiceInterface defines the interface for payment consolidation operations
type PaymentServiceInterface interface {
	Checkout(ctx context.Context, req *CheckoutRequest) (*models.Receipt, error)
	GetReceipt(ctx context.Context, paymentID uuid.UUID) (*models.Receipt, error)
	ListReceipts(ctx context.Context) ([]*models.Receipt, error)
	ListReceiptsByPhone(ctx context.Context, phone string) ([]*models.Receipt, error)
}

type paymentService struct {
	db          repositories.DB
	orderRepo   repositories.OrderRepository
	itemRepo    repositories.OrderItemRepository
	tableRepo   repositories.TableRepository
	completed   repositories.CompletedOrderRepository
	paymentRepo repositories.PaymentRepository
	cache       caching.CacheService
	hub         Broadcaster
}

// NewPaymentService creates a new payment service instance
func NewPaymentService(db repositories.DB, orderRepo repositories.OrderRepository,
	itemRepo repositories.OrderItemRepository, tableRepo repositories.TableRepository,
	completed repositories.CompletedOrderRepository, paymentRepo repositories.PaymentRepository,
	cache caching.CacheService, hub Broadcaster) PaymentServiceInterface {
	return &paymentService{
		db:          db,
		orderRepo:   orderRepo,
		itemRepo:    itemRepo,
		tableRepo:   tableRepo,
		completed:   completed,
		paymentRepo: paymentRepo,
		cache:       cache,
		hub:         hub,
	}
}

// Checkout merges every open order of a table into a single completed order
// with one payment, all inside one transaction. The row locks taken by
// SelectOpenForUpdate serialize concurrent checkouts of the same table: the
// loser re-reads after the winner commits, finds no open orders left, and
// fails cleanly instead of double charging.
func (s *paymentService) Checkout(ctx context.Context, req *CheckoutRequest) (*models.Receipt, error) {
	if req.CustomerName == "" {
		return nil, fmt.Errorf("%w: customer name is required", ErrValidation)
	}
	if !models.ValidPaymentMethod(req.Method) {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrValidation, req.Method)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin checkout: %w", err)
	}
	defer tx.Rollback(ctx)

	orderRepo := s.orderRepo.WithTx(tx)
	orders, err := orderRepo.SelectOpenForUpdate(ctx, req.TableID)
	if err != nil {
		return nil, fmt.Errorf("%w: lock open orders: %v", ErrCheckoutFailed, err)
	}
	if len(orders) == 0 {
		return nil, fmt.Errorf("%w: table %d", ErrNoActiveOrders, req.TableID)
	}

	var total float64
	orderIDs := make([]uuid.UUID, 0, len(orders))
	for _, order := range orders {
		total += order.TotalPrice
		orderIDs = append(orderIDs, order.ID)
	}

	// The consolidated order belongs to the waiter who opened the sitting,
	// not to whoever runs the checkout. Orders come back ordered by
	// created_at, so the first one carries that waiter's id.
	completed := &models.CompletedOrder{
		ID:            uuid.New(),
		EmployeeID:    orders[0].EmployeeID,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		TableID:       req.TableID,
		TotalPrice:    total,
		CompletedAt:   time.Now(),
	}

	completedRepo := s.completed.WithTx(tx)
	if err := completedRepo.Create(ctx, completed); err != nil {
		return nil, fmt.Errorf("%w: create completed order: %v", ErrCheckoutFailed, err)
	}
	if err := completedRepo.CreateMappings(ctx, completed.ID, orderIDs); err != nil {
		return nil, fmt.Errorf("%w: create order mappings: %v", ErrCheckoutFailed, err)
	}

	itemRepo := s.itemRepo.WithTx(tx)
	receiptOrders := make([]models.ReceiptOrder, 0, len(orders))
	subtotal := total / float64(len(orders))
	var snapshot []*models.CompletedOrderItem
	for _, order := range orders {
		items, err := itemRepo.ListByOrder(ctx, order.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: list order items: %v", ErrCheckoutFailed, err)
		}
		copied := make([]*models.CompletedOrderItem, 0, len(items))
		for _, item := range items {
			copied = append(copied, &models.CompletedOrderItem{
				ID:              uuid.New(),
				CompletedID:     completed.ID,
				OriginalOrderID: order.ID,
				FoodID:          item.FoodID,
				Quantity:        item.Quantity,
				Note:            item.Note,
			})
		}
		snapshot = append(snapshot, copied...)
		receiptOrders = append(receiptOrders, models.ReceiptOrder{
			OrderID:  order.ID,
			Subtotal: subtotal,
			Items:    copied,
		})
	}
	if err := completedRepo.CreateItems(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("%w: snapshot order items: %v", ErrCheckoutFailed, err)
	}

	if err := orderRepo.MarkPaid(ctx, orderIDs, req.CustomerName, req.CustomerPhone); err != nil {
		return nil, fmt.Errorf("%w: mark orders paid: %v", ErrCheckoutFailed, err)
	}

	payment := &models.Payment{
		ID:          uuid.New(),
		CompletedID: completed.ID,
		AmountPaid:  total,
		Method:      req.Method,
		Status:      models.PaymentCompleted,
		PaymentDate: time.Now(),
	}
	if err := s.paymentRepo.WithTx(tx).Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("%w: create payment: %v", ErrCheckoutFailed, err)
	}

	if _, err := s.tableRepo.WithTx(tx).SetStatus(ctx, req.TableID, models.TableAvailable); err != nil {
		return nil, fmt.Errorf("%w: release table: %v", ErrCheckoutFailed, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%w: commit: %v", ErrCheckoutFailed, err)
	}

	if err := s.cache.InvalidateReports(ctx); err != nil {
		log.Printf("Failed to invalidate report cache after checkout: %v", err)
	}
	s.hub.Broadcast(realtime.EventTableUpdate,
		&models.Table{TableID: req.TableID, Status: models.TableAvailable}, req.OriginID)
	for _, order := range orders {
		order.Status = models.OrderPaid
		s.hub.Broadcast(realtime.EventOrderUpdate, order, req.OriginID)
	}

	return &models.Receipt{
		PaymentID:     payment.ID,
		CompletedID:   completed.ID,
		EmployeeID:    completed.EmployeeID,
		TableID:       completed.TableID,
		CustomerName:  completed.CustomerName,
		CustomerPhone: completed.CustomerPhone,
		TotalPrice:    completed.TotalPrice,
		AmountPaid:    payment.AmountPaid,
		Method:        payment.Method,
		PaymentDate:   payment.PaymentDate,
		CompletedAt:   completed.CompletedAt,
		Orders:        receiptOrders,
	}, nil
}

// GetReceipt rebuilds the consolidated receipt for one payment from the
// immutable snapshot tables. Items are grouped back under the original order
// they came from.
func (s *paymentService) GetReceipt(ctx context.Context, paymentID uuid.UUID) (*models.Receipt, error) {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: payment %s", ErrNotFound, paymentID)
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}

	completed, err := s.completed.GetByID(ctx, payment.CompletedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: completed order %s", ErrNotFound, payment.CompletedID)
		}
		return nil, fmt.Errorf("get completed order: %w", err)
	}

	orderIDs, err := s.completed.ListMappedOrderIDs(ctx, completed.ID)
	if err != nil {
		return nil, fmt.Errorf("list mapped orders: %w", err)
	}
	items, err := s.completed.ListItems(ctx, completed.ID)
	if err != nil {
		return nil, fmt.Errorf("list snapshot items: %w", err)
	}

	return assembleReceipt(payment, completed, orderIDs, items), nil
}

// ListReceipts returns every consolidated receipt, newest first.
func (s *paymentService) ListReceipts(ctx context.Context) ([]*models.Receipt, error) {
	payments, err := s.paymentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return s.buildReceipts(ctx, payments)
}

// ListReceiptsByPhone returns one customer's consolidated receipts, newest
// first.
func (s *paymentService) ListReceiptsByPhone(ctx context.Context, phone string) ([]*models.Receipt, error) {
	if phone == "" {
		return nil, fmt.Errorf("%w: phone is required", ErrValidation)
	}
	payments, err := s.paymentRepo.ListByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("list payments by phone: %w", err)
	}
	return s.buildReceipts(ctx, payments)
}

// buildReceipts reconstructs receipts for a page of payments with three
// batched queries instead of three per payment. The payments slice order is
// preserved.
func (s *paymentService) buildReceipts(ctx context.Context, payments []*models.Payment) ([]*models.Receipt, error) {
	if len(payments) == 0 {
		return []*models.Receipt{}, nil
	}

	completedIDs := make([]uuid.UUID, 0, len(payments))
	for _, payment := range payments {
		completedIDs = append(completedIDs, payment.CompletedID)
	}

	completedByID, err := s.completed.GetByIDs(ctx, completedIDs)
	if err != nil {
		return nil, fmt.Errorf("get completed orders: %w", err)
	}
	mappings, err := s.completed.ListMappingsFor(ctx, completedIDs)
	if err != nil {
		return nil, fmt.Errorf("list order mappings: %w", err)
	}
	itemsByCompleted, err := s.completed.ListItemsFor(ctx, completedIDs)
	if err != nil {
		return nil, fmt.Errorf("list snapshot items: %w", err)
	}

	receipts := make([]*models.Receipt, 0, len(payments))
	for _, payment := range payments {
		completed, ok := completedByID[payment.CompletedID]
		if !ok {
			return nil, fmt.Errorf("completed order %s missing for payment %s",
				payment.CompletedID, payment.ID)
		}
		receipts = append(receipts, assembleReceipt(payment, completed,
			mappings[payment.CompletedID], itemsByCompleted[payment.CompletedID]))
	}
	return receipts, nil
}

func assembleReceipt(payment *models.Payment, completed *models.CompletedOrder,
	orderIDs []uuid.UUID, items []*models.CompletedOrderItem) *models.Receipt {
	byOrder := make(map[uuid.UUID][]*models.CompletedOrderItem, len(orderIDs))
	for _, item := range items {
		byOrder[item.OriginalOrderID] = append(byOrder[item.OriginalOrderID], item)
	}

	subtotal := completed.TotalPrice
	if len(orderIDs) > 0 {
		subtotal = completed.TotalPrice / float64(len(orderIDs))
	}
	receiptOrders := make([]models.ReceiptOrder, 0, len(orderIDs))
	for _, orderID := range orderIDs {
		receiptOrders = append(receiptOrders, models.ReceiptOrder{
			OrderID:  orderID,
			Subtotal: subtotal,
			Items:    byOrder[orderID],
		})
	}

	return &models.Receipt{
		PaymentID:     payment.ID,
		CompletedID:   completed.ID,
		EmployeeID:    completed.EmployeeID,
		TableID:       completed.TableID,
		CustomerName:  completed.CustomerName,
		CustomerPhone: completed.CustomerPhone,
		TotalPrice:    completed.TotalPrice,
		AmountPaid:    payment.AmountPaid,
		Method:        payment.Method,
		PaymentDate:   payment.PaymentDate,
		CompletedAt:   completed.CompletedAt,
		Orders:        receiptOrders,
	}
}
