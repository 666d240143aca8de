package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"dineflow/internal/models"
	"dineflow/internal/realtime"
	"dineflow/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// OrderServiceInterface defines the interface for order lifecycle operations
type OrderServiceInterface interface {
	Create(ctx context.Context, order *models.Order, originID string) (*models.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByTable(ctx context.Context, tableID int) ([]*models.Order, error)
	ListActive(ctx context.Context) ([]*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status, originID string) (*models.Order, error)
	AddItem(ctx context.Context, orderID uuid.UUID, item *models.OrderItem, originID string) (*models.Order, error)
	UpdateItem(ctx context.Context, orderID, itemID uuid.UUID, item *models.OrderItem, originID string) (*models.Order, error)
	DeleteItem(ctx context.Context, orderID, itemID uuid.UUID, originID string) (*models.Order, error)
	MarkItemsServed(ctx context.Context, orderID uuid.UUID, itemIDs []uuid.UUID, originID string) (*models.Order, error)
}

type orderService struct {
	db        repositories.DB
	orderRepo repositories.OrderRepository
	itemRepo  repositories.OrderItemRepository
	tableRepo repositories.TableRepository
	foodRepo  repositories.FoodRepository
	hub       Broadcaster
	kitchen   KitchenNotifier
}

// NewOrderService creates a new order service instance
func NewOrderService(db repositories.DB, orderRepo repositories.OrderRepository,
	itemRepo repositories.OrderItemRepository, tableRepo repositories.TableRepository,
	foodRepo repositories.FoodRepository, hub Broadcaster, kitchen KitchenNotifier) OrderServiceInterface {
	return &orderService{
		db:        db,
		orderRepo: orderRepo,
		itemRepo:  itemRepo,
		tableRepo: tableRepo,
		foodRepo:  foodRepo,
		hub:       hub,
		kitchen:   kitchen,
	}
}

// priceItems validates each item against the menu and returns the order
// total. Unknown or unavailable foods fail the whole order.
func (s *orderService) priceItems(ctx context.Context, items []*models.OrderItem) (float64, error) {
	seen := make(map[uuid.UUID]bool, len(items))
	var total float64
	for _, item := range items {
		if item.Quantity <= 0 {
			return 0, fmt.Errorf("%w: item quantity must be positive", ErrValidation)
		}
		if seen[item.FoodID] {
			return 0, fmt.Errorf("%w: duplicate food %s in order", ErrValidation, item.FoodID)
		}
		seen[item.FoodID] = true

		food, err := s.foodRepo.GetByID(ctx, item.FoodID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return 0, fmt.Errorf("%w: food %s", ErrNotFound, item.FoodID)
			}
			return 0, fmt.Errorf("lookup food: %w", err)
		}
		if !food.Available {
			return 0, fmt.Errorf("%w: food %q is not available", ErrValidation, food.Name)
		}
		total += food.Price * float64(item.Quantity)
	}
	return total, nil
}

func (s *orderService) Create(ctx context.Context, order *models.Order, originID string) (*models.Order, error) {
	if len(order.Items) == 0 {
		return nil, fmt.Errorf("%w: order must contain at least one item", ErrValidation)
	}

	table, err := s.tableRepo.GetByID(ctx, order.TableID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: table %d", ErrNotFound, order.TableID)
		}
		return nil, fmt.Errorf("get table: %w", err)
	}

	total, err := s.priceItems(ctx, order.Items)
	if err != nil {
		return nil, err
	}

	order.ID = uuid.New()
	order.Status = models.OrderPending
	order.TotalPrice = total
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	for _, item := range order.Items {
		item.ID = uuid.New()
		item.OrderID = order.ID
		item.Served = false
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin create order: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.orderRepo.WithTx(tx).Create(ctx, order); err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	if err := s.itemRepo.WithTx(tx).CreateMany(ctx, order.Items); err != nil {
		return nil, fmt.Errorf("insert order items: %w", err)
	}
	if table.Status != models.TableOccupied {
		if _, err := s.tableRepo.WithTx(tx).SetStatus(ctx, order.TableID, models.TableOccupied); err != nil {
			return nil, fmt.Errorf("occupy table: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit create order: %w", err)
	}

	s.notifyKitchen(ctx, order)
	s.hub.Broadcast(realtime.EventOrderUpdate, order, originID)
	s.hub.Broadcast(realtime.EventTableUpdate,
		&models.Table{TableID: order.TableID, Status: models.TableOccupied}, originID)

	return order, nil
}

// notifyKitchen is fire-and-forget: a kitchen outage must never fail the
// order that was already committed.
func (s *orderService) notifyKitchen(ctx context.Context, order *models.Order) {
	kitchenItems := make([]models.KitchenOrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		kitchenItems = append(kitchenItems, models.KitchenOrderItem{
			FoodID:   item.FoodID,
			Quantity: item.Quantity,
			Note:     item.Note,
		})
	}
	notification := &models.KitchenOrder{
		OrderID:   order.ID,
		TableID:   order.TableID,
		Items:     kitchenItems,
		Status:    order.Status,
		Priority:  "normal",
		CreatedAt: order.CreatedAt,
	}
	if err := s.kitchen.NotifyOrderCreated(ctx, notification); err != nil {
		log.Printf("Failed to notify kitchen about order %s: %v", order.ID, err)
	}
}

func (s *orderService) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: order %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	items, err := s.itemRepo.ListByOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	order.Items = items
	return order, nil
}

func (s *orderService) ListByTable(ctx context.Context, tableID int) ([]*models.Order, error) {
	orders, err := s.orderRepo.ListByTable(ctx, tableID)
	if err != nil {
		return nil, fmt.Errorf("list orders by table: %w", err)
	}
	return s.attachItems(ctx, orders)
}

func (s *orderService) ListActive(ctx context.Context) ([]*models.Order, error) {
	orders, err := s.orderRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active orders: %w", err)
	}
	return s.attachItems(ctx, orders)
}

func (s *orderService) attachItems(ctx context.Context, orders []*models.Order) ([]*models.Order, error) {
	for _, order := range orders {
		items, err := s.itemRepo.ListByOrder(ctx, order.ID)
		if err != nil {
			return nil, fmt.Errorf("list order items: %w", err)
		}
		order.Items = items
	}
	return orders, nil
}

func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status, originID string) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, fmt.Errorf("%w: unknown order status %q", ErrValidation, status)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin status update: %w", err)
	}
	defer tx.Rollback(ctx)

	orderRepo := s.orderRepo.WithTx(tx)
	order, err := orderRepo.GetByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: order %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("lock order: %w", err)
	}

	if !models.CanTransition(order.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, status)
	}

	if err := orderRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	order.Status = status
	order.UpdatedAt = time.Now()

	// Cancelling the last active order frees the table. Completion keeps it
	// occupied until checkout.
	tableFreed := false
	if status == models.OrderCancelled {
		active, err := orderRepo.CountActiveByTable(ctx, order.TableID)
		if err != nil {
			return nil, fmt.Errorf("count active orders: %w", err)
		}
		if active == 0 {
			if _, err := s.tableRepo.WithTx(tx).SetStatus(ctx, order.TableID, models.TableAvailable); err != nil {
				return nil, fmt.Errorf("release table: %w", err)
			}
			tableFreed = true
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit status update: %w", err)
	}

	s.hub.Broadcast(realtime.EventOrderUpdate, order, originID)
	if tableFreed {
		s.hub.Broadcast(realtime.EventTableUpdate,
			&models.Table{TableID: order.TableID, Status: models.TableAvailable}, originID)
	}
	return order, nil
}

// lockOpenOrder fetches an order inside tx and verifies it is still open for
// item mutation.
func (s *orderService) lockOpenOrder(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orderRepo.WithTx(tx).GetByIDForUpdate(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: order %s", ErrNotFound, orderID)
		}
		return nil, fmt.Errorf("lock order: %w", err)
	}
	if !models.IsOpenOrderStatus(order.Status) {
		return nil, fmt.Errorf("%w: order is %s", ErrInvalidState, order.Status)
	}
	return order, nil
}

func (s *orderService) AddItem(ctx context.Context, orderID uuid.UUID, item *models.OrderItem, originID string) (*models.Order, error) {
	total, err := s.priceItems(ctx, []*models.OrderItem{item})
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin add item: %w", err)
	}
	defer tx.Rollback(ctx)

	order, err := s.lockOpenOrder(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}

	itemRepo := s.itemRepo.WithTx(tx)
	existing, err := itemRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	for _, other := range existing {
		if other.FoodID == item.FoodID {
			return nil, fmt.Errorf("%w: duplicate food %s in order", ErrValidation, item.FoodID)
		}
	}

	item.ID = uuid.New()
	item.OrderID = orderID
	item.Served = false
	if err := itemRepo.CreateMany(ctx, []*models.OrderItem{item}); err != nil {
		return nil, fmt.Errorf("insert order item: %w", err)
	}
	if err := s.setTotal(ctx, tx, orderID, order.TotalPrice+total); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit add item: %w", err)
	}
	return s.reloadAndBroadcast(ctx, orderID, originID)
}

func (s *orderService) UpdateItem(ctx context.Context, orderID, itemID uuid.UUID, item *models.OrderItem, originID string) (*models.Order, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin update item: %w", err)
	}
	defer tx.Rollback(ctx)

	order, err := s.lockOpenOrder(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}

	itemRepo := s.itemRepo.WithTx(tx)
	existing, err := itemRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: order item %s", ErrNotFound, itemID)
		}
		return nil, fmt.Errorf("get order item: %w", err)
	}
	if existing.OrderID != orderID {
		return nil, fmt.Errorf("%w: order item %s", ErrNotFound, itemID)
	}

	siblings, err := itemRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	for _, other := range siblings {
		if other.ID != itemID && other.FoodID == item.FoodID {
			return nil, fmt.Errorf("%w: duplicate food %s in order", ErrValidation, item.FoodID)
		}
	}

	item.ID = itemID
	item.OrderID = orderID
	oldLine, err := s.lineTotal(ctx, existing)
	if err != nil {
		return nil, err
	}
	newLine, err := s.priceItems(ctx, []*models.OrderItem{item})
	if err != nil {
		return nil, err
	}

	if err := itemRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("update order item: %w", err)
	}
	if err := s.setTotal(ctx, tx, orderID, order.TotalPrice-oldLine+newLine); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit update item: %w", err)
	}
	return s.reloadAndBroadcast(ctx, orderID, originID)
}

func (s *orderService) DeleteItem(ctx context.Context, orderID, itemID uuid.UUID, originID string) (*models.Order, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin delete item: %w", err)
	}
	defer tx.Rollback(ctx)

	order, err := s.lockOpenOrder(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}

	itemRepo := s.itemRepo.WithTx(tx)
	existing, err := itemRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: order item %s", ErrNotFound, itemID)
		}
		return nil, fmt.Errorf("get order item: %w", err)
	}
	if existing.OrderID != orderID {
		return nil, fmt.Errorf("%w: order item %s", ErrNotFound, itemID)
	}

	items, err := itemRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	if len(items) <= 1 {
		return nil, fmt.Errorf("%w: cannot remove the last item, cancel the order instead", ErrValidation)
	}

	line, err := s.lineTotal(ctx, existing)
	if err != nil {
		return nil, err
	}
	if err := itemRepo.Delete(ctx, itemID); err != nil {
		return nil, fmt.Errorf("delete order item: %w", err)
	}
	if err := s.setTotal(ctx, tx, orderID, order.TotalPrice-line); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit delete item: %w", err)
	}
	return s.reloadAndBroadcast(ctx, orderID, originID)
}

// MarkItemsServed flags items as served and advances the order when the last
// one lands: preparing becomes ready_to_serve, ready_to_serve becomes
// completed.
func (s *orderService) MarkItemsServed(ctx context.Context, orderID uuid.UUID, itemIDs []uuid.UUID, originID string) (*models.Order, error) {
	if len(itemIDs) == 0 {
		return nil, fmt.Errorf("%w: no item ids given", ErrValidation)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin mark served: %w", err)
	}
	defer tx.Rollback(ctx)

	order, err := s.lockOpenOrder(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}

	itemRepo := s.itemRepo.WithTx(tx)
	updated, err := itemRepo.MarkServed(ctx, orderID, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("mark items served: %w", err)
	}
	if updated != len(itemIDs) {
		return nil, fmt.Errorf("%w: %d of %d items belong to order %s",
			ErrValidation, updated, len(itemIDs), orderID)
	}

	unserved, err := itemRepo.CountUnserved(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("count unserved items: %w", err)
	}

	if unserved == 0 {
		next := ""
		switch order.Status {
		case models.OrderPreparing:
			next = models.OrderReadyToServe
		case models.OrderReadyToServe:
			next = models.OrderCompleted
		}
		if next != "" {
			if err := s.orderRepo.WithTx(tx).UpdateStatus(ctx, orderID, next); err != nil {
				return nil, fmt.Errorf("advance order status: %w", err)
			}
			order.Status = next
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit mark served: %w", err)
	}
	return s.reloadAndBroadcast(ctx, orderID, originID)
}

func (s *orderService) lineTotal(ctx context.Context, item *models.OrderItem) (float64, error) {
	food, err := s.foodRepo.GetByID(ctx, item.FoodID)
	if err != nil {
		return 0, fmt.Errorf("lookup food: %w", err)
	}
	return food.Price * float64(item.Quantity), nil
}

func (s *orderService) setTotal(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, total float64) error {
	if err := s.orderRepo.WithTx(tx).UpdateTotal(ctx, orderID, total); err != nil {
		return fmt.Errorf("update order total: %w", err)
	}
	return nil
}

func (s *orderService) reloadAndBroadcast(ctx context.Context, orderID uuid.UUID, originID string) (*models.Order, error) {
	order, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	s.hub.Broadcast(realtime.EventOrderUpdate, order, originID)
	return order, nil
}
