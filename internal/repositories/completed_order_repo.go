package repositories

import (
	"context"

	"dineflow/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CompletedOrderRepository interface {
	WithTx(tx pgx.Tx) CompletedOrderRepository
	Create(ctx context.Context, co *models.CompletedOrder) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.CompletedOrder, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.CompletedOrder, error)
	CreateMappings(ctx context.Context, completedID uuid.UUID, orderIDs []uuid.UUID) error
	ListMappedOrderIDs(ctx context.Context, completedID uuid.UUID) ([]uuid.UUID, error)
	ListMappingsFor(ctx context.Context, completedIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error)
	CreateItems(ctx context.Context, items []*models.CompletedOrderItem) error
	ListItems(ctx context.Context, completedID uuid.UUID) ([]*models.CompletedOrderItem, error)
	ListItemsFor(ctx context.Context, completedIDs []uuid.UUID) (map[uuid.UUID][]*models.CompletedOrderItem, error)
	DeleteAll(ctx context.Context) error
}

type completedOrderRepo struct {
	db DB
}

func NewCompletedOrderRepo(db DB) CompletedOrderRepository {
	return &completedOrderRepo{db: db}
}

func (r *completedOrderRepo) WithTx(tx pgx.Tx) CompletedOrderRepository {
	return &completedOrderRepo{db: tx}
}

func (r *completedOrderRepo) Create(ctx context.Context, co *models.CompletedOrder) error {
	query := `
		INSERT INTO orders_completed (id, employee_id, customer_name, customer_phone, table_id, total_price, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query, co.ID, co.EmployeeID, co.CustomerName,
		co.CustomerPhone, co.TableID, co.TotalPrice, co.CompletedAt)
	return err
}

func (r *completedOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.CompletedOrder, error) {
	co := &models.CompletedOrder{}
	query := `
		SELECT id, employee_id, customer_name, customer_phone, table_id, total_price, completed_at
		FROM orders_completed
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&co.ID, &co.EmployeeID, &co.CustomerName,
		&co.CustomerPhone, &co.TableID, &co.TotalPrice, &co.CompletedAt)
	if err != nil {
		return nil, err
	}
	return co, nil
}

// GetByIDs fetches a batch of completed orders keyed by id. Missing ids are
// simply absent from the map.
func (r *completedOrderRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.CompletedOrder, error) {
	query := `
		SELECT id, employee_id, customer_name, customer_phone, table_id, total_price, completed_at
		FROM orders_completed
		WHERE id = ANY($1)
	`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[uuid.UUID]*models.CompletedOrder, len(ids))
	for rows.Next() {
		co := &models.CompletedOrder{}
		if err := rows.Scan(&co.ID, &co.EmployeeID, &co.CustomerName,
			&co.CustomerPhone, &co.TableID, &co.TotalPrice, &co.CompletedAt); err != nil {
			return nil, err
		}
		byID[co.ID] = co
	}
	return byID, rows.Err()
}

func (r *completedOrderRepo) CreateMappings(ctx context.Context, completedID uuid.UUID, orderIDs []uuid.UUID) error {
	query := `INSERT INTO completed_order_mappings (completed_id, original_order_id) VALUES ($1, $2)`
	for _, orderID := range orderIDs {
		if _, err := r.db.Exec(ctx, query, completedID, orderID); err != nil {
			return err
		}
	}
	return nil
}

func (r *completedOrderRepo) ListMappedOrderIDs(ctx context.Context, completedID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT original_order_id FROM completed_order_mappings WHERE completed_id = $1`
	rows, err := r.db.Query(ctx, query, completedID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListMappingsFor returns the original order ids for a batch of completed
// orders, grouped by completed id.
func (r *completedOrderRepo) ListMappingsFor(ctx context.Context, completedIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	query := `
		SELECT completed_id, original_order_id
		FROM completed_order_mappings
		WHERE completed_id = ANY($1)
	`
	rows, err := r.db.Query(ctx, query, completedIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	mappings := make(map[uuid.UUID][]uuid.UUID, len(completedIDs))
	for rows.Next() {
		var completedID, orderID uuid.UUID
		if err := rows.Scan(&completedID, &orderID); err != nil {
			return nil, err
		}
		mappings[completedID] = append(mappings[completedID], orderID)
	}
	return mappings, rows.Err()
}

func (r *completedOrderRepo) CreateItems(ctx context.Context, items []*models.CompletedOrderItem) error {
	query := `
		INSERT INTO completed_order_items (id, completed_id, original_order_id, food_id, quantity, note)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, item := range items {
		if _, err := r.db.Exec(ctx, query, item.ID, item.CompletedID, item.OriginalOrderID,
			item.FoodID, item.Quantity, item.Note); err != nil {
			return err
		}
	}
	return nil
}

func (r *completedOrderRepo) ListItems(ctx context.Context, completedID uuid.UUID) ([]*models.CompletedOrderItem, error) {
	query := `
		SELECT id, completed_id, original_order_id, food_id, quantity, note
		FROM completed_order_items
		WHERE completed_id = $1
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query, completedID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.CompletedOrderItem
	for rows.Next() {
		item := &models.CompletedOrderItem{}
		if err := rows.Scan(&item.ID, &item.CompletedID, &item.OriginalOrderID,
			&item.FoodID, &item.Quantity, &item.Note); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ListItemsFor returns the snapshot items for a batch of completed orders,
// grouped by completed id.
func (r *completedOrderRepo) ListItemsFor(ctx context.Context, completedIDs []uuid.UUID) (map[uuid.UUID][]*models.CompletedOrderItem, error) {
	query := `
		SELECT id, completed_id, original_order_id, food_id, quantity, note
		FROM completed_order_items
		WHERE completed_id = ANY($1)
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query, completedIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	grouped := make(map[uuid.UUID][]*models.CompletedOrderItem, len(completedIDs))
	for rows.Next() {
		item := &models.CompletedOrderItem{}
		if err := rows.Scan(&item.ID, &item.CompletedID, &item.OriginalOrderID,
			&item.FoodID, &item.Quantity, &item.Note); err != nil {
			return nil, err
		}
		grouped[item.CompletedID] = append(grouped[item.CompletedID], item)
	}
	return grouped, rows.Err()
}

func (r *completedOrderRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM completed_order_items`); err != nil {
		return err
	}
	if _, err := r.db.Exec(ctx, `DELETE FROM completed_order_mappings`); err != nil {
		return err
	}
	_, err := r.db.Exec(ctx, `DELETE FROM orders_completed`)
	return err
}
