package repositories

import (
	"context"

	"dineflow/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type OrderItemRepository interface {
	WithTx(tx pgx.Tx) OrderItemRepository
	CreateMany(ctx context.Context, items []*models.OrderItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.OrderItem, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItem, error)
	Update(ctx context.Context, item *models.OrderItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	MarkServed(ctx context.Context, orderID uuid.UUID, itemIDs []uuid.UUID) (int, error)
	CountUnserved(ctx context.Context, orderID uuid.UUID) (int, error)
	DeleteAll(ctx context.Context) error
}

type orderItemRepo struct {
	db DB
}

func NewOrderItemRepo(db DB) OrderItemRepository {
	return &orderItemRepo{db: db}
}

func (r *orderItemRepo) WithTx(tx pgx.Tx) OrderItemRepository {
	return &orderItemRepo{db: tx}
}

func (r *orderItemRepo) CreateMany(ctx context.Context, items []*models.OrderItem) error {
	query := `
		INSERT INTO order_items (id, order_id, food_id, quantity, note, served)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, item := range items {
		if _, err := r.db.Exec(ctx, query, item.ID, item.OrderID, item.FoodID,
			item.Quantity, item.Note, item.Served); err != nil {
			return err
		}
	}
	return nil
}

func (r *orderItemRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.OrderItem, error) {
	item := &models.OrderItem{}
	query := `
		SELECT id, order_id, food_id, quantity, note, served
		FROM order_items
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&item.ID, &item.OrderID, &item.FoodID,
		&item.Quantity, &item.Note, &item.Served)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *orderItemRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItem, error) {
	query := `
		SELECT id, order_id, food_id, quantity, note, served
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.OrderItem
	for rows.Next() {
		item := &models.OrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.FoodID, &item.Quantity,
			&item.Note, &item.Served); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *orderItemRepo) Update(ctx context.Context, item *models.OrderItem) error {
	query := `UPDATE order_items SET food_id = $1, quantity = $2, note = $3 WHERE id = $4`
	_, err := r.db.Exec(ctx, query, item.FoodID, item.Quantity, item.Note, item.ID)
	return err
}

func (r *orderItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM order_items WHERE id = $1`, id)
	return err
}

// MarkServed flags the given items of an order as served and returns how many
// rows were touched.
func (r *orderItemRepo) MarkServed(ctx context.Context, orderID uuid.UUID, itemIDs []uuid.UUID) (int, error) {
	query := `UPDATE order_items SET served = TRUE WHERE order_id = $1 AND id = ANY($2)`
	tag, err := r.db.Exec(ctx, query, orderID, itemIDs)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (r *orderItemRepo) CountUnserved(ctx context.Context, orderID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM order_items WHERE order_id = $1 AND served = FALSE`
	var count int
	err := r.db.QueryRow(ctx, query, orderID).Scan(&count)
	return count, err
}

func (r *orderItemRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `DELETE FROM order_items`)
	return err
}
