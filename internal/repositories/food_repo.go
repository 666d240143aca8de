package repositories

import (
	"context"

	"dineflow/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const foodColumns = `id, name, category, description, price, image_object, available, created_at, updated_at`

type FoodRepository interface {
	Create(ctx context.Context, food *models.Food) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Food, error)
	List(ctx context.Context) ([]*models.Food, error)
	Update(ctx context.Context, food *models.Food) error
	SetAvailability(ctx context.Context, id uuid.UUID, available bool) (bool, error)
	SetImageObject(ctx context.Context, id uuid.UUID, object string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type foodRepo struct {
	db DB
}

func NewFoodRepo(db DB) FoodRepository {
	return &foodRepo{db: db}
}

func (r *foodRepo) Create(ctx context.Context, food *models.Food) error {
	query := `
		INSERT INTO foods (id, name, category, description, price, image_object, available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, food.ID, food.Name, food.Category, food.Description,
		food.Price, food.ImageObject, food.Available)
	return err
}

func (r *foodRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Food, error) {
	query := `SELECT ` + foodColumns + ` FROM foods WHERE id = $1`
	return scanFood(r.db.QueryRow(ctx, query, id))
}

func (r *foodRepo) List(ctx context.Context) ([]*models.Food, error) {
	query := `SELECT ` + foodColumns + ` FROM foods ORDER BY category, name`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var foods []*models.Food
	for rows.Next() {
		food, err := scanFood(rows)
		if err != nil {
			return nil, err
		}
		foods = append(foods, food)
	}
	return foods, rows.Err()
}

func (r *foodRepo) Update(ctx context.Context, food *models.Food) error {
	query := `
		UPDATE foods
		SET name = $1, category = $2, description = $3, price = $4, available = $5, updated_at = NOW()
		WHERE id = $6
	`
	_, err := r.db.Exec(ctx, query, food.Name, food.Category, food.Description,
		food.Price, food.Available, food.ID)
	return err
}

func (r *foodRepo) SetAvailability(ctx context.Context, id uuid.UUID, available bool) (bool, error) {
	tag, err := r.db.Exec(ctx, `UPDATE foods SET available = $1, updated_at = NOW() WHERE id = $2`, available, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *foodRepo) SetImageObject(ctx context.Context, id uuid.UUID, object string) error {
	_, err := r.db.Exec(ctx, `UPDATE foods SET image_object = $1, updated_at = NOW() WHERE id = $2`, object, id)
	return err
}

func (r *foodRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM foods WHERE id = $1`, id)
	return err
}

func scanFood(row pgx.Row) (*models.Food, error) {
	food := &models.Food{}
	err := row.Scan(&food.ID, &food.Name, &food.Category, &food.Description, &food.Price,
		&food.ImageObject, &food.Available, &food.CreatedAt, &food.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return food, nil
}
