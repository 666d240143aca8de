package repositories

import (
	"context"

	"dineflow/internal/models"

	"github.com/jackc/pgx/v5"
)

type TableRepository interface {
	WithTx(tx pgx.Tx) TableRepository
	List(ctx context.Context) ([]*models.Table, error)
	GetByID(ctx context.Context, tableID int) (*models.Table, error)
	SetStatus(ctx context.Context, tableID int, status string) (bool, error)
	CreateRange(ctx context.Context, count int) ([]*models.Table, error)
	DeleteAll(ctx context.Context) error
}

type tableRepo struct {
	db DB
}

func NewTableRepo(db DB) TableRepository {
	return &tableRepo{db: db}
}

func (r *tableRepo) WithTx(tx pgx.Tx) TableRepository {
	return &tableRepo{db: tx}
}

func (r *tableRepo) List(ctx context.Context) ([]*models.Table, error) {
	query := `
		SELECT table_id, status
		FROM tables
		ORDER BY table_id
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []*models.Table
	for rows.Next() {
		table := &models.Table{}
		if err := rows.Scan(&table.TableID, &table.Status); err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, rows.Err()
}

func (r *tableRepo) GetByID(ctx context.Context, tableID int) (*models.Table, error) {
	table := &models.Table{}
	query := `
		SELECT table_id, status
		FROM tables
		WHERE table_id = $1
	`
	err := r.db.QueryRow(ctx, query, tableID).Scan(&table.TableID, &table.Status)
	if err != nil {
		return nil, err
	}
	return table, nil
}

// SetStatus updates a table's status and reports whether the table existed.
func (r *tableRepo) SetStatus(ctx context.Context, tableID int, status string) (bool, error) {
	query := `UPDATE tables SET status = $1 WHERE table_id = $2`
	tag, err := r.db.Exec(ctx, query, status, tableID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// CreateRange bulk-creates tables numbered 1..count, all available.
func (r *tableRepo) CreateRange(ctx context.Context, count int) ([]*models.Table, error) {
	query := `INSERT INTO tables (table_id, status) VALUES ($1, $2)`
	tables := make([]*models.Table, 0, count)
	for i := 1; i <= count; i++ {
		if _, err := r.db.Exec(ctx, query, i, models.TableAvailable); err != nil {
			return nil, err
		}
		tables = append(tables, &models.Table{TableID: i, Status: models.TableAvailable})
	}
	return tables, nil
}

func (r *tableRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `DELETE FROM tables`)
	return err
}
