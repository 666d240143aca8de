package services

import (
	"context"
	"errors"
	"fmt"

	"dineflow/internal/models"
	"dineflow/internal/realtime"
	"dineflow/internal/repositories"

	"github.com/jackc/pgx/v5"
)

// TableServiceInterface defines the interface for table registry operations
type TableServiceInterface interface {
	List(ctx context.Context) ([]*models.Table, error)
	Get(ctx context.Context, tableID int) (*models.Table, error)
	SetStatus(ctx context.Context, tableID int, status, originID string) (*models.Table, error)
	Initialize(ctx context.Context, count int) ([]*models.Table, error)
}

type tableService struct {
	db        repositories.DB
	tableRepo repositories.TableRepository
	orderRepo repositories.OrderRepository
	itemRepo  repositories.OrderItemRepository
	completed repositories.CompletedOrderRepository
	payments  repositories.PaymentRepository
	hub       Broadcaster
}

// NewTableService creates a new table service instance
func NewTableService(db repositories.DB, tableRepo repositories.TableRepository,
	orderRepo repositories.OrderRepository, itemRepo repositories.OrderItemRepository,
	completed repositories.CompletedOrderRepository, payments repositories.PaymentRepository,
	hub Broadcaster) TableServiceInterface {
	return &tableService{
		db:        db,
		tableRepo: tableRepo,
		orderRepo: orderRepo,
		itemRepo:  itemRepo,
		completed: completed,
		payments:  payments,
		hub:       hub,
	}
}

func (s *tableService) List(ctx context.Context) ([]*models.Table, error) {
	return s.tableRepo.List(ctx)
}

func (s *tableService) Get(ctx context.Context, tableID int) (*models.Table, error) {
	table, err := s.tableRepo.GetByID(ctx, tableID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: table %d", ErrNotFound, tableID)
		}
		return nil, fmt.Errorf("get table: %w", err)
	}
	return table, nil
}

// SetStatus is the manager override path; regular occupancy flips happen as
// side effects of order lifecycle operations.
func (s *tableService) SetStatus(ctx context.Context, tableID int, status, originID string) (*models.Table, error) {
	if !models.ValidTableStatus(status) {
		return nil, fmt.Errorf("%w: unknown table status %q", ErrValidation, status)
	}

	found, err := s.tableRepo.SetStatus(ctx, tableID, status)
	if err != nil {
		return nil, fmt.Errorf("set table status: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("%w: table %d", ErrNotFound, tableID)
	}

	table := &models.Table{TableID: tableID, Status: status}
	s.hub.Broadcast(realtime.EventTableUpdate, table, originID)
	return table, nil
}

// Initialize wipes the entire order history and recreates the table pool.
// Exposed to managers only.
func (s *tableService) Initialize(ctx context.Context, count int) ([]*models.Table, error) {
	if count <= 0 || count > 100 {
		return nil, fmt.Errorf("%w: table count must be between 1 and 100", ErrValidation)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin initialize: %w", err)
	}
	defer tx.Rollback(ctx)

	// Dependent rows first, then the tables themselves.
	if err := s.payments.WithTx(tx).DeleteAll(ctx); err != nil {
		return nil, fmt.Errorf("clear payments: %w", err)
	}
	if err := s.completed.WithTx(tx).DeleteAll(ctx); err != nil {
		return nil, fmt.Errorf("clear completed orders: %w", err)
	}
	if err := s.itemRepo.WithTx(tx).DeleteAll(ctx); err != nil {
		return nil, fmt.Errorf("clear order items: %w", err)
	}
	if err := s.orderRepo.WithTx(tx).DeleteAll(ctx); err != nil {
		return nil, fmt.Errorf("clear orders: %w", err)
	}
	if err := s.tableRepo.WithTx(tx).DeleteAll(ctx); err != nil {
		return nil, fmt.Errorf("clear tables: %w", err)
	}

	tables, err := s.tableRepo.WithTx(tx).CreateRange(ctx, count)
	if err != nil {
		return nil, fmt.Errorf("create tables: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit initialize: %w", err)
	}

	s.hub.Broadcast(realtime.EventTableUpdate, tables, "")
	return tables, nil
}
