package repositories

import (
	"context"

	"dineflow/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PaymentRepository interface {
	WithTx(tx pgx.Tx) PaymentRepository
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	List(ctx context.Context) ([]*models.Payment, error)
	ListByPhone(ctx context.Context, phone string) ([]*models.Payment, error)
	DeleteAll(ctx context.Context) error
}

type paymentRepo struct {
	db DB
}

func NewPaymentRepo(db DB) PaymentRepository {
	return &paymentRepo{db: db}
}

func (r *paymentRepo) WithTx(tx pgx.Tx) PaymentRepository {
	return &paymentRepo{db: tx}
}

func (r *paymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	query := `
		INSERT INTO payments (id, completed_id, amount_paid, method, status, payment_date)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query, payment.ID, payment.CompletedID, payment.AmountPaid,
		payment.Method, payment.Status, payment.PaymentDate)
	return err
}

func (r *paymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	payment := &models.Payment{}
	query := `
		SELECT id, completed_id, amount_paid, method, status, payment_date
		FROM payments
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&payment.ID, &payment.CompletedID,
		&payment.AmountPaid, &payment.Method, &payment.Status, &payment.PaymentDate)
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func (r *paymentRepo) List(ctx context.Context) ([]*models.Payment, error) {
	query := `
		SELECT id, completed_id, amount_paid, method, status, payment_date
		FROM payments
		ORDER BY payment_date DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return collectPayments(rows)
}

// ListByPhone returns payments for one customer, newest first, resolved
// through the consolidated order's stamped phone number.
func (r *paymentRepo) ListByPhone(ctx context.Context, phone string) ([]*models.Payment, error) {
	query := `
		SELECT p.id, p.completed_id, p.amount_paid, p.method, p.status, p.payment_date
		FROM payments p
		JOIN orders_completed oc ON oc.id = p.completed_id
		WHERE oc.customer_phone = $1
		ORDER BY p.payment_date DESC
	`
	rows, err := r.db.Query(ctx, query, phone)
	if err != nil {
		return nil, err
	}
	return collectPayments(rows)
}

func collectPayments(rows pgx.Rows) ([]*models.Payment, error) {
	defer rows.Close()
	var payments []*models.Payment
	for rows.Next() {
		payment := &models.Payment{}
		if err := rows.Scan(&payment.ID, &payment.CompletedID, &payment.AmountPaid,
			&payment.Method, &payment.Status, &payment.PaymentDate); err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}

func (r *paymentRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `DELETE FROM payments`)
	return err
}
