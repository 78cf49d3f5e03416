package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/art-gallery-service/internal/domain"
)

// PaymentOrderRepository stores orders created at the payment gateway.
type PaymentOrderRepository interface {
	Create(ctx context.Context, order *domain.PaymentOrder) error
	GetByID(ctx context.Context, id string) (*domain.PaymentOrder, error)
	MarkPaid(ctx context.Context, id, paymentID string) error
}

type paymentOrderRepository struct {
	db DBTX
}

// NewPaymentOrderRepository constructs repository.
func NewPaymentOrderRepository(db DBTX) PaymentOrderRepository {
	return &paymentOrderRepository{db: db}
}

func (r *paymentOrderRepository) Create(ctx context.Context, order *domain.PaymentOrder) error {
	if r.db == nil {
		return ErrStoreUnavailable
	}
	if order.Status == "" {
		order.Status = domain.PaymentOrderCreated
	}
	const query = `
        INSERT INTO payment_orders (id, receipt, amount, currency, status)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		order.ID,
		order.Receipt,
		order.Amount,
		order.Currency,
		string(order.Status),
	).Scan(&order.CreatedAt, &order.UpdatedAt)
}

func (r *paymentOrderRepository) GetByID(ctx context.Context, id string) (*domain.PaymentOrder, error) {
	if r.db == nil {
		return nil, ErrStoreUnavailable
	}
	const query = `
        SELECT id, receipt, amount, currency, status, payment_id, created_at, updated_at
        FROM payment_orders WHERE id=$1`

	var (
		order  domain.PaymentOrder
		status string
	)
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&order.ID,
		&order.Receipt,
		&order.Amount,
		&order.Currency,
		&status,
		&order.PaymentID,
		&order.CreatedAt,
		&order.UpdatedAt,
	); err != nil {
		return nil, err
	}
	order.Status = domain.PaymentOrderStatus(status)
	return &order, nil
}

func (r *paymentOrderRepository) MarkPaid(ctx context.Context, id, paymentID string) error {
	if r.db == nil {
		return ErrStoreUnavailable
	}
	const query = `
        UPDATE payment_orders SET status=$1, payment_id=$2, updated_at=NOW()
        WHERE id=$3`

	cmd, err := r.db.Exec(ctx, query, string(domain.PaymentOrderPaid), paymentID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
