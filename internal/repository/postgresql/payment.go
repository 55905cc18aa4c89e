package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/initcore/callcenter-backend-go/internal/domain/payment"
	"github.com/initcore/callcenter-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type paymentRepository struct {
	db *database.DB
}

func (p *paymentRepository) get(ctx context.Context, id string, forUpdate bool) (payment.PaidCustomer, error) {
	q := GetQuerier(ctx, p.db)

	query := `
		SELECT id, customer_name, email, amount, verified, verified_by, verified_at, created_at
		FROM paid_customers
		WHERE id = $1
	`
	if forUpdate {
		query += " FOR UPDATE"
	}

	var pc payment.PaidCustomer
	err := q.QueryRow(ctx, query, id).Scan(
		&pc.ID, &pc.CustomerName, &pc.Email, &pc.Amount,
		&pc.Verified, &pc.VerifiedBy, &pc.VerifiedAt, &pc.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payment.PaidCustomer{}, payment.ErrPaymentNotFound
		}
		return payment.PaidCustomer{}, fmt.Errorf("failed to get payment: %w", err)
	}

	return pc, nil
}

// Get implements payment.Repository.
func (p *paymentRepository) Get(ctx context.Context, id string) (payment.PaidCustomer, error) {
	return p.get(ctx, id, false)
}

// GetForUpdate implements payment.Repository.
func (p *paymentRepository) GetForUpdate(ctx context.Context, id string) (payment.PaidCustomer, error) {
	return p.get(ctx, id, true)
}

// MarkVerified implements payment.Repository.
func (p *paymentRepository) MarkVerified(ctx context.Context, id, verifiedBy string, at time.Time) error {
	q := GetQuerier(ctx, p.db)

	query := `
		UPDATE paid_customers
		SET verified = TRUE, verified_by = $2, verified_at = $3
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, id, verifiedBy, at)
	if err != nil {
		return fmt.Errorf("failed to mark payment verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payment.ErrPaymentNotFound
	}

	return nil
}

// CreateInvoice implements payment.Repository.
func (p *paymentRepository) CreateInvoice(ctx context.Context, inv payment.Invoice) (payment.Invoice, error) {
	q := GetQuerier(ctx, p.db)

	query := `
		INSERT INTO invoices (payment_id, invoice_number, amount, tax, amount_with_gst, issued_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := q.QueryRow(ctx, query,
		inv.PaymentID,
		inv.InvoiceNumber,
		inv.Amount,
		inv.Tax,
		inv.AmountWithGST,
		inv.IssuedAt,
	).Scan(&inv.ID)
	if err != nil {
		return payment.Invoice{}, fmt.Errorf("failed to create invoice: %w", err)
	}

	return inv, nil
}

// GetInvoiceByPayment implements payment.Repository.
func (p *paymentRepository) GetInvoiceByPayment(ctx context.Context, paymentID string) (*payment.Invoice, error) {
	q := GetQuerier(ctx, p.db)

	query := `
		SELECT id, payment_id, invoice_number, amount, tax, amount_with_gst, issued_at
		FROM invoices
		WHERE payment_id = $1
	`

	var inv payment.Invoice
	err := q.QueryRow(ctx, query, paymentID).Scan(
		&inv.ID, &inv.PaymentID, &inv.InvoiceNumber, &inv.Amount, &inv.Tax, &inv.AmountWithGST, &inv.IssuedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get invoice by payment: %w", err)
	}

	return &inv, nil
}

func NewPaymentRepository(db *database.DB) payment.Repository {
	return &paymentRepository{db: db}
}
