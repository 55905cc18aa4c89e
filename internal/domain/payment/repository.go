package payment

import (
	"context"
	"time"
)

// Repository defines data access for payments and invoices.
type Repository interface {
	// Get loads a payment without locking it
	Get(ctx context.Context, id string) (PaidCustomer, error)

	// GetForUpdate loads a payment under a row lock. It must run inside a
	// transaction so concurrent verifications of the same payment serialize.
	GetForUpdate(ctx context.Context, id string) (PaidCustomer, error)

	// MarkVerified records the verifying user and timestamp
	MarkVerified(ctx context.Context, id, verifiedBy string, at time.Time) error

	// CreateInvoice persists the invoice generated for a verified payment
	CreateInvoice(ctx context.Context, inv Invoice) (Invoice, error)

	// GetInvoiceByPayment returns the invoice for a payment, nil when none
	GetInvoiceByPayment(ctx context.Context, paymentID string) (*Invoice, error)
}
