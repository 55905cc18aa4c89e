package payment

import "context"

// Service is the payment verification surface.
type Service interface {
	// VerifyPayment marks a payment verified by the caller and generates
	// its invoice. A second verification of the same payment fails with
	// ErrPaymentAlreadyVerified; two concurrent ones serialize on the row
	// lock so exactly one wins.
	VerifyPayment(ctx context.Context, paymentID string) (InvoiceResponse, error)

	// GetInvoice returns the invoice issued when the payment was verified,
	// ErrInvoiceNotFound when the payment is still unverified.
	GetInvoice(ctx context.Context, paymentID string) (InvoiceResponse, error)
}
