package payment

import "time"

// PaidCustomer is a customer payment awaiting verification. Verification is
// a one-shot transition: once Verified is set the record is immutable.
type PaidCustomer struct {
	ID           string
	CustomerName string
	Email        string
	Amount       float64
	Verified     bool
	VerifiedBy   *string
	VerifiedAt   *time.Time
	CreatedAt    time.Time
}

// Invoice is the billing artifact generated when a payment is verified.
// The stored amount is GST-inclusive; Tax and AmountWithGST are derived
// from it at verification time.
type Invoice struct {
	ID            string
	PaymentID     string
	InvoiceNumber string
	Amount        float64
	Tax           float64
	AmountWithGST float64
	IssuedAt      time.Time
}

// GSTRate is the inclusive tax fraction applied at verification.
const GSTRate = 0.18

// ComputeInvoiceAmounts splits a GST-inclusive amount into its tax portion
// and the remainder.
func ComputeInvoiceAmounts(amount float64) (tax, amountWithGST float64) {
	tax = amount * GSTRate
	return tax, amount - tax
}
