package payment

import "errors"

var (
	ErrPaymentNotFound        = errors.New("payment record not found")
	ErrPaymentAlreadyVerified = errors.New("payment has already been verified")
	ErrInvoiceNotFound        = errors.New("no invoice issued for this payment")
)
