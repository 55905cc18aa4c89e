package payment

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/initcore/callcenter-backend-go/internal/domain/payment"
	"github.com/initcore/callcenter-backend-go/internal/pkg/database"
	"github.com/initcore/callcenter-backend-go/internal/pkg/jwt"
)

type PaymentServiceImpl struct {
	tx          database.TxRunner
	paymentRepo payment.Repository

	now func() time.Time
}

func NewPaymentService(tx database.TxRunner, paymentRepo payment.Repository) payment.Service {
	return &PaymentServiceImpl{
		tx:          tx,
		paymentRepo: paymentRepo,
		now:         time.Now,
	}
}

// generateInvoiceNumber derives an 8-digit invoice number from a fresh UUID.
func generateInvoiceNumber() string {
	var digits strings.Builder
	for _, r := range uuid.New().String() {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
			if digits.Len() == 8 {
				return digits.String()
			}
		}
	}
	// A UUID with fewer than eight digit characters is possible, just very
	// unlikely. Pad from another UUID rather than return a short number.
	for _, r := range uuid.New().String() {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
			if digits.Len() == 8 {
				break
			}
		}
	}
	return digits.String()
}

// VerifyPayment implements payment.Service.
func (p *PaymentServiceImpl) VerifyPayment(ctx context.Context, paymentID string) (payment.InvoiceResponse, error) {
	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return payment.InvoiceResponse{}, err
	}

	var resp payment.InvoiceResponse
	err = p.tx.RunInTx(ctx, func(ctx context.Context) error {
		// The row lock serializes concurrent verifications: the second
		// transaction blocks here and then sees Verified set.
		pc, err := p.paymentRepo.GetForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		if pc.Verified {
			return payment.ErrPaymentAlreadyVerified
		}

		verifiedAt := p.now()
		if err := p.paymentRepo.MarkVerified(ctx, pc.ID, identity.UserID, verifiedAt); err != nil {
			return err
		}

		tax, amountWithGST := payment.ComputeInvoiceAmounts(pc.Amount)
		inv, err := p.paymentRepo.CreateInvoice(ctx, payment.Invoice{
			PaymentID:     pc.ID,
			InvoiceNumber: generateInvoiceNumber(),
			Amount:        pc.Amount,
			Tax:           tax,
			AmountWithGST: amountWithGST,
			IssuedAt:      verifiedAt,
		})
		if err != nil {
			return err
		}

		resp = payment.InvoiceResponse{
			InvoiceNumber: inv.InvoiceNumber,
			CustomerName:  pc.CustomerName,
			Amount:        inv.Amount,
			Tax:           inv.Tax,
			AmountWithGST: inv.AmountWithGST,
			IssuedAt:      inv.IssuedAt,
		}
		return nil
	})
	if err != nil {
		return payment.InvoiceResponse{}, err
	}

	return resp, nil
}

// GetInvoice implements payment.Service.
func (p *PaymentServiceImpl) GetInvoice(ctx context.Context, paymentID string) (payment.InvoiceResponse, error) {
	pc, err := p.paymentRepo.Get(ctx, paymentID)
	if err != nil {
		return payment.InvoiceResponse{}, err
	}

	inv, err := p.paymentRepo.GetInvoiceByPayment(ctx, paymentID)
	if err != nil {
		return payment.InvoiceResponse{}, err
	}
	if inv == nil {
		return payment.InvoiceResponse{}, payment.ErrInvoiceNotFound
	}

	return payment.InvoiceResponse{
		InvoiceNumber: inv.InvoiceNumber,
		CustomerName:  pc.CustomerName,
		Amount:        inv.Amount,
		Tax:           inv.Tax,
		AmountWithGST: inv.AmountWithGST,
		IssuedAt:      inv.IssuedAt,
	}, nil
}
