package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/initcore/callcenter-backend-go/internal/domain/payment"
	"github.com/initcore/callcenter-backend-go/internal/handler/http/response"
)

type PaymentHandler interface {
	Verify(w http.ResponseWriter, r *http.Request)
	Invoice(w http.ResponseWriter, r *http.Request)
}

type paymentHandlerImpl struct {
	paymentService payment.Service
}

func NewPaymentHandler(paymentService payment.Service) PaymentHandler {
	return &paymentHandlerImpl{
		paymentService: paymentService,
	}
}

// Verify implements PaymentHandler.
func (h *paymentHandlerImpl) Verify(w http.ResponseWriter, r *http.Request) {
	resp, err := h.paymentService.VerifyPayment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payment verified", resp)
}

// Invoice implements PaymentHandler.
func (h *paymentHandlerImpl) Invoice(w http.ResponseWriter, r *http.Request) {
	resp, err := h.paymentService.GetInvoice(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}
