package payment

import "time"

type InvoiceResponse struct {
	InvoiceNumber string    `json:"invoice_number"`
	CustomerName  string    `json:"customer_name"`
	Amount        float64   `json:"amount"`
	Tax           float64   `json:"tax"`
	AmountWithGST float64   `json:"amount_with_gst"`
	IssuedAt      time.Time `json:"issued_at"`
}
