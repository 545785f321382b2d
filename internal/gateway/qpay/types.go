package qpay

import "github.com/shopspring/decimal"

// StatusPaid is the payment_status the provider reports for a settled invoice.
const StatusPaid = "PAID"

type tokenResponse struct {
	TokenType    string `json:"token_type"`
	AccessToken  string `json:"access_token"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
}

// InvoiceRequest is what the shop sends to open an invoice.
type InvoiceRequest struct {
	SenderInvoiceNo     string          `json:"sender_invoice_no"`
	InvoiceReceiverCode string          `json:"invoice_receiver_code"`
	Description         string          `json:"invoice_description"`
	Amount              decimal.Decimal `json:"amount"`
	CallbackURL         string          `json:"callback_url"`
}

type invoiceBody struct {
	InvoiceCode string `json:"invoice_code"`
	InvoiceRequest
}

type DeepLink struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Logo        string `json:"logo"`
	Link        string `json:"link"`
}

// Invoice is the provider's answer to an invoice request.
type Invoice struct {
	InvoiceID string     `json:"invoice_id"`
	QRText    string     `json:"qr_text"`
	QRImage   string     `json:"qr_image"`
	ShortURL  string     `json:"qPay_shortUrl"`
	URLs      []DeepLink `json:"urls"`
}

type checkOffset struct {
	PageNumber int `json:"page_number"`
	PageLimit  int `json:"page_limit"`
}

type checkBody struct {
	ObjectType string      `json:"object_type"`
	ObjectID   string      `json:"object_id"`
	Offset     checkOffset `json:"offset"`
}

type PaymentRow struct {
	PaymentID       string          `json:"payment_id"`
	PaymentStatus   string          `json:"payment_status"`
	PaymentAmount   decimal.Decimal `json:"payment_amount"`
	PaymentCurrency string          `json:"payment_currency"`
	PaymentDate     string          `json:"payment_date"`
}

// PaymentCheck lists payments made against an invoice.
type PaymentCheck struct {
	Count      int             `json:"count"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
	Rows       []PaymentRow    `json:"rows"`
}

// Paid reports whether the first payment row is settled, returning its id.
func (p *PaymentCheck) Paid() (string, bool) {
	if p == nil || len(p.Rows) == 0 {
		return "", false
	}
	first := p.Rows[0]
	return first.PaymentID, first.PaymentStatus == StatusPaid
}

// Callback is the body the provider posts to callback_url.
type Callback struct {
	InvoiceID     string `json:"invoice_id"`
	PaymentStatus string `json:"payment_status"`
	PaymentID     string `json:"payment_id"`
}
