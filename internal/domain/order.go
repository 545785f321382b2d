package domain

import (
	"database/sql/driver"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PayWallet PaymentMethod = "wallet"
	PayQPay   PaymentMethod = "qpay"
	PayCash   PaymentMethod = "cash"
)

func (m PaymentMethod) Valid() bool { return m == PayWallet || m == PayQPay || m == PayCash }

// OrderItem is a snapshot of the product taken when the order was placed.
type OrderItem struct {
	ProductID string          `json:"product"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image"`
}

type OrderItems []OrderItem

func (o *OrderItems) Scan(src any) error { return scanJSON(src, o) }

func (o OrderItems) Value() (driver.Value, error) { return valueJSON([]OrderItem(o)) }

// Total sums captured price times quantity.
func (o OrderItems) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

type Shipping struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city,omitempty"`
	Note    string `json:"note,omitempty"`
}

func (s *Shipping) Scan(src any) error { return scanJSON(src, s) }

func (s Shipping) Value() (driver.Value, error) { return valueJSON(s) }

type Order struct {
	ID            string          `db:"id" json:"id"`
	OrderNumber   string          `db:"order_number" json:"orderNumber"`
	UserID        *string         `db:"user_id" json:"user"`
	Items         OrderItems      `db:"items" json:"items"`
	Total         decimal.Decimal `db:"total" json:"totalAmount"`
	Status        OrderStatus     `db:"status" json:"status"`
	PaymentMethod PaymentMethod   `db:"payment_method" json:"paymentMethod"`
	Shipping      Shipping        `db:"shipping" json:"shippingInfo"`
	Notes         string          `db:"notes" json:"notes"`
	TransactionID string          `db:"transaction_id" json:"transactionId,omitempty"`
	PaidAt        *time.Time      `db:"paid_at" json:"paidAt,omitempty"`
	QPayInvoiceID string          `db:"qpay_invoice_id" json:"qpayInvoiceId,omitempty"`
	QPayQRText    string          `db:"qpay_qr_text" json:"qpayQrText,omitempty"`
	QPayQRImage   string          `db:"qpay_qr_image" json:"qpayQrImage,omitempty"`
	CreatedAt     time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updatedAt"`
}

func (o *Order) OwnedBy(userID string) bool {
	return o.UserID != nil && *o.UserID == userID
}
