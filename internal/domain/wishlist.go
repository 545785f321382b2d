package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type WishlistItem struct {
	ProductID string          `db:"product_id" json:"product"`
	Name      string          `db:"name" json:"name"`
	Slug      string          `db:"slug" json:"slug"`
	Price     decimal.Decimal `db:"price" json:"price"`
	Images    Strings         `db:"images" json:"images"`
	Active    bool            `db:"active" json:"active"`
	AddedAt   time.Time       `db:"added_at" json:"addedAt"`
}

type Wishlist struct {
	ID     string         `json:"id"`
	UserID string         `json:"user"`
	Items  []WishlistItem `json:"items"`
}
