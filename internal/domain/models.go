package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Money is rendered as a JSON number.
	decimal.MarshalJSONWithoutQuotes = true
}

type ProductCategory string

const (
	CatBusinessCards ProductCategory = "business_cards"
	CatFlyers        ProductCategory = "flyers"
	CatPosters       ProductCategory = "posters"
	CatBanners       ProductCategory = "banners"
	CatStickers      ProductCategory = "stickers"
	CatPackaging     ProductCategory = "packaging"
	CatApparel       ProductCategory = "apparel"
	CatSouvenirs     ProductCategory = "souvenirs"
	CatOther         ProductCategory = "other"
)

func (c ProductCategory) Valid() bool {
	switch c {
	case CatBusinessCards, CatFlyers, CatPosters, CatBanners, CatStickers,
		CatPackaging, CatApparel, CatSouvenirs, CatOther:
		return true
	}
	return false
}

type Product struct {
	ID          string              `db:"id" json:"id"`
	Name        string              `db:"name" json:"name"`
	Slug        string              `db:"slug" json:"slug"`
	Description string              `db:"description" json:"description"`
	Category    ProductCategory     `db:"category" json:"category"`
	Price       decimal.Decimal     `db:"price" json:"price"`
	OldPrice    decimal.NullDecimal `db:"old_price" json:"oldPrice"`
	Stock       int                 `db:"stock" json:"stock"`
	Images      Strings             `db:"images" json:"images"`
	Features    Strings             `db:"features" json:"features"`
	Active      bool                `db:"active" json:"active"`
	Featured    bool                `db:"featured" json:"featured"`
	CreatedAt   time.Time           `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time           `db:"updated_at" json:"updatedAt"`
}

// Image is the primary picture used in listings and order snapshots.
func (p *Product) Image() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// Category is the browsable two-level hierarchy shown in navigation.
type Category struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Slug        string    `db:"slug" json:"slug"`
	Description string    `db:"description" json:"description"`
	Image       string    `db:"image" json:"image"`
	ParentID    *string   `db:"parent_id" json:"parent"`
	SortOrder   int       `db:"sort_order" json:"order"`
	Active      bool      `db:"active" json:"active"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`

	Children []Category `db:"-" json:"children,omitempty"`
}

type Availability struct {
	ProductID string `json:"productId"`
	Status    string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Qty       int    `json:"qty"`
}
