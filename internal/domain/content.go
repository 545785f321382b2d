package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type BlogCategory string

const (
	BlogNews      BlogCategory = "news"
	BlogTips      BlogCategory = "tips"
	BlogDesign    BlogCategory = "design"
	BlogPrinting  BlogCategory = "printing"
	BlogMarketing BlogCategory = "marketing"
)

func (c BlogCategory) Valid() bool {
	switch c {
	case BlogNews, BlogTips, BlogDesign, BlogPrinting, BlogMarketing:
		return true
	}
	return false
}

type Blog struct {
	ID          string       `db:"id" json:"id"`
	Title       string       `db:"title" json:"title"`
	Slug        string       `db:"slug" json:"slug"`
	Excerpt     string       `db:"excerpt" json:"excerpt"`
	Content     string       `db:"content" json:"content"`
	Image       string       `db:"image" json:"image"`
	AuthorID    *string      `db:"author_id" json:"author"`
	Category    BlogCategory `db:"category" json:"category"`
	Tags        Strings      `db:"tags" json:"tags"`
	Status      BlogStatus   `db:"status" json:"status"`
	Views       int          `db:"views" json:"views"`
	PublishedAt *time.Time   `db:"published_at" json:"publishedAt,omitempty"`
	CreatedAt   time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updatedAt"`
}

type ServiceCategory string

const (
	SvcSMM         ServiceCategory = "smm"
	SvcBranding    ServiceCategory = "branding"
	SvcDesign      ServiceCategory = "design"
	SvcAdvertising ServiceCategory = "advertising"
	SvcVideo       ServiceCategory = "video"
	SvcOther       ServiceCategory = "other"
)

func (c ServiceCategory) Valid() bool {
	switch c {
	case SvcSMM, SvcBranding, SvcDesign, SvcAdvertising, SvcVideo, SvcOther:
		return true
	}
	return false
}

// MarketingService is an offering sold by quotation rather than from the catalog.
type MarketingService struct {
	ID               string          `db:"id" json:"id"`
	Name             string          `db:"name" json:"name"`
	Slug             string          `db:"slug" json:"slug"`
	ShortDescription string          `db:"short_description" json:"shortDescription"`
	Description      string          `db:"description" json:"description"`
	Icon             string          `db:"icon" json:"icon"`
	Image            string          `db:"image" json:"image"`
	Category         ServiceCategory `db:"category" json:"category"`
	Price            decimal.Decimal `db:"price" json:"price"`
	PriceUnit        string          `db:"price_unit" json:"priceUnit"`
	Features         Strings         `db:"features" json:"features"`
	Active           bool            `db:"active" json:"active"`
	SortOrder        int             `db:"sort_order" json:"order"`
	CreatedAt        time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time       `db:"updated_at" json:"updatedAt"`
}

type ContactMessage struct {
	ID        string        `db:"id" json:"id"`
	Name      string        `db:"name" json:"name"`
	Email     string        `db:"email" json:"email"`
	Phone     string        `db:"phone" json:"phone"`
	Subject   string        `db:"subject" json:"subject"`
	Message   string        `db:"message" json:"message"`
	Status    MessageStatus `db:"status" json:"status"`
	CreatedAt time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time     `db:"updated_at" json:"updatedAt"`
}
