package domain

import (
	"database/sql/driver"
	"time"

	"github.com/shopspring/decimal"
)

// FileMeta describes an uploaded file kept on local disk.
type FileMeta struct {
	URL          string `json:"url"`
	OriginalName string `json:"originalName"`
	MimeType     string `json:"mimeType"`
	Size         int64  `json:"size"`
}

type AdminReply struct {
	Message   string          `json:"message"`
	Price     decimal.Decimal `json:"price"`
	RepliedBy string          `json:"repliedBy"`
	RepliedAt time.Time       `json:"repliedAt"`
}

// Nullable JSON wrappers so absent sub-documents stay NULL in storage.

type DesignFile struct{ *FileMeta }

func (f *DesignFile) Scan(src any) error {
	if src == nil {
		f.FileMeta = nil
		return nil
	}
	var m FileMeta
	if err := scanJSON(src, &m); err != nil {
		return err
	}
	f.FileMeta = &m
	return nil
}

func (f DesignFile) Value() (driver.Value, error) {
	if f.FileMeta == nil {
		return nil, nil
	}
	return valueJSON(f.FileMeta)
}

func (f DesignFile) MarshalJSON() ([]byte, error) {
	if f.FileMeta == nil {
		return []byte("null"), nil
	}
	b, err := valueJSON(f.FileMeta)
	if err != nil {
		return nil, err
	}
	return []byte(b.(string)), nil
}

type Reply struct{ *AdminReply }

func (r *Reply) Scan(src any) error {
	if src == nil {
		r.AdminReply = nil
		return nil
	}
	var a AdminReply
	if err := scanJSON(src, &a); err != nil {
		return err
	}
	r.AdminReply = &a
	return nil
}

func (r Reply) Value() (driver.Value, error) {
	if r.AdminReply == nil {
		return nil, nil
	}
	return valueJSON(r.AdminReply)
}

func (r Reply) MarshalJSON() ([]byte, error) {
	if r.AdminReply == nil {
		return []byte("null"), nil
	}
	b, err := valueJSON(r.AdminReply)
	if err != nil {
		return nil, err
	}
	return []byte(b.(string)), nil
}

type Quotation struct {
	ID          string          `db:"id" json:"id"`
	UserID      *string         `db:"user_id" json:"user"`
	Name        string          `db:"name" json:"name"`
	Email       string          `db:"email" json:"email"`
	Phone       string          `db:"phone" json:"phone"`
	Company     string          `db:"company" json:"company"`
	ServiceType string          `db:"service_type" json:"serviceType"`
	Quantity    int             `db:"quantity" json:"quantity"`
	Size        string          `db:"size" json:"size"`
	Material    string          `db:"material" json:"material"`
	Description string          `db:"description" json:"description"`
	Deadline    *time.Time      `db:"deadline" json:"deadline,omitempty"`
	DesignFile  DesignFile      `db:"design_file" json:"designFile"`
	Status      QuotationStatus `db:"status" json:"status"`
	AdminReply  Reply           `db:"admin_reply" json:"adminReply"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updatedAt"`
}

func (q *Quotation) OwnedBy(userID string) bool {
	return q.UserID != nil && *q.UserID == userID
}
