package services

import (
	"context"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"printshop/internal/domain"
	"printshop/internal/media"
	"printshop/internal/repos"
	"printshop/internal/validate"
)

type QuotationService struct {
	Repo  *repos.QuotationRepo
	Files *media.Store
	now   func() time.Time
}

func NewQuotationService(r *repos.QuotationRepo, files *media.Store) *QuotationService {
	return &QuotationService{Repo: r, Files: files, now: func() time.Time { return time.Now().UTC() }}
}

// QuotationInput is the request-for-price form.
type QuotationInput struct {
	Name        string `form:"name" json:"name"`
	Email       string `form:"email" json:"email"`
	Phone       string `form:"phone" json:"phone"`
	Company     string `form:"company" json:"company"`
	ServiceType string `form:"serviceType" json:"serviceType"`
	Quantity    int    `form:"quantity" json:"quantity"`
	Size        string `form:"size" json:"size"`
	Material    string `form:"material" json:"material"`
	Description string `form:"description" json:"description"`
	Deadline    string `form:"deadline" json:"deadline"`
}

func parseDeadline(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, domain.Invalid("deadline must be a date (YYYY-MM-DD)")
}

// Submit records a quotation request. The design file is optional.
func (s *QuotationService) Submit(ctx context.Context, user *domain.User, in QuotationInput, design *multipart.FileHeader) (*domain.Quotation, error) {
	var ok bool
	q := &domain.Quotation{ID: uuid.NewString(), Status: domain.QuotationPending}
	if user != nil {
		uid := user.ID
		q.UserID = &uid
		if strings.TrimSpace(in.Name) == "" {
			in.Name = user.Name
		}
		if strings.TrimSpace(in.Email) == "" {
			in.Email = user.Email
		}
		if strings.TrimSpace(in.Phone) == "" {
			in.Phone = user.Phone
		}
	}
	if q.Name, ok = validate.Name(in.Name); !ok {
		return nil, domain.Invalid("name is required")
	}
	if q.Email, ok = validate.Email(in.Email); !ok {
		return nil, domain.Invalid("a valid email is required")
	}
	if q.Phone, ok = validate.Phone(in.Phone); !ok {
		return nil, domain.Invalid("a valid phone number is required")
	}
	if q.ServiceType, ok = validate.Text(in.ServiceType, 100); !ok {
		return nil, domain.Invalid("service type is required")
	}
	if !validate.Qty(in.Quantity) {
		return nil, domain.Invalid("quantity must be between 1 and %d", validate.MaxQty)
	}
	q.Quantity = in.Quantity
	if q.Description, ok = validate.Text(in.Description, 5000); !ok {
		return nil, domain.Invalid("description is required")
	}
	if q.Company, ok = validate.Optional(in.Company, 200); !ok {
		return nil, domain.Invalid("company is too long")
	}
	if q.Size, ok = validate.Optional(in.Size, 100); !ok {
		return nil, domain.Invalid("size is too long")
	}
	if q.Material, ok = validate.Optional(in.Material, 100); !ok {
		return nil, domain.Invalid("material is too long")
	}
	deadline, err := parseDeadline(in.Deadline)
	if err != nil {
		return nil, err
	}
	q.Deadline = deadline

	if design != nil {
		meta, err := s.Files.Save(design, media.Design)
		if err != nil {
			return nil, err
		}
		q.DesignFile = domain.DesignFile{FileMeta: meta}
	}
	if err := s.Repo.Create(ctx, q); err != nil {
		if q.DesignFile.FileMeta != nil {
			s.Files.Remove(q.DesignFile.URL)
		}
		return nil, err
	}
	return q, nil
}

func (s *QuotationService) Get(ctx context.Context, id string, viewer *domain.User) (*domain.Quotation, error) {
	qid, ok := validate.ID(id)
	if !ok {
		return nil, domain.NotFound("quotation")
	}
	q, err := s.Repo.Get(ctx, qid)
	if err != nil {
		return nil, err
	}
	if !viewer.IsAdmin() && !q.OwnedBy(viewer.ID) {
		return nil, domain.ErrNotOwner
	}
	return q, nil
}

func (s *QuotationService) ListMine(ctx context.Context, userID string, p repos.Page) ([]domain.Quotation, int, error) {
	return s.Repo.List(ctx, repos.QuotationFilter{UserID: userID}, p)
}

func (s *QuotationService) ListAll(ctx context.Context, f repos.QuotationFilter, p repos.Page) ([]domain.Quotation, int, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, domain.Invalid("unknown quotation status %q", f.Status)
	}
	return s.Repo.List(ctx, f, p)
}

type ReplyInput struct {
	Message string          `json:"message"`
	Price   decimal.Decimal `json:"price"`
}

// Reply attaches the admin's answer and moves the quotation to replied.
// A replied quotation may be answered again, which replaces the reply.
func (s *QuotationService) Reply(ctx context.Context, id string, admin *domain.User, in ReplyInput) (*domain.Quotation, error) {
	msg, ok := validate.Text(in.Message, 5000)
	if !ok {
		return nil, domain.Invalid("reply message is required")
	}
	if !in.Price.IsPositive() {
		return nil, domain.Invalid("a quoted price greater than zero is required")
	}
	q, err := s.Get(ctx, id, admin)
	if err != nil {
		return nil, err
	}
	if !q.Status.CanMoveTo(domain.QuotationReplied) {
		return nil, domain.ErrTransition(q.Status, domain.QuotationReplied)
	}
	reply := domain.Reply{AdminReply: &domain.AdminReply{
		Message:   msg,
		Price:     in.Price,
		RepliedBy: admin.ID,
		RepliedAt: s.now(),
	}}
	saved, err := s.Repo.SaveReply(ctx, q.ID, q.Status, reply)
	if err != nil {
		return nil, err
	}
	if !saved {
		return nil, domain.Conflict("quotation changed concurrently, retry")
	}
	return s.Repo.Get(ctx, q.ID)
}

// UpdateStatus moves a quotation along its lifecycle. Owners may only
// cancel their own pending requests.
func (s *QuotationService) UpdateStatus(ctx context.Context, id string, viewer *domain.User, to domain.QuotationStatus) (*domain.Quotation, error) {
	if !to.Valid() {
		return nil, domain.Invalid("unknown quotation status %q", to)
	}
	q, err := s.Get(ctx, id, viewer)
	if err != nil {
		return nil, err
	}
	if !viewer.IsAdmin() && (to != domain.QuotationCancelled || q.Status != domain.QuotationPending) {
		return nil, domain.Forbidden("only pending quotations can be cancelled")
	}
	if to == domain.QuotationReplied {
		return nil, domain.Invalid("use the reply endpoint to answer a quotation")
	}
	if !q.Status.CanMoveTo(to) {
		return nil, domain.ErrTransition(q.Status, to)
	}
	moved, err := s.Repo.SetStatus(ctx, q.ID, q.Status, to)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, domain.Conflict("quotation changed concurrently, retry")
	}
	return s.Repo.Get(ctx, q.ID)
}

func (s *QuotationService) Delete(ctx context.Context, id string) error {
	qid, ok := validate.ID(id)
	if !ok {
		return domain.NotFound("quotation")
	}
	q, err := s.Repo.Get(ctx, qid)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, q.ID); err != nil {
		return err
	}
	if q.DesignFile.FileMeta != nil {
		s.Files.Remove(q.DesignFile.URL)
	}
	return nil
}
