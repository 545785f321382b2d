package services

import (
	"context"

	"github.com/google/uuid"

	"printshop/internal/domain"
	"printshop/internal/repos"
	"printshop/internal/validate"
)

type ContactService struct {
	Repo *repos.ContactRepo
}

func NewContactService(r *repos.ContactRepo) *ContactService { return &ContactService{Repo: r} }

type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (s *ContactService) Submit(ctx context.Context, in ContactInput) (*domain.ContactMessage, error) {
	var ok bool
	m := &domain.ContactMessage{ID: uuid.NewString(), Status: domain.MessageNew}
	if m.Name, ok = validate.Name(in.Name); !ok {
		return nil, domain.Invalid("name is required")
	}
	if m.Email, ok = validate.Email(in.Email); !ok {
		return nil, domain.Invalid("a valid email is required")
	}
	if in.Phone != "" {
		if m.Phone, ok = validate.Phone(in.Phone); !ok {
			return nil, domain.Invalid("phone number is invalid")
		}
	}
	if m.Subject, ok = validate.Optional(in.Subject, 200); !ok {
		return nil, domain.Invalid("subject is too long")
	}
	if m.Message, ok = validate.Text(in.Message, 5000); !ok {
		return nil, domain.Invalid("message is required")
	}
	if err := s.Repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *ContactService) List(ctx context.Context, status domain.MessageStatus, p repos.Page) ([]domain.ContactMessage, int, error) {
	if status != "" && !status.Valid() {
		return nil, 0, domain.Invalid("unknown message status %q", status)
	}
	return s.Repo.List(ctx, status, p)
}

func (s *ContactService) SetStatus(ctx context.Context, id string, to domain.MessageStatus) (*domain.ContactMessage, error) {
	mid, ok := validate.ID(id)
	if !ok {
		return nil, domain.NotFound("message")
	}
	if !to.Valid() {
		return nil, domain.Invalid("unknown message status %q", to)
	}
	m, err := s.Repo.Get(ctx, mid)
	if err != nil {
		return nil, err
	}
	if !m.Status.CanMoveTo(to) {
		return nil, domain.ErrTransition(m.Status, to)
	}
	moved, err := s.Repo.SetStatus(ctx, m.ID, m.Status, to)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, domain.Conflict("message changed concurrently, retry")
	}
	return s.Repo.Get(ctx, m.ID)
}

func (s *ContactService) Delete(ctx context.Context, id string) error {
	mid, ok := validate.ID(id)
	if !ok {
		return domain.NotFound("message")
	}
	return s.Repo.Delete(ctx, mid)
}
