package services

import (
	"context"

	"printshop/internal/domain"
	"printshop/internal/repos"
	"printshop/internal/validate"
)

// UserService is the admin view of accounts.
type UserService struct {
	Users *repos.UserRepo
}

func NewUserService(users *repos.UserRepo) *UserService { return &UserService{Users: users} }

func (s *UserService) List(ctx context.Context, search string, p repos.Page) ([]domain.User, int, error) {
	return s.Users.List(ctx, validate.Q(search), p)
}

// SetRole changes an account's role. Admins cannot demote themselves.
func (s *UserService) SetRole(ctx context.Context, actor *domain.User, id string, role domain.Role) (*domain.User, error) {
	uid, ok := validate.ID(id)
	if !ok {
		return nil, domain.NotFound("user")
	}
	if !role.Valid() {
		return nil, domain.Invalid("role must be user or admin")
	}
	if uid == actor.ID && role != domain.RoleAdmin {
		return nil, domain.Invalid("you cannot remove your own admin role")
	}
	if err := s.Users.UpdateRole(ctx, uid, role); err != nil {
		return nil, err
	}
	return s.Users.ByID(ctx, uid)
}

// Delete removes an account. Its pending orders are cancelled; orders and
// quotations are kept without the account reference.
func (s *UserService) Delete(ctx context.Context, actor *domain.User, id string) error {
	uid, ok := validate.ID(id)
	if !ok {
		return domain.NotFound("user")
	}
	if uid == actor.ID {
		return domain.Invalid("you cannot delete your own account")
	}
	return s.Users.DeleteUserCascade(ctx, uid)
}
