package services

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"printshop/internal/domain"
	"printshop/internal/repos"
	"printshop/internal/validate"
)

// Claims is the bearer token payload. Subject holds the account id.
type Claims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

type AuthService struct {
	Users  *repos.UserRepo
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthService(users *repos.UserRepo, secret string, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &AuthService{Users: users, secret: []byte(secret), ttl: ttl, now: time.Now}
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, string, error) {
	u, err := s.newAccount(in, domain.RoleUser)
	if err != nil {
		return nil, "", err
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, "", err
	}
	tok, err := s.IssueToken(u)
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}

func (s *AuthService) newAccount(in RegisterInput, role domain.Role) (*domain.User, error) {
	name, ok := validate.Name(in.Name)
	if !ok {
		return nil, domain.Invalid("name is required")
	}
	email, ok := validate.Email(in.Email)
	if !ok {
		return nil, domain.Invalid("a valid email is required")
	}
	if !validate.Password(in.Password) {
		return nil, domain.Invalid("password must be 8-64 characters")
	}
	phone := ""
	if in.Phone != "" {
		if phone, ok = validate.Phone(in.Phone); !ok {
			return nil, domain.Invalid("phone number is invalid")
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &domain.User{
		ID:      uuid.NewString(),
		Email:   email,
		Name:    name,
		Hash:    string(hash),
		Phone:   phone,
		Role:    role,
		Balance: decimal.Zero,
	}, nil
}

// Login checks credentials. Unknown email and wrong password look the same to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email, ok := validate.Email(email)
	if !ok || password == "" {
		return nil, "", domain.ErrBadCredentials
	}
	u, err := s.Users.ByEmail(ctx, email)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, "", domain.ErrBadCredentials
		}
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, "", domain.ErrBadCredentials
	}
	tok, err := s.IssueToken(u)
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}

func (s *AuthService) IssueToken(u *domain.User) (string, error) {
	now := s.now()
	claims := Claims{
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *AuthService) ParseToken(raw string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !tok.Valid || claims.Subject == "" {
		return nil, domain.Unauthorized("not authorized, token failed")
	}
	return claims, nil
}

// CurrentUser resolves the account behind a bearer token.
func (s *AuthService) CurrentUser(ctx context.Context, raw string) (*domain.User, error) {
	claims, err := s.ParseToken(raw)
	if err != nil {
		return nil, err
	}
	u, err := s.Users.ByID(ctx, claims.Subject)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.Unauthorized("not authorized, user not found")
		}
		return nil, err
	}
	return u, nil
}

type ProfileInput struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*domain.User, error) {
	name, ok := validate.Name(in.Name)
	if !ok {
		return nil, domain.Invalid("name is required")
	}
	phone := ""
	if in.Phone != "" {
		if phone, ok = validate.Phone(in.Phone); !ok {
			return nil, domain.Invalid("phone number is invalid")
		}
	}
	address, ok := validate.Optional(in.Address, 300)
	if !ok {
		return nil, domain.Invalid("address is too long")
	}
	if err := s.Users.UpdateProfile(ctx, userID, name, phone, address); err != nil {
		return nil, err
	}
	return s.Users.ByID(ctx, userID)
}

func (s *AuthService) ChangePassword(ctx context.Context, userID, current, next string) error {
	u, err := s.Users.ByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(current)) != nil {
		return domain.Invalid("current password is incorrect")
	}
	if !validate.Password(next) {
		return domain.Invalid("password must be 8-64 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.Users.UpdatePassword(ctx, userID, string(hash))
}

// EnsureAdmin creates an admin account, or promotes the account that already uses email.
func (s *AuthService) EnsureAdmin(ctx context.Context, name, email, password string) (*domain.User, error) {
	existing, err := s.Users.ByEmail(ctx, email)
	switch {
	case err == nil:
		if err := s.Users.UpdateRole(ctx, existing.ID, domain.RoleAdmin); err != nil {
			return nil, err
		}
		existing.Role = domain.RoleAdmin
		return existing, nil
	case !domain.IsNotFound(err):
		return nil, err
	}
	u, err := s.newAccount(RegisterInput{Name: name, Email: email, Password: password}, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
