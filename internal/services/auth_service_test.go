package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printshop/internal/domain"
	"printshop/internal/services"
)

const jwtSecret = "test-secret"

func TestRegisterAndLogin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	auth := services.NewAuthService(e.users, jwtSecret, time.Hour)

	u, tok, err := auth.Register(ctx, services.RegisterInput{Name: "Saraa", Email: " Saraa@Example.com ", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, "saraa@example.com", u.Email)
	assert.Equal(t, domain.RoleUser, u.Role)
	assert.True(t, u.Balance.IsZero())
	assert.NotEqual(t, "correct-horse", u.Hash)

	claims, err := auth.ParseToken(tok)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.Subject)

	_, _, err = auth.Register(ctx, services.RegisterInput{Name: "Other", Email: "saraa@example.com", Password: "another-pass"})
	assert.Equal(t, domain.KindConflict, kindOf(t, err))

	_, _, err = auth.Register(ctx, services.RegisterInput{Name: "Short", Email: "short@example.com", Password: "abc"})
	assert.Equal(t, domain.KindValidation, kindOf(t, err))

	got, _, err := auth.Login(ctx, "SARAA@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, _, err = auth.Login(ctx, "saraa@example.com", "wrong-horse")
	assert.ErrorIs(t, err, domain.ErrBadCredentials)
	_, _, err = auth.Login(ctx, "nobody@example.com", "correct-horse")
	assert.ErrorIs(t, err, domain.ErrBadCredentials, "unknown email and wrong password look the same")
}

func TestParseTokenRejects(t *testing.T) {
	e := newEnv(t)
	auth := services.NewAuthService(e.users, jwtSecret, time.Hour)

	sign := func(secret string, exp time.Time) string {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, services.Claims{
			Role:             domain.RoleAdmin,
			RegisteredClaims: jwt.RegisteredClaims{Subject: "someone", ExpiresAt: jwt.NewNumericDate(exp)},
		}).SignedString([]byte(secret))
		require.NoError(t, err)
		return tok
	}

	cases := map[string]string{
		"expired":      sign(jwtSecret, time.Now().Add(-time.Minute)),
		"wrong secret": sign("other-secret", time.Now().Add(time.Hour)),
		"garbage":      "not.a.token",
		"empty":        "",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := auth.ParseToken(raw)
			assert.Equal(t, domain.KindUnauthorized, kindOf(t, err))
		})
	}

	_, err := auth.CurrentUser(context.Background(), sign(jwtSecret, time.Now().Add(time.Hour)))
	require.Error(t, err)
	assert.Equal(t, "not authorized, user not found", err.Error())
}

func TestProfileAndPassword(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	auth := services.NewAuthService(e.users, jwtSecret, time.Hour)
	u, _, err := auth.Register(ctx, services.RegisterInput{Name: "Bold", Email: "bold@example.com", Password: "first-pass"})
	require.NoError(t, err)

	u, err = auth.UpdateProfile(ctx, u.ID, services.ProfileInput{Name: "Bold B.", Phone: "+976 88001122", Address: "Sukhbaatar 3"})
	require.NoError(t, err)
	assert.Equal(t, "Bold B.", u.Name)
	assert.Equal(t, "Sukhbaatar 3", u.Address)

	assert.Equal(t, domain.KindValidation, kindOf(t, auth.ChangePassword(ctx, u.ID, "wrong-pass", "second-pass")))
	require.NoError(t, auth.ChangePassword(ctx, u.ID, "first-pass", "second-pass"))
	_, _, err = auth.Login(ctx, "bold@example.com", "second-pass")
	require.NoError(t, err)
}

func TestEnsureAdmin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	auth := services.NewAuthService(e.users, jwtSecret, time.Hour)

	a, err := auth.EnsureAdmin(ctx, "Admin", "admin@example.com", "admin-pass")
	require.NoError(t, err)
	assert.True(t, a.IsAdmin())

	again, err := auth.EnsureAdmin(ctx, "Admin", "admin@example.com", "admin-pass")
	require.NoError(t, err)
	assert.Equal(t, a.ID, again.ID)

	u, _, err := auth.Register(ctx, services.RegisterInput{Name: "Promo", Email: "promo@example.com", Password: "promo-pass"})
	require.NoError(t, err)
	promoted, err := auth.EnsureAdmin(ctx, "ignored", "promo@example.com", "ignored-pass")
	require.NoError(t, err)
	assert.Equal(t, u.ID, promoted.ID)
	stored, err := e.users.ByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, stored.Role)
}

func TestRoleChanges(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	admin := e.account(t, 0, domain.RoleAdmin)
	u := e.account(t, 0, domain.RoleUser)

	_, err := e.accounts.SetRole(ctx, admin, admin.ID, domain.RoleUser)
	assert.Equal(t, domain.KindValidation, kindOf(t, err))

	got, err := e.accounts.SetRole(ctx, admin, u.ID, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, got.Role)

	_, err = e.accounts.SetRole(ctx, admin, u.ID, domain.Role("owner"))
	assert.Equal(t, domain.KindValidation, kindOf(t, err))
}
