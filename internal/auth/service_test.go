package auth

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motoquote/motoquote/internal/shared"
)

type memoryUserRepo struct {
	users map[string]*User
}

func (r *memoryUserRepo) FindByEmail(_ context.Context, email string) (*User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return u, nil
}

func (r *memoryUserRepo) Get(_ context.Context, id int64) (*User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, shared.ErrNotFound
}

func newTestService(t *testing.T) (*Service, *memoryUserRepo) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	branchID := int64(2)
	repo := &memoryUserRepo{users: map[string]*User{
		"asha@example.com": {
			ID:           1,
			Email:        "asha@example.com",
			FullName:     "Asha Rao",
			PasswordHash: hash,
			Role:         shared.RoleSales,
			BranchID:     &branchID,
			IsActive:     true,
		},
		"former@example.com": {
			ID:           2,
			Email:        "former@example.com",
			FullName:     "Former Employee",
			PasswordHash: hash,
			Role:         shared.RoleSales,
			IsActive:     false,
		},
	}}
	return NewService(repo, client, time.Hour), repo
}

func TestLoginIssuesResolvableToken(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	token, identity, err := svc.Login(ctx, "asha@example.com", "s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, int64(1), identity.UserID)
	assert.Equal(t, shared.RoleSales, identity.Role)

	resolved, err := svc.Identify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, identity, resolved)
	require.NotNil(t, resolved.BranchID)
	assert.Equal(t, int64(2), *resolved.BranchID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.Login(ctx, "asha@example.com", "wrong")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@example.com", "s3cret")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "former@example.com", "s3cret")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	token, _, err := svc.Login(ctx, "asha@example.com", "s3cret")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, token))

	_, err = svc.Identify(ctx, token)
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestRequireUserMiddleware(t *testing.T) {
	svc, _ := newTestService(t)
	mw := NewMiddleware(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	token, _, err := svc.Login(context.Background(), "asha@example.com", "s3cret")
	require.NoError(t, err)

	var seen *shared.Identity
	handler := mw.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = shared.IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/quotations", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "Asha Rao", seen.Name)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/quotations", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	svc, _ := newTestService(t)
	mw := NewMiddleware(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	guarded := mw.RequireRole(shared.RoleManager)(next)

	serve := func(identity *shared.Identity) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/catalog/models", nil)
		if identity != nil {
			req = req.WithContext(shared.ContextWithIdentity(req.Context(), identity))
		}
		rec := httptest.NewRecorder()
		guarded.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusForbidden, serve(&shared.Identity{Role: shared.RoleSales}).Code)
	assert.Equal(t, http.StatusOK, serve(&shared.Identity{Role: shared.RoleManager}).Code)
	assert.Equal(t, http.StatusOK, serve(&shared.Identity{Role: shared.RoleAdmin}).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(nil).Code)
}
