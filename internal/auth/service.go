package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/motoquote/motoquote/internal/shared"
)

const sessionKeyPrefix = "auth:session:"

// Service authenticates users and manages bearer-token sessions in Redis.
type Service struct {
	repo     Repository
	sessions *redis.Client
	ttl      time.Duration
}

// NewService constructs a Service.
func NewService(repo Repository, sessions *redis.Client, ttl time.Duration) *Service {
	return &Service{repo: repo, sessions: sessions, ttl: ttl}
}

// Login validates credentials and issues an opaque bearer token.
func (s *Service) Login(ctx context.Context, email, password string) (string, *shared.Identity, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, shared.ErrInvalidCredentials
	}

	identity := &shared.Identity{
		UserID:   user.ID,
		Name:     user.FullName,
		Role:     user.Role,
		BranchID: user.BranchID,
	}
	token := uuid.NewString()
	payload, err := json.Marshal(identity)
	if err != nil {
		return "", nil, err
	}
	if err := s.sessions.Set(ctx, sessionKeyPrefix+token, payload, s.ttl).Err(); err != nil {
		return "", nil, fmt.Errorf("auth: store session: %w", err)
	}
	return token, identity, nil
}

// Identify resolves a bearer token to the caller identity.
func (s *Service) Identify(ctx context.Context, token string) (*shared.Identity, error) {
	if token == "" {
		return nil, shared.ErrInvalidCredentials
	}
	payload, err := s.sessions.Get(ctx, sessionKeyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth: load session: %w", err)
	}
	var identity shared.Identity
	if err := json.Unmarshal(payload, &identity); err != nil {
		return nil, fmt.Errorf("auth: decode session: %w", err)
	}
	return &identity, nil
}

// Logout revokes a bearer token.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Del(ctx, sessionKeyPrefix+token).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("auth: delete session: %w", err)
	}
	return nil
}

// HashPassword produces a bcrypt hash for seeding and account provisioning.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
