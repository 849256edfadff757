package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/motoquote/motoquote/internal/platform/httpx"
	"github.com/motoquote/motoquote/internal/shared"
)

// Service wraps customer business rules over the repository.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func validateInput(in Input) error {
	if strings.TrimSpace(in.FullName) == "" {
		return fmt.Errorf("%w: customer name is required", httpx.ErrValidation)
	}
	if strings.TrimSpace(in.PrimaryPhone) == "" {
		return fmt.Errorf("%w: customer phone is required", httpx.ErrValidation)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (Customer, error) {
	c, err := s.repo.Get(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return Customer{}, fmt.Errorf("%w: customer %d", httpx.ErrNotFound, id)
	}
	return c, err
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]Customer, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) Create(ctx context.Context, in Input) (Customer, error) {
	if err := validateInput(in); err != nil {
		return Customer{}, err
	}
	return s.repo.Create(ctx, in)
}

func (s *Service) Update(ctx context.Context, id int64, in Input) error {
	if err := validateInput(in); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, id, in); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return fmt.Errorf("%w: customer %d", httpx.ErrNotFound, id)
		}
		return err
	}
	return nil
}

// Resolve returns the customer to embed into a quotation. A positive id wins;
// otherwise the input is matched by primary phone and created when no match
// exists.
func (s *Service) Resolve(ctx context.Context, id int64, in Input) (Customer, error) {
	if id > 0 {
		c, err := s.repo.Get(ctx, id)
		if errors.Is(err, shared.ErrNotFound) {
			return Customer{}, fmt.Errorf("%w: customer %d not found", httpx.ErrValidation, id)
		}
		return c, err
	}
	if err := validateInput(in); err != nil {
		return Customer{}, err
	}
	existing, err := s.repo.FindByPhone(ctx, in.PrimaryPhone)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return Customer{}, err
	}
	return s.repo.Create(ctx, in)
}
