package catalog

import (
	"context"
	"log/slog"
)

// Service wraps catalog business rules over the repository and the header
// cache.
type Service struct {
	repo    Repository
	headers *HeaderCache
	logger  *slog.Logger
}

// NewService constructs a Service. The header cache may be nil.
func NewService(repo Repository, headers *HeaderCache, logger *slog.Logger) *Service {
	return &Service{repo: repo, headers: headers, logger: logger}
}

// ---- Branches

func (s *Service) ListBranches(ctx context.Context, activeOnly bool) ([]Branch, error) {
	return s.repo.ListBranches(ctx, activeOnly)
}

func (s *Service) GetBranch(ctx context.Context, id int64) (Branch, error) {
	return s.repo.GetBranch(ctx, id)
}

func (s *Service) CreateBranch(ctx context.Context, b Branch) (Branch, error) {
	if err := validateBranch(b); err != nil {
		return Branch{}, err
	}
	return s.repo.CreateBranch(ctx, b)
}

func (s *Service) UpdateBranch(ctx context.Context, id int64, b Branch) error {
	if err := validateBranch(b); err != nil {
		return err
	}
	return s.repo.UpdateBranch(ctx, id, b)
}

// ---- Headers

// Headers returns the full header catalog, cache-through.
func (s *Service) Headers(ctx context.Context) ([]Header, error) {
	if cached, ok := s.headers.Get(ctx); ok {
		return cached, nil
	}
	headers, err := s.repo.ListHeaders(ctx)
	if err != nil {
		return nil, err
	}
	s.headers.Set(ctx, headers)
	return headers, nil
}

func (s *Service) CreateHeader(ctx context.Context, h Header) (Header, error) {
	if err := validateHeader(h); err != nil {
		return Header{}, err
	}
	created, err := s.repo.CreateHeader(ctx, h)
	if err != nil {
		return Header{}, err
	}
	s.headers.Invalidate(ctx)
	return created, nil
}

func (s *Service) UpdateHeader(ctx context.Context, id int64, h Header) error {
	if err := validateHeader(h); err != nil {
		return err
	}
	if err := s.repo.UpdateHeader(ctx, id, h); err != nil {
		return err
	}
	s.headers.Invalidate(ctx)
	return nil
}

// DeleteHeader removes a header definition. Price entries referencing it are
// left untouched and resolve with sentinel labels from then on.
func (s *Service) DeleteHeader(ctx context.Context, id int64) error {
	if err := s.repo.DeleteHeader(ctx, id); err != nil {
		return err
	}
	s.headers.Invalidate(ctx)
	s.logger.Warn("header deleted, existing price entries now dangle", slog.Int64("header_id", id))
	return nil
}

// ---- Models

func (s *Service) GetModel(ctx context.Context, id int64) (Model, error) {
	return s.repo.GetModel(ctx, id)
}

func (s *Service) ListModels(ctx context.Context, activeOnly bool) ([]Model, error) {
	return s.repo.ListModels(ctx, activeOnly)
}

// FindModelsByIDs loads the given models in stored order. Missing ids are
// simply absent from the result; callers compare counts.
func (s *Service) FindModelsByIDs(ctx context.Context, ids []int64) ([]Model, error) {
	return s.repo.FindModelsByIDs(ctx, ids)
}

// FindModelsBySeriesPrefix loads every model whose name starts with the given
// series token. Callers narrow the result to exact series matches.
func (s *Service) FindModelsBySeriesPrefix(ctx context.Context, prefix string) ([]Model, error) {
	return s.repo.FindModelsBySeriesPrefix(ctx, prefix)
}

func (s *Service) CreateModel(ctx context.Context, m Model) (Model, error) {
	if err := validateModel(m); err != nil {
		return Model{}, err
	}
	if m.Status == "" {
		m.Status = ModelStatusActive
	}
	return s.repo.CreateModel(ctx, m)
}

func (s *Service) UpdateModel(ctx context.Context, id int64, m Model) error {
	if err := validateModel(m); err != nil {
		return err
	}
	return s.repo.UpdateModel(ctx, id, m)
}

// ---- Offers

func (s *Service) ListOffers(ctx context.Context, activeOnly bool) ([]Offer, error) {
	return s.repo.ListOffers(ctx, activeOnly)
}

func (s *Service) CreateOffer(ctx context.Context, o Offer) (Offer, error) {
	if err := validateOffer(o); err != nil {
		return Offer{}, err
	}
	return s.repo.CreateOffer(ctx, o)
}

func (s *Service) UpdateOffer(ctx context.Context, id int64, o Offer) error {
	if err := validateOffer(o); err != nil {
		return err
	}
	return s.repo.UpdateOffer(ctx, id, o)
}

// ---- Attachments

func (s *Service) ListAttachments(ctx context.Context) ([]Attachment, error) {
	return s.repo.ListAttachments(ctx)
}

func (s *Service) CreateAttachment(ctx context.Context, a Attachment) (Attachment, error) {
	if err := validateAttachment(a); err != nil {
		return Attachment{}, err
	}
	return s.repo.CreateAttachment(ctx, a)
}

// ---- Finance documents and terms

func (s *Service) ListFinanceDocuments(ctx context.Context) ([]FinanceDocument, error) {
	return s.repo.ListFinanceDocuments(ctx)
}

func (s *Service) CreateFinanceDocument(ctx context.Context, d FinanceDocument) (FinanceDocument, error) {
	if err := validateFinanceDocument(d); err != nil {
		return FinanceDocument{}, err
	}
	return s.repo.CreateFinanceDocument(ctx, d)
}

func (s *Service) ListTerms(ctx context.Context, activeOnly bool) ([]Term, error) {
	return s.repo.ListTerms(ctx, activeOnly)
}

func (s *Service) CreateTerm(ctx context.Context, t Term) (Term, error) {
	if err := validateTerm(t); err != nil {
		return Term{}, err
	}
	return s.repo.CreateTerm(ctx, t)
}
