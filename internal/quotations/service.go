package quotations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/motoquote/motoquote/internal/catalog"
	"github.com/motoquote/motoquote/internal/customers"
	"github.com/motoquote/motoquote/internal/observability"
	"github.com/motoquote/motoquote/internal/platform/httpx"
	"github.com/motoquote/motoquote/internal/pricing"
	"github.com/motoquote/motoquote/internal/shared"
)

// insertAttempts bounds quotation-number regeneration on unique-constraint
// collisions before the create surfaces a conflict.
const insertAttempts = 3

// Catalog is the read surface the assembler needs. catalog.Service satisfies
// it.
type Catalog interface {
	FindModelsByIDs(ctx context.Context, ids []int64) ([]catalog.Model, error)
	FindModelsBySeriesPrefix(ctx context.Context, prefix string) ([]catalog.Model, error)
	Headers(ctx context.Context) ([]catalog.Header, error)
	GetBranch(ctx context.Context, id int64) (catalog.Branch, error)
	ListOffers(ctx context.Context, activeOnly bool) ([]catalog.Offer, error)
	ListAttachments(ctx context.Context) ([]catalog.Attachment, error)
	ListFinanceDocuments(ctx context.Context) ([]catalog.FinanceDocument, error)
	ListTerms(ctx context.Context, activeOnly bool) ([]catalog.Term, error)
}

// CustomerResolver resolves or registers the quotation customer.
// customers.Service satisfies it.
type CustomerResolver interface {
	Resolve(ctx context.Context, id int64, in customers.Input) (customers.Customer, error)
}

// Enqueuer hands a persisted quotation to the background document renderer.
type Enqueuer interface {
	EnqueueRender(ctx context.Context, quotationID int64) error
}

// CreateInput is the validated request to assemble a quotation. Either
// CustomerID or the Customer fields must be set.
type CreateInput struct {
	CustomerID int64
	Customer   customers.Input
	ModelIDs   []int64
	BranchID   int64
}

// Service assembles, persists and retrieves quotation snapshots.
type Service struct {
	repo      Repository
	catalog   Catalog
	customers CustomerResolver
	enqueuer  Enqueuer
	metrics   *observability.Metrics
	logger    *slog.Logger
	matcher   string
	now       func() time.Time
}

// NewService constructs the quotation service. enqueuer and metrics may be
// nil.
func NewService(repo Repository, cat Catalog, cust CustomerResolver, enqueuer Enqueuer, metrics *observability.Metrics, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		catalog:   cat,
		customers: cust,
		enqueuer:  enqueuer,
		metrics:   metrics,
		logger:    logger,
		matcher:   pricing.DefaultReferenceMatcher,
		now:       time.Now,
	}
}

// catalogData is everything the assembler fans out to load before any write.
type catalogData struct {
	models      []catalog.Model
	headers     []catalog.Header
	branch      catalog.Branch
	offers      []catalog.Offer
	attachments []catalog.Attachment
	financeDocs []catalog.FinanceDocument
	terms       []catalog.Term
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id > 0 && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// Create assembles and persists a new quotation snapshot. All validation and
// catalog loading happens before the single insert; no partial quotation is
// ever stored. Document rendering is enqueued after the insert and its
// failure never affects the stored row.
func (s *Service) Create(ctx context.Context, identity *shared.Identity, in CreateInput) (Snapshot, error) {
	modelIDs := uniqueIDs(in.ModelIDs)
	if len(modelIDs) == 0 {
		return Snapshot{}, fmt.Errorf("%w: at least one model must be selected", httpx.ErrValidation)
	}

	branchID := in.BranchID
	if branchID == 0 && identity.BranchID != nil {
		branchID = *identity.BranchID
	}
	if branchID == 0 {
		return Snapshot{}, fmt.Errorf("%w: %v", httpx.ErrValidation, shared.ErrNoBranchAssignment)
	}

	customer, err := s.customers.Resolve(ctx, in.CustomerID, in.Customer)
	if err != nil {
		return Snapshot{}, err
	}

	data, err := s.loadCatalog(ctx, modelIDs, branchID)
	if err != nil {
		return Snapshot{}, err
	}

	snapshot, err := s.assemble(ctx, identity, customer, modelIDs, branchID, data)
	if err != nil {
		return Snapshot{}, err
	}

	if err := s.insertWithRetry(ctx, &snapshot); err != nil {
		return Snapshot{}, err
	}
	if s.metrics != nil {
		s.metrics.QuotationCreated()
	}
	s.logger.Info("quotation created",
		slog.Int64("id", snapshot.ID),
		slog.String("number", snapshot.Number),
		slog.Int64("branch_id", branchID),
		slog.Int("models", len(snapshot.Models)))

	if s.enqueuer != nil {
		if err := s.enqueuer.EnqueueRender(ctx, snapshot.ID); err != nil {
			// The quotation stands; rendering can be retried later.
			s.logger.Warn("render enqueue failed",
				slog.Int64("quotation_id", snapshot.ID),
				slog.Any("error", err))
		}
	}
	return snapshot, nil
}

func (s *Service) loadCatalog(ctx context.Context, modelIDs []int64, branchID int64) (catalogData, error) {
	var data catalogData
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		data.models, err = s.catalog.FindModelsByIDs(gctx, modelIDs)
		return err
	})
	g.Go(func() (err error) {
		data.headers, err = s.catalog.Headers(gctx)
		return err
	})
	g.Go(func() (err error) {
		data.branch, err = s.catalog.GetBranch(gctx, branchID)
		if errors.Is(err, httpx.ErrNotFound) || errors.Is(err, shared.ErrNotFound) {
			return fmt.Errorf("%w: branch %d not found", httpx.ErrValidation, branchID)
		}
		return err
	})
	g.Go(func() (err error) {
		data.offers, err = s.catalog.ListOffers(gctx, true)
		return err
	})
	g.Go(func() (err error) {
		data.attachments, err = s.catalog.ListAttachments(gctx)
		return err
	})
	g.Go(func() (err error) {
		data.financeDocs, err = s.catalog.ListFinanceDocuments(gctx)
		return err
	})
	g.Go(func() (err error) {
		data.terms, err = s.catalog.ListTerms(gctx, true)
		return err
	})
	if err := g.Wait(); err != nil {
		return catalogData{}, err
	}
	if len(data.models) != len(modelIDs) {
		return catalogData{}, fmt.Errorf("%w: one or more selected models do not exist", httpx.ErrValidation)
	}
	return data, nil
}

// assemble builds the denormalized snapshot from loaded catalog data. It is
// pure apart from the per-series sibling queries and log output.
func (s *Service) assemble(ctx context.Context, identity *shared.Identity, customer customers.Customer, modelIDs []int64, branchID int64, data catalogData) (Snapshot, error) {
	headerIdx := pricing.HeaderIndex(data.headers)

	baseDetection := true
	if err := pricing.VerifyReferenceHeader(data.headers, s.matcher); err != nil {
		// Non-fatal: the quotation is produced without base-model
		// flags.
		s.logger.Warn("no reference header in catalog, base-model detection disabled",
			slog.String("matcher", s.matcher))
		baseDetection = false
	}

	byID := make(map[int64]catalog.Model, len(data.models))
	for _, m := range data.models {
		byID[m.ID] = m
	}

	// Selection order drives output order.
	quotes := make([]ModelQuote, 0, len(modelIDs))
	seriesOrder := make([]string, 0, len(modelIDs))
	seenSeries := make(map[string]bool)
	for _, id := range modelIDs {
		m := byID[id]
		res := pricing.ResolvePrices(m, branchID, headerIdx)
		if res.Duplicates > 0 {
			s.logger.Warn("duplicate price entries dropped",
				slog.Int64("model_id", m.ID),
				slog.Int64("branch_id", branchID),
				slog.Int("dropped", res.Duplicates))
		}
		q := ModelQuote{
			ModelID:    m.ID,
			ModelName:  m.Name,
			Powertrain: m.Powertrain,
			Series:     pricing.SeriesOf(m.Name),
			Prices:     res.Prices,
			Offers:     catalog.MatchOffersToModels(data.offers, []int64{m.ID}),
		}
		if v, ok := pricing.ReferenceValue(res.Prices, s.matcher); ok {
			q.ReferencePrice = &v
		}
		quotes = append(quotes, q)
		if !seenSeries[q.Series] {
			seenSeries[q.Series] = true
			seriesOrder = append(seriesOrder, q.Series)
		}
	}

	var baseModel *pricing.BaseCandidate
	if baseDetection {
		bases, err := s.seriesBases(ctx, seriesOrder, branchID, headerIdx)
		if err != nil {
			return Snapshot{}, err
		}
		for i := range quotes {
			if b, ok := bases[quotes[i].Series]; ok && b.ModelID == quotes[i].ModelID {
				quotes[i].IsBaseModel = true
			}
		}
		baseModel = unifiedBase(seriesOrder, bases, modelIDs)
	}

	now := s.now()
	return Snapshot{
		Number: NewNumber(now),
		Status: StatusDraft,
		Customer: CustomerSnapshot{
			ID:             customer.ID,
			FullName:       customer.FullName,
			Address:        customer.Address,
			Locality:       customer.Locality,
			PrimaryPhone:   customer.PrimaryPhone,
			SecondaryPhone: customer.SecondaryPhone,
		},
		Branch: BranchSnapshot{
			ID:       data.branch.ID,
			Name:     data.branch.Name,
			Address:  data.branch.Address,
			Locality: data.branch.Locality,
			Phone:    data.branch.Phone,
			GSTIN:    data.branch.GSTIN,
		},
		CreatedBy: CreatorSnapshot{
			UserID: identity.UserID,
			Name:   identity.Name,
		},
		Models:           quotes,
		BaseModel:        baseModel,
		Offers:           catalog.MatchOffersToModels(data.offers, modelIDs),
		Attachments:      catalog.MatchAttachmentsToModels(data.attachments, modelIDs),
		FinanceDocuments: data.financeDocs,
		Terms:            data.terms,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// seriesBases finds the minimum-priced model per series over the whole
// catalog, not just the selection. Models whose name yields the unknown
// series sentinel are not ranked.
func (s *Service) seriesBases(ctx context.Context, seriesOrder []string, branchID int64, headerIdx map[int64]catalog.Header) (map[string]pricing.BaseCandidate, error) {
	bases := make(map[string]pricing.BaseCandidate, len(seriesOrder))
	for _, series := range seriesOrder {
		if series == pricing.SeriesUnknown {
			continue
		}
		siblings, err := s.catalog.FindModelsBySeriesPrefix(ctx, series)
		if err != nil {
			return nil, err
		}
		var candidates []pricing.BaseCandidate
		for _, m := range siblings {
			if pricing.SeriesOf(m.Name) != series || m.Status != catalog.ModelStatusActive {
				continue
			}
			res := pricing.ResolvePrices(m, branchID, headerIdx)
			v, ok := pricing.ReferenceValue(res.Prices, s.matcher)
			if !ok {
				continue
			}
			candidates = append(candidates, pricing.BaseCandidate{
				ModelID:   m.ID,
				ModelName: m.Name,
				Series:    series,
				Value:     v,
			})
		}
		if best, ok := pricing.SelectBaseModel(candidates); ok {
			bases[series] = best
		}
	}
	return bases, nil
}

// unifiedBase decides the quotation-level base model. A selection spanning
// multiple series has no single well-defined base; within one series the base
// is surfaced only when it is not itself part of the selection. Unknown-series
// models never rank and so never count toward the series spread.
func unifiedBase(seriesOrder []string, bases map[string]pricing.BaseCandidate, modelIDs []int64) *pricing.BaseCandidate {
	var ranked []string
	for _, series := range seriesOrder {
		if series != pricing.SeriesUnknown {
			ranked = append(ranked, series)
		}
	}
	if len(ranked) != 1 {
		return nil
	}
	best, ok := bases[ranked[0]]
	if !ok {
		return nil
	}
	for _, id := range modelIDs {
		if id == best.ModelID {
			return nil
		}
	}
	return &best
}

func (s *Service) insertWithRetry(ctx context.Context, snapshot *Snapshot) error {
	for attempt := 0; attempt < insertAttempts; attempt++ {
		err := s.repo.Insert(ctx, snapshot)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrDuplicateNumber) {
			return err
		}
		s.logger.Warn("quotation number collision, regenerating",
			slog.String("number", snapshot.Number))
		snapshot.Number = NewNumber(s.now())
	}
	return fmt.Errorf("%w: could not allocate a unique quotation number", httpx.ErrConflict)
}

// Get returns one stored snapshot.
func (s *Service) Get(ctx context.Context, id int64) (Snapshot, error) {
	snap, err := s.repo.Get(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return Snapshot{}, httpx.ErrNotFound
	}
	return snap, err
}

// GetByNumber returns one stored snapshot by its human-facing number.
func (s *Service) GetByNumber(ctx context.Context, number string) (Snapshot, error) {
	snap, err := s.repo.GetByNumber(ctx, number)
	if errors.Is(err, shared.ErrNotFound) {
		return Snapshot{}, httpx.ErrNotFound
	}
	return snap, err
}

// List returns a page of snapshots with pagination metadata. Non-admin
// callers are confined to their own branch.
func (s *Service) List(ctx context.Context, identity *shared.Identity, f ListFilter) ([]Snapshot, shared.Pagination, error) {
	if !identity.HasRole(shared.RoleAdmin) && identity.BranchID != nil {
		f.BranchID = *identity.BranchID
	}
	if f.PerPage <= 0 || f.PerPage > 100 {
		f.PerPage = 20
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return items, shared.NewPagination(f.Page, f.PerPage, total), nil
}

// allowedTransitions maps each status to the statuses it may move to.
var allowedTransitions = map[Status][]Status{
	StatusDraft:    {StatusSent, StatusAccepted, StatusRejected},
	StatusSent:     {StatusAccepted, StatusRejected},
	StatusAccepted: {StatusConverted},
}

// UpdateStatus moves a quotation through its lifecycle. Rejected and
// converted are terminal.
func (s *Service) UpdateStatus(ctx context.Context, id int64, next Status) error {
	if !ValidStatus(next) {
		return fmt.Errorf("%w: unknown status %q", httpx.ErrValidation, next)
	}
	current, err := s.repo.Get(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return httpx.ErrNotFound
	}
	if err != nil {
		return err
	}
	for _, allowed := range allowedTransitions[current.Status] {
		if allowed == next {
			return s.repo.UpdateStatus(ctx, id, next)
		}
	}
	return fmt.Errorf("%w: cannot move quotation from %s to %s", httpx.ErrConflict, current.Status, next)
}
