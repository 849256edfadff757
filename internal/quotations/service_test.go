package quotations

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motoquote/motoquote/internal/catalog"
	"github.com/motoquote/motoquote/internal/customers"
	"github.com/motoquote/motoquote/internal/platform/httpx"
	"github.com/motoquote/motoquote/internal/pricing"
	"github.com/motoquote/motoquote/internal/shared"
)

// memRepo stores snapshots as JSON to mimic the JSONB round trip.
type memRepo struct {
	nextID     int64
	rows       map[int64][]byte
	numbers    map[string]bool
	duplicates int
}

func newMemRepo() *memRepo {
	return &memRepo{rows: map[int64][]byte{}, numbers: map[string]bool{}}
}

func (r *memRepo) Insert(_ context.Context, s *Snapshot) error {
	if r.duplicates > 0 {
		r.duplicates--
		return ErrDuplicateNumber
	}
	if r.numbers[s.Number] {
		return ErrDuplicateNumber
	}
	r.nextID++
	s.ID = r.nextID
	r.numbers[s.Number] = true
	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}
	r.rows[s.ID] = payload
	return nil
}

func (r *memRepo) Get(_ context.Context, id int64) (Snapshot, error) {
	payload, ok := r.rows[id]
	if !ok {
		return Snapshot{}, shared.ErrNotFound
	}
	var s Snapshot
	if err := json.Unmarshal(payload, &s); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

func (r *memRepo) GetByNumber(_ context.Context, number string) (Snapshot, error) {
	for id := range r.rows {
		s, err := r.Get(context.Background(), id)
		if err != nil {
			return Snapshot{}, err
		}
		if s.Number == number {
			return s, nil
		}
	}
	return Snapshot{}, shared.ErrNotFound
}

func (r *memRepo) List(_ context.Context, _ ListFilter) ([]Snapshot, int, error) {
	return nil, 0, nil
}

func (r *memRepo) UpdateDocumentURL(_ context.Context, id int64, url string) error {
	s, err := r.Get(context.Background(), id)
	if err != nil {
		return err
	}
	s.DocumentURL = &url
	payload, _ := json.Marshal(s)
	r.rows[id] = payload
	return nil
}

func (r *memRepo) UpdateStatus(_ context.Context, id int64, status Status) error {
	s, err := r.Get(context.Background(), id)
	if err != nil {
		return err
	}
	s.Status = status
	payload, _ := json.Marshal(s)
	r.rows[id] = payload
	return nil
}

type memCatalog struct {
	models      []catalog.Model
	headers     []catalog.Header
	branches    map[int64]catalog.Branch
	offers      []catalog.Offer
	attachments []catalog.Attachment
	financeDocs []catalog.FinanceDocument
	terms       []catalog.Term
}

func (c *memCatalog) FindModelsByIDs(_ context.Context, ids []int64) ([]catalog.Model, error) {
	want := map[int64]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []catalog.Model
	for _, m := range c.models {
		if want[m.ID] {
			out = append(out, m)
		}
	}
	return out, nil
}

func (c *memCatalog) FindModelsBySeriesPrefix(_ context.Context, prefix string) ([]catalog.Model, error) {
	var out []catalog.Model
	for _, m := range c.models {
		if strings.HasPrefix(m.Name, prefix) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (c *memCatalog) Headers(_ context.Context) ([]catalog.Header, error) {
	return c.headers, nil
}

func (c *memCatalog) GetBranch(_ context.Context, id int64) (catalog.Branch, error) {
	b, ok := c.branches[id]
	if !ok {
		return catalog.Branch{}, shared.ErrNotFound
	}
	return b, nil
}

func (c *memCatalog) ListOffers(_ context.Context, _ bool) ([]catalog.Offer, error) {
	return c.offers, nil
}

func (c *memCatalog) ListAttachments(_ context.Context) ([]catalog.Attachment, error) {
	return c.attachments, nil
}

func (c *memCatalog) ListFinanceDocuments(_ context.Context) ([]catalog.FinanceDocument, error) {
	return c.financeDocs, nil
}

func (c *memCatalog) ListTerms(_ context.Context, _ bool) ([]catalog.Term, error) {
	return c.terms, nil
}

type memCustomers struct {
	nextID int64
	byID   map[int64]customers.Customer
}

func newMemCustomers() *memCustomers {
	return &memCustomers{byID: map[int64]customers.Customer{}}
}

func (m *memCustomers) Resolve(_ context.Context, id int64, in customers.Input) (customers.Customer, error) {
	if id > 0 {
		c, ok := m.byID[id]
		if !ok {
			return customers.Customer{}, httpx.ErrValidation
		}
		return c, nil
	}
	if in.FullName == "" || in.PrimaryPhone == "" {
		return customers.Customer{}, httpx.ErrValidation
	}
	m.nextID++
	c := customers.Customer{
		ID:           m.nextID,
		FullName:     in.FullName,
		Address:      in.Address,
		Locality:     in.Locality,
		PrimaryPhone: in.PrimaryPhone,
	}
	m.byID[c.ID] = c
	return c, nil
}

type memEnqueuer struct {
	calls []int64
	err   error
}

func (e *memEnqueuer) EnqueueRender(_ context.Context, id int64) error {
	if e.err != nil {
		return e.err
	}
	e.calls = append(e.calls, id)
	return nil
}

// fixture: branch B1 with an Ex-Showroom header, models X1 (100000) and
// X2 (120000) sharing series X.
func twoModelFixture() *memCatalog {
	return &memCatalog{
		headers: []catalog.Header{
			{ID: 1, CategoryKey: "Showroom", Powertrain: catalog.PowertrainICE, HeaderKey: "Ex-Showroom", Priority: 1},
			{ID: 2, CategoryKey: "Statutory", Powertrain: catalog.PowertrainICE, HeaderKey: "RTO", Priority: 2},
		},
		branches: map[int64]catalog.Branch{
			1: {ID: 1, Name: "B1", IsActive: true},
		},
		models: []catalog.Model{
			{ID: 10, Name: "X1", Powertrain: catalog.PowertrainICE, Status: catalog.ModelStatusActive, Prices: []catalog.Price{
				{HeaderID: 1, BranchID: 1, Value: 100000},
				{HeaderID: 2, BranchID: 1, Value: 8000},
			}},
			{ID: 11, Name: "X2", Powertrain: catalog.PowertrainICE, Status: catalog.ModelStatusActive, Prices: []catalog.Price{
				{HeaderID: 1, BranchID: 1, Value: 120000},
				{HeaderID: 2, BranchID: 1, Value: 9500},
			}},
		},
		offers: []catalog.Offer{
			{ID: 1, Title: "Festive exchange bonus", IsActive: true, ApplyToAllModels: true},
			{ID: 2, Title: "X2 accessories kit", IsActive: true, ModelIDs: []int64{11}},
		},
		financeDocs: []catalog.FinanceDocument{{ID: 1, Name: "Aadhaar card"}},
		terms:       []catalog.Term{{ID: 1, Content: "Prices valid for 7 days.", Priority: 1, IsActive: true}},
	}
}

func salesIdentity() *shared.Identity {
	branchID := int64(1)
	return &shared.Identity{UserID: 5, Name: "Asha Rao", Role: shared.RoleSales, BranchID: &branchID}
}

func newService(t *testing.T, cat *memCatalog) (*Service, *memRepo, *memEnqueuer) {
	t.Helper()
	repo := newMemRepo()
	enq := &memEnqueuer{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(repo, cat, newMemCustomers(), enq, nil, logger)
	svc.now = func() time.Time { return time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC) }
	return svc, repo, enq
}

func newCustomerInput() customers.Input {
	return customers.Input{FullName: "A", PrimaryPhone: "9876500000", Locality: "Jayanagar"}
}

func TestCreateSelectingNonBaseModel(t *testing.T) {
	svc, _, enq := newService(t, twoModelFixture())

	snap, err := svc.Create(context.Background(), salesIdentity(), CreateInput{
		Customer: newCustomerInput(),
		ModelIDs: []int64{11},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusDraft, snap.Status)
	assert.NotEmpty(t, snap.Number)
	assert.Nil(t, snap.DocumentURL)
	require.Len(t, snap.Models, 1)

	x2 := snap.Models[0]
	assert.Equal(t, "X2", x2.ModelName)
	assert.Equal(t, "X", x2.Series)
	assert.False(t, x2.IsBaseModel)
	require.NotNil(t, x2.ReferencePrice)
	assert.Equal(t, 120000.0, *x2.ReferencePrice)

	require.NotNil(t, snap.BaseModel)
	assert.Equal(t, int64(10), snap.BaseModel.ModelID)
	assert.Equal(t, "X1", snap.BaseModel.ModelName)
	assert.Equal(t, 100000.0, snap.BaseModel.Value)

	assert.Equal(t, []int64{snap.ID}, enq.calls)
}

func TestCreateSelectingTheBaseModelItself(t *testing.T) {
	svc, _, _ := newService(t, twoModelFixture())

	snap, err := svc.Create(context.Background(), salesIdentity(), CreateInput{
		Customer: newCustomerInput(),
		ModelIDs: []int64{10},
	})
	require.NoError(t, err)

	require.Len(t, snap.Models, 1)
	assert.True(t, snap.Models[0].IsBaseModel)
	assert.Nil(t, snap.BaseModel)
}

func TestCreateAcrossTwoSeriesHasNoUnifiedBase(t *testing.T) {
	cat := twoModelFixture()
	cat.models = append(cat.models,
		catalog.Model{ID: 20, Name: "Z9", Powertrain: catalog.PowertrainICE, Status: catalog.ModelStatusActive, Prices: []catalog.Price{
			{HeaderID: 1, BranchID: 1, Value: 90000},
		}},
	)
	svc, _, _ := newService(t, cat)

	snap, err := svc.Create(context.Background(), salesIdentity(), CreateInput{
		Customer: newCustomerInput(),
		ModelIDs: []int64{10, 20},
	})
	require.NoError(t, err)

	// Each selected model is the base of its own series, yet the
	// quotation as a whole has none.
	assert.Nil(t, snap.BaseModel)
	for _, m := range snap.Models {
		assert.True(t, m.IsBaseModel, m.ModelName)
	}
}

func TestCreateWithoutReferenceHeaderStillSucceeds(t *testing.T) {
	cat := twoModelFixture()
	cat.headers = []catalog.Header{
		{ID: 2, CategoryKey: "Statutory", Powertrain: catalog.PowertrainICE, HeaderKey: "RTO", Priority: 2},
	}
	svc, _, _ := newService(t, cat)

	snap, err := svc.Create(context.Background(), salesIdentity(), CreateInput{
		Customer: newCustomerInput(),
		ModelIDs: []int64{10, 11},
	})
	require.NoError(t, err)

	assert.Nil(t, snap.BaseModel)
	for _, m := range snap.Models {
		assert.False(t, m.IsBaseModel)
		assert.Nil(t, m.ReferencePrice)
	}
}

func TestCreateRejectsBeforePersistence(t *testing.T) {
	svc, repo, _ := newService(t, twoModelFixture())
	ctx := context.Background()

	_, err := svc.Create(ctx, salesIdentity(), CreateInput{Customer: newCustomerInput()})
	assert.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Create(ctx, salesIdentity(), CreateInput{
		Customer: newCustomerInput(),
		ModelIDs: []int64{10, 999},
	})
	assert.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Create(ctx, salesIdentity(), CreateInput{
		Customer: newCustomerInput(),
		ModelIDs: []int64{10},
		BranchID: 42,
	})
	assert.ErrorIs(t, err, httpx.ErrValidation)

	noBranch := &shared.Identity{UserID: 9, Name: "Floater", Role: shared.RoleSales}
	_, err = svc.Create(ctx, noBranch, CreateInput{
		Customer: newCustomerInput(),
		ModelIDs: []int64{10},
	})
	assert.ErrorIs(t, err, httpx.ErrValidation)

	assert.Empty(t, repo.rows, "no partial quotation may be stored")
}

func TestCreateMatchesOffersAndSnapshotsTerms(t *testing.T) {
	svc, _, _ := newService(t, twoModelFixture())

	snap, err := svc.Create(context.Background(), salesIdentity(), CreateInput{
		Customer: newCustomerInput(),
		ModelIDs: []int64{10, 11},
	})
	require.NoError(t, err)

	// The union carries both offers; each model block carries only its own.
	require.Len(t, snap.Offers, 2)

	require.Len(t, snap.Models, 2)
	x1, x2 := snap.Models[0], snap.Models[1]
	require.Len(t, x1.Offers, 1)
	assert.Equal(t, int64(1), x1.Offers[0].ID, "X1 gets the global offer only")
	require.Len(t, x2.Offers, 2)
	assert.Equal(t, "X2 accessories kit", x2.Offers[1].Title)

	require.Len(t, snap.FinanceDocuments, 1)
	require.Len(t, snap.Terms, 1)
	assert.Equal(t, "B1", snap.Branch.Name)
	assert.Equal(t, "Asha Rao", snap.CreatedBy.Name)
	assert.Equal(t, "Jayanagar", snap.Customer.Locality)
}

func TestCreateUnknownSeriesModelDoesNotSuppressBase(t *testing.T) {
	cat := twoModelFixture()
	cat.models = append(cat.models,
		catalog.Model{ID: 30, Name: "#Concept", Powertrain: catalog.PowertrainICE, Status: catalog.ModelStatusActive, Prices: []catalog.Price{
			{HeaderID: 1, BranchID: 1, Value: 50000},
		}},
	)
	svc, _, _ := newService(t, cat)

	snap, err := svc.Create(context.Background(), salesIdentity(), CreateInput{
		Customer: newCustomerInput(),
		ModelIDs: []int64{11, 30},
	})
	require.NoError(t, err)

	// The unclassifiable model neither ranks nor widens the series spread:
	// X1 is still the base for the X selection.
	require.Len(t, snap.Models, 2)
	assert.Equal(t, pricing.SeriesUnknown, snap.Models[1].Series)
	assert.False(t, snap.Models[1].IsBaseModel)
	require.NotNil(t, snap.BaseModel)
	assert.Equal(t, int64(10), snap.BaseModel.ModelID)
}

func TestCreateRoundTripIsDeepEqual(t *testing.T) {
	svc, _, _ := newService(t, twoModelFixture())
	ctx := context.Background()

	created, err := svc.Create(ctx, salesIdentity(), CreateInput{
		Customer: newCustomerInput(),
		ModelIDs: []int64{11, 10},
	})
	require.NoError(t, err)

	fetched, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, fetched)

	byNumber, err := svc.GetByNumber(ctx, created.Number)
	require.NoError(t, err)
	assert.Equal(t, created, byNumber)
}

func TestCreateRetriesNumberCollisions(t *testing.T) {
	svc, repo, _ := newService(t, twoModelFixture())
	repo.duplicates = 2

	snap, err := svc.Create(context.Background(), salesIdentity(), CreateInput{
		Customer: newCustomerInput(),
		ModelIDs: []int64{10},
	})
	require.NoError(t, err)
	assert.NotZero(t, snap.ID)

	repo.duplicates = insertAttempts
	_, err = svc.Create(context.Background(), salesIdentity(), CreateInput{
		Customer: newCustomerInput(),
		ModelIDs: []int64{10},
	})
	assert.ErrorIs(t, err, httpx.ErrConflict)
}

func TestCreateSurvivesEnqueueFailure(t *testing.T) {
	svc, repo, enq := newService(t, twoModelFixture())
	enq.err = errors.New("redis down")

	snap, err := svc.Create(context.Background(), salesIdentity(), CreateInput{
		Customer: newCustomerInput(),
		ModelIDs: []int64{10},
	})
	require.NoError(t, err)

	stored, err := repo.Get(context.Background(), snap.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, stored.Status)
	assert.Nil(t, stored.DocumentURL)
}

func TestUpdateStatusTransitions(t *testing.T) {
	svc, _, _ := newService(t, twoModelFixture())
	ctx := context.Background()

	snap, err := svc.Create(ctx, salesIdentity(), CreateInput{
		Customer: newCustomerInput(),
		ModelIDs: []int64{10},
	})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStatus(ctx, snap.ID, StatusSent))
	require.NoError(t, svc.UpdateStatus(ctx, snap.ID, StatusAccepted))
	require.NoError(t, svc.UpdateStatus(ctx, snap.ID, StatusConverted))

	err = svc.UpdateStatus(ctx, snap.ID, StatusDraft)
	assert.ErrorIs(t, err, httpx.ErrConflict)

	err = svc.UpdateStatus(ctx, snap.ID, Status("archived"))
	assert.ErrorIs(t, err, httpx.ErrValidation)

	err = svc.UpdateStatus(ctx, 999, StatusSent)
	assert.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestCreateDeduplicatesSelection(t *testing.T) {
	svc, _, _ := newService(t, twoModelFixture())

	snap, err := svc.Create(context.Background(), salesIdentity(), CreateInput{
		Customer: newCustomerInput(),
		ModelIDs: []int64{11, 11, 10},
	})
	require.NoError(t, err)
	require.Len(t, snap.Models, 2)
	assert.Equal(t, "X2", snap.Models[0].ModelName)
	assert.Equal(t, "X1", snap.Models[1].ModelName)
}
