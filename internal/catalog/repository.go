package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/motoquote/motoquote/internal/platform/httpx"
)

// Wrapping the transport taxonomy lets handlers pass repository errors
// straight to httpx.RespondError.
var (
	ErrNotFound  = fmt.Errorf("catalog record: %w", httpx.ErrNotFound)
	ErrDuplicate = fmt.Errorf("catalog record: %w", httpx.ErrConflict)
)

// Repository is the catalog store consumed by the quotation assembler and the
// catalog CRUD endpoints.
type Repository interface {
	// Branches
	ListBranches(ctx context.Context, activeOnly bool) ([]Branch, error)
	GetBranch(ctx context.Context, id int64) (Branch, error)
	CreateBranch(ctx context.Context, b Branch) (Branch, error)
	UpdateBranch(ctx context.Context, id int64, b Branch) error

	// Headers
	ListHeaders(ctx context.Context) ([]Header, error)
	CreateHeader(ctx context.Context, h Header) (Header, error)
	UpdateHeader(ctx context.Context, id int64, h Header) error
	DeleteHeader(ctx context.Context, id int64) error

	// Models
	GetModel(ctx context.Context, id int64) (Model, error)
	ListModels(ctx context.Context, activeOnly bool) ([]Model, error)
	FindModelsByIDs(ctx context.Context, ids []int64) ([]Model, error)
	FindModelsBySeriesPrefix(ctx context.Context, prefix string) ([]Model, error)
	CreateModel(ctx context.Context, m Model) (Model, error)
	UpdateModel(ctx context.Context, id int64, m Model) error

	// Offers and attachments
	ListOffers(ctx context.Context, activeOnly bool) ([]Offer, error)
	CreateOffer(ctx context.Context, o Offer) (Offer, error)
	UpdateOffer(ctx context.Context, id int64, o Offer) error
	ListAttachments(ctx context.Context) ([]Attachment, error)
	CreateAttachment(ctx context.Context, a Attachment) (Attachment, error)

	// Quotation supplements
	ListFinanceDocuments(ctx context.Context) ([]FinanceDocument, error)
	CreateFinanceDocument(ctx context.Context, d FinanceDocument) (FinanceDocument, error)
	ListTerms(ctx context.Context, activeOnly bool) ([]Term, error)
	CreateTerm(ctx context.Context, t Term) (Term, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository builds the pgx-backed catalog repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// ---- Branches

func (r *repository) ListBranches(ctx context.Context, activeOnly bool) ([]Branch, error) {
	query := `SELECT id, name, address, locality, phone, gstin, is_active, created_at, updated_at
		FROM branches`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var branches []Branch
	for rows.Next() {
		var b Branch
		if err := rows.Scan(&b.ID, &b.Name, &b.Address, &b.Locality, &b.Phone, &b.GSTIN, &b.IsActive, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		branches = append(branches, b)
	}
	return branches, rows.Err()
}

func (r *repository) GetBranch(ctx context.Context, id int64) (Branch, error) {
	var b Branch
	err := r.db.QueryRow(ctx, `SELECT id, name, address, locality, phone, gstin, is_active, created_at, updated_at
		FROM branches WHERE id = $1`, id).
		Scan(&b.ID, &b.Name, &b.Address, &b.Locality, &b.Phone, &b.GSTIN, &b.IsActive, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Branch{}, ErrNotFound
	}
	return b, err
}

func (r *repository) CreateBranch(ctx context.Context, b Branch) (Branch, error) {
	err := r.db.QueryRow(ctx, `INSERT INTO branches (name, address, locality, phone, gstin, is_active)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at, updated_at`,
		b.Name, b.Address, b.Locality, b.Phone, b.GSTIN, b.IsActive).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func (r *repository) UpdateBranch(ctx context.Context, id int64, b Branch) error {
	tag, err := r.db.Exec(ctx, `UPDATE branches SET name = $1, address = $2, locality = $3,
		phone = $4, gstin = $5, is_active = $6, updated_at = NOW() WHERE id = $7`,
		b.Name, b.Address, b.Locality, b.Phone, b.GSTIN, b.IsActive, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ---- Headers

func (r *repository) ListHeaders(ctx context.Context) ([]Header, error) {
	rows, err := r.db.Query(ctx, `SELECT id, category_key, powertrain, header_key, priority, metadata, created_at, updated_at
		FROM headers ORDER BY powertrain, category_key, priority`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var headers []Header
	for rows.Next() {
		var h Header
		var metadata []byte
		if err := rows.Scan(&h.ID, &h.CategoryKey, &h.Powertrain, &h.HeaderKey, &h.Priority, &metadata, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &h.Metadata); err != nil {
				return nil, fmt.Errorf("decode header %d metadata: %w", h.ID, err)
			}
		}
		headers = append(headers, h)
	}
	return headers, rows.Err()
}

func (r *repository) CreateHeader(ctx context.Context, h Header) (Header, error) {
	metadata, err := json.Marshal(h.Metadata)
	if err != nil {
		return Header{}, err
	}
	err = r.db.QueryRow(ctx, `INSERT INTO headers (category_key, powertrain, header_key, priority, metadata)
		VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at, updated_at`,
		h.CategoryKey, h.Powertrain, h.HeaderKey, h.Priority, metadata).
		Scan(&h.ID, &h.CreatedAt, &h.UpdatedAt)
	if isUniqueViolation(err) {
		return Header{}, ErrDuplicate
	}
	return h, err
}

func (r *repository) UpdateHeader(ctx context.Context, id int64, h Header) error {
	metadata, err := json.Marshal(h.Metadata)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, `UPDATE headers SET category_key = $1, powertrain = $2, header_key = $3,
		priority = $4, metadata = $5, updated_at = NOW() WHERE id = $6`,
		h.CategoryKey, h.Powertrain, h.HeaderKey, h.Priority, metadata, id)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) DeleteHeader(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM headers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ---- Models

const modelColumns = `id, name, powertrain, status, prices, created_at, updated_at`

func scanModel(row pgx.Row) (Model, error) {
	var m Model
	var prices []byte
	if err := row.Scan(&m.ID, &m.Name, &m.Powertrain, &m.Status, &prices, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return Model{}, err
	}
	if len(prices) > 0 {
		if err := json.Unmarshal(prices, &m.Prices); err != nil {
			return Model{}, fmt.Errorf("decode model %d prices: %w", m.ID, err)
		}
	}
	return m, nil
}

func (r *repository) collectModels(rows pgx.Rows) ([]Model, error) {
	defer rows.Close()
	var models []Model
	for rows.Next() {
		m, err := scanModel(rows)
		if err != nil {
			return nil, err
		}
		models = append(models, m)
	}
	return models, rows.Err()
}

func (r *repository) GetModel(ctx context.Context, id int64) (Model, error) {
	m, err := scanModel(r.db.QueryRow(ctx, `SELECT `+modelColumns+` FROM models WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Model{}, ErrNotFound
	}
	return m, err
}

func (r *repository) ListModels(ctx context.Context, activeOnly bool) ([]Model, error) {
	query := `SELECT ` + modelColumns + ` FROM models`
	if activeOnly {
		query += ` WHERE status = 'active'`
	}
	query += ` ORDER BY name`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return r.collectModels(rows)
}

func (r *repository) FindModelsByIDs(ctx context.Context, ids []int64) ([]Model, error) {
	rows, err := r.db.Query(ctx, `SELECT `+modelColumns+` FROM models WHERE id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return nil, err
	}
	return r.collectModels(rows)
}

// FindModelsBySeriesPrefix fetches the active models whose name starts with
// the series token. Callers narrow the result to exact series membership; the
// prefix query is only an over-approximation ("X1" also returns "X10").
func (r *repository) FindModelsBySeriesPrefix(ctx context.Context, prefix string) ([]Model, error) {
	rows, err := r.db.Query(ctx, `SELECT `+modelColumns+` FROM models
		WHERE status = 'active' AND name ILIKE $1 || '%' ORDER BY id`, prefix)
	if err != nil {
		return nil, err
	}
	return r.collectModels(rows)
}

func (r *repository) CreateModel(ctx context.Context, m Model) (Model, error) {
	prices, err := json.Marshal(m.Prices)
	if err != nil {
		return Model{}, err
	}
	err = r.db.QueryRow(ctx, `INSERT INTO models (name, powertrain, status, prices)
		VALUES ($1, $2, $3, $4) RETURNING id, created_at, updated_at`,
		m.Name, m.Powertrain, m.Status, prices).
		Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if isUniqueViolation(err) {
		return Model{}, ErrDuplicate
	}
	return m, err
}

func (r *repository) UpdateModel(ctx context.Context, id int64, m Model) error {
	prices, err := json.Marshal(m.Prices)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, `UPDATE models SET name = $1, powertrain = $2, status = $3,
		prices = $4, updated_at = NOW() WHERE id = $5`,
		m.Name, m.Powertrain, m.Status, prices, id)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ---- Offers

func (r *repository) ListOffers(ctx context.Context, activeOnly bool) ([]Offer, error) {
	query := `SELECT id, title, description, image_url, link, is_active, apply_to_all_models, model_ids, created_at, updated_at
		FROM offers`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offers []Offer
	for rows.Next() {
		var o Offer
		if err := rows.Scan(&o.ID, &o.Title, &o.Description, &o.ImageURL, &o.Link, &o.IsActive, &o.ApplyToAllModels, &o.ModelIDs, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		offers = append(offers, o)
	}
	return offers, rows.Err()
}

func (r *repository) CreateOffer(ctx context.Context, o Offer) (Offer, error) {
	err := r.db.QueryRow(ctx, `INSERT INTO offers (title, description, image_url, link, is_active, apply_to_all_models, model_ids)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at, updated_at`,
		o.Title, o.Description, o.ImageURL, o.Link, o.IsActive, o.ApplyToAllModels, o.ModelIDs).
		Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

func (r *repository) UpdateOffer(ctx context.Context, id int64, o Offer) error {
	tag, err := r.db.Exec(ctx, `UPDATE offers SET title = $1, description = $2, image_url = $3,
		link = $4, is_active = $5, apply_to_all_models = $6, model_ids = $7, updated_at = NOW() WHERE id = $8`,
		o.Title, o.Description, o.ImageURL, o.Link, o.IsActive, o.ApplyToAllModels, o.ModelIDs, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ---- Attachments

func (r *repository) ListAttachments(ctx context.Context) ([]Attachment, error) {
	rows, err := r.db.Query(ctx, `SELECT id, title, description, items, apply_to_all_models, model_ids, created_by, created_at, updated_at
		FROM attachments ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attachments []Attachment
	for rows.Next() {
		var a Attachment
		var items []byte
		if err := rows.Scan(&a.ID, &a.Title, &a.Description, &items, &a.ApplyToAllModels, &a.ModelIDs, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		if len(items) > 0 {
			if err := json.Unmarshal(items, &a.Items); err != nil {
				return nil, fmt.Errorf("decode attachment %d items: %w", a.ID, err)
			}
		}
		attachments = append(attachments, a)
	}
	return attachments, rows.Err()
}

func (r *repository) CreateAttachment(ctx context.Context, a Attachment) (Attachment, error) {
	items, err := json.Marshal(a.Items)
	if err != nil {
		return Attachment{}, err
	}
	err = r.db.QueryRow(ctx, `INSERT INTO attachments (title, description, items, apply_to_all_models, model_ids, created_by)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at, updated_at`,
		a.Title, a.Description, items, a.ApplyToAllModels, a.ModelIDs, a.CreatedBy).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// ---- Finance documents and terms

func (r *repository) ListFinanceDocuments(ctx context.Context) ([]FinanceDocument, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, description, created_at FROM finance_documents ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []FinanceDocument
	for rows.Next() {
		var d FinanceDocument
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.CreatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (r *repository) CreateFinanceDocument(ctx context.Context, d FinanceDocument) (FinanceDocument, error) {
	err := r.db.QueryRow(ctx, `INSERT INTO finance_documents (name, description)
		VALUES ($1, $2) RETURNING id, created_at`, d.Name, d.Description).
		Scan(&d.ID, &d.CreatedAt)
	return d, err
}

func (r *repository) ListTerms(ctx context.Context, activeOnly bool) ([]Term, error) {
	query := `SELECT id, content, priority, is_active, created_at FROM terms`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY priority, id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var terms []Term
	for rows.Next() {
		var t Term
		if err := rows.Scan(&t.ID, &t.Content, &t.Priority, &t.IsActive, &t.CreatedAt); err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}
	return terms, rows.Err()
}

func (r *repository) CreateTerm(ctx context.Context, t Term) (Term, error) {
	err := r.db.QueryRow(ctx, `INSERT INTO terms (content, priority, is_active)
		VALUES ($1, $2, $3) RETURNING id, created_at`, t.Content, t.Priority, t.IsActive).
		Scan(&t.ID, &t.CreatedAt)
	return t, err
}
