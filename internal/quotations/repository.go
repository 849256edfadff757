package quotations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/motoquote/motoquote/internal/platform/db"
	"github.com/motoquote/motoquote/internal/shared"
)

// ErrDuplicateNumber signals a quotation-number collision on insert. The
// service regenerates the number and retries.
var ErrDuplicateNumber = errors.New("quotations: duplicate number")

// ListFilter narrows quotation listings.
type ListFilter struct {
	BranchID int64
	Status   Status
	Page     int
	PerPage  int
}

// Repository persists quotation snapshots. The snapshot payload is written
// once; only status and document URL are updated afterwards.
type Repository interface {
	Insert(ctx context.Context, s *Snapshot) error
	Get(ctx context.Context, id int64) (Snapshot, error)
	GetByNumber(ctx context.Context, number string) (Snapshot, error)
	List(ctx context.Context, f ListFilter) ([]Snapshot, int, error)
	UpdateDocumentURL(ctx context.Context, id int64, url string) error
	UpdateStatus(ctx context.Context, id int64, status Status) error
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository builds the pgx-backed quotation repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *repository) Insert(ctx context.Context, s *Snapshot) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("quotations: encode snapshot: %w", err)
	}
	err = r.db.QueryRow(ctx, `
		INSERT INTO quotations (number, status, branch_id, customer_id, created_by, snapshot)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		s.Number, s.Status, s.Branch.ID, s.Customer.ID, s.CreatedBy.UserID, payload,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateNumber
	}
	return err
}

// scan rebuilds a snapshot from a row. The mutable columns (status, document
// URL, timestamps) override whatever the frozen payload carried at insert
// time.
func scanSnapshot(row pgx.Row) (Snapshot, error) {
	var (
		s       Snapshot
		payload []byte
		docURL  *string
		status  Status
	)
	var id int64
	err := row.Scan(&id, &status, &docURL, &payload, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Snapshot{}, shared.ErrNotFound
	}
	if err != nil {
		return Snapshot{}, err
	}
	createdAt, updatedAt := s.CreatedAt, s.UpdatedAt
	if err := json.Unmarshal(payload, &s); err != nil {
		return Snapshot{}, fmt.Errorf("quotations: decode snapshot: %w", err)
	}
	s.ID = id
	s.Status = status
	s.DocumentURL = docURL
	s.CreatedAt = createdAt
	s.UpdatedAt = updatedAt
	return s, nil
}

const snapshotColumns = `id, status, document_url, snapshot, created_at, updated_at`

func (r *repository) Get(ctx context.Context, id int64) (Snapshot, error) {
	return scanSnapshot(r.db.QueryRow(ctx,
		`SELECT `+snapshotColumns+` FROM quotations WHERE id = $1`, id))
}

func (r *repository) GetByNumber(ctx context.Context, number string) (Snapshot, error) {
	return scanSnapshot(r.db.QueryRow(ctx,
		`SELECT `+snapshotColumns+` FROM quotations WHERE number = $1`, number))
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]Snapshot, int, error) {
	if f.PerPage <= 0 || f.PerPage > 100 {
		f.PerPage = 20
	}
	if f.Page <= 0 {
		f.Page = 1
	}

	where := ` WHERE 1=1`
	args := []any{}
	if f.BranchID > 0 {
		args = append(args, f.BranchID)
		where += fmt.Sprintf(` AND branch_id = $%d`, len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where += fmt.Sprintf(` AND status = $%d`, len(args))
	}

	// Count and page read inside one transaction so the total matches the
	// rows returned.
	var (
		total int
		out   []Snapshot
	)
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `SELECT count(*) FROM quotations`+where, args...).Scan(&total); err != nil {
			return err
		}

		args = append(args, f.PerPage, (f.Page-1)*f.PerPage)
		rows, err := tx.Query(ctx,
			`SELECT `+snapshotColumns+` FROM quotations`+where+
				fmt.Sprintf(` ORDER BY id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args)),
			args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			s, err := scanSnapshot(rows)
			if err != nil {
				return err
			}
			out = append(out, s)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *repository) UpdateDocumentURL(ctx context.Context, id int64, url string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE quotations SET document_url = $2, updated_at = now() WHERE id = $1`, id, url)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE quotations SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
