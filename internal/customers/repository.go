package customers

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/motoquote/motoquote/internal/shared"
)

// Repository persists customers.
type Repository interface {
	Get(ctx context.Context, id int64) (Customer, error)
	List(ctx context.Context, limit, offset int) ([]Customer, error)
	Create(ctx context.Context, in Input) (Customer, error)
	Update(ctx context.Context, id int64, in Input) error
	// FindByPhone locates an existing customer by primary phone. Used to
	// avoid duplicate records when a walk-in customer returns.
	FindByPhone(ctx context.Context, phone string) (Customer, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository builds the pgx-backed customer repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const customerColumns = `id, full_name, address, locality, primary_phone, secondary_phone, created_at, updated_at`

func scanCustomer(row pgx.Row) (Customer, error) {
	var c Customer
	err := row.Scan(&c.ID, &c.FullName, &c.Address, &c.Locality, &c.PrimaryPhone, &c.SecondaryPhone, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Customer{}, shared.ErrNotFound
	}
	if err != nil {
		return Customer{}, err
	}
	return c, nil
}

func (r *repository) Get(ctx context.Context, id int64) (Customer, error) {
	return scanCustomer(r.db.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id))
}

func (r *repository) FindByPhone(ctx context.Context, phone string) (Customer, error) {
	return scanCustomer(r.db.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE primary_phone = $1 ORDER BY id LIMIT 1`, phone))
}

func (r *repository) List(ctx context.Context, limit, offset int) ([]Customer, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+customerColumns+` FROM customers ORDER BY id DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *repository) Create(ctx context.Context, in Input) (Customer, error) {
	return scanCustomer(r.db.QueryRow(ctx, `
		INSERT INTO customers (full_name, address, locality, primary_phone, secondary_phone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+customerColumns,
		in.FullName, in.Address, in.Locality, in.PrimaryPhone, in.SecondaryPhone))
}

func (r *repository) Update(ctx context.Context, id int64, in Input) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE customers
		SET full_name = $2, address = $3, locality = $4, primary_phone = $5, secondary_phone = $6, updated_at = now()
		WHERE id = $1`,
		id, in.FullName, in.Address, in.Locality, in.PrimaryPhone, in.SecondaryPhone)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
