package customer

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates the customer does not exist.
var ErrNotFound = errors.New("customer: not found")

// ErrDuplicateAccountNo indicates the account number is already taken.
var ErrDuplicateAccountNo = errors.New("customer: account number already exists")

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a customer record.
func (r *Repository) Create(ctx context.Context, c Customer) (*Customer, error) {
	err := r.pool.QueryRow(ctx, `INSERT INTO customers (account_no, name, phone, civil_id, created_at)
VALUES ($1, $2, $3, $4, $5) RETURNING id`, c.AccountNo, c.Name, c.Phone, c.CivilID, c.CreatedAt).Scan(&c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateAccountNo
		}
		return nil, fmt.Errorf("customer: insert: %w", err)
	}
	return &c, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Get returns a customer by id.
func (r *Repository) Get(ctx context.Context, id int64) (*Customer, error) {
	var c Customer
	err := r.pool.QueryRow(ctx, `SELECT id, account_no, name, phone, civil_id, created_at FROM customers WHERE id = $1`, id).
		Scan(&c.ID, &c.AccountNo, &c.Name, &c.Phone, &c.CivilID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("customer: get: %w", err)
	}
	return &c, nil
}

// GetByAccountNo returns a customer by the human-facing account number.
func (r *Repository) GetByAccountNo(ctx context.Context, accountNo string) (*Customer, error) {
	var c Customer
	err := r.pool.QueryRow(ctx, `SELECT id, account_no, name, phone, civil_id, created_at FROM customers WHERE account_no = $1`, accountNo).
		Scan(&c.ID, &c.AccountNo, &c.Name, &c.Phone, &c.CivilID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("customer: get by account no: %w", err)
	}
	return &c, nil
}

// All returns every customer ordered by account number, for ledger and
// balance aggregation.
func (r *Repository) All(ctx context.Context) ([]Customer, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, account_no, name, phone, civil_id, created_at FROM customers ORDER BY account_no`)
	if err != nil {
		return nil, fmt.Errorf("customer: all: %w", err)
	}
	defer rows.Close()
	var customers []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.AccountNo, &c.Name, &c.Phone, &c.CivilID, &c.CreatedAt); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return customers, nil
}

// Exists reports whether a customer id is known.
func (r *Repository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM customers WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("customer: exists: %w", err)
	}
	return exists, nil
}

// List returns customers matching the search text, newest first.
func (r *Repository) List(ctx context.Context, search string, limit, offset int) ([]Customer, int, error) {
	where := ""
	args := []any{}
	if search != "" {
		where = ` WHERE account_no ILIKE $1 OR name ILIKE $1 OR phone ILIKE $1`
		args = append(args, "%"+search+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM customers`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("customer: count: %w", err)
	}

	query := `SELECT id, account_no, name, phone, civil_id, created_at FROM customers` + where +
		fmt.Sprintf(` ORDER BY id DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("customer: list: %w", err)
	}
	defer rows.Close()
	var customers []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.AccountNo, &c.Name, &c.Phone, &c.CivilID, &c.CreatedAt); err != nil {
			return nil, 0, err
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}
