package voucher

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates the voucher does not exist.
var ErrNotFound = errors.New("voucher: not found")

// ErrDocumentAttached indicates the voucher already carries an exported
// document URL. The URL is write-once.
var ErrDocumentAttached = errors.New("voucher: document url already attached")

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateVoucher inserts a voucher and its rows in one transaction.
func (r *Repository) CreateVoucher(ctx context.Context, v Voucher) (*Voucher, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return nil, fmt.Errorf("voucher: begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	err = tx.QueryRow(ctx, `INSERT INTO vouchers (customer_id, type, voucher_date, total_net, total_kwd, created_at)
VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		v.CustomerID, v.Type, v.Date, v.TotalNet, v.TotalKWD, v.CreatedAt).Scan(&v.ID)
	if err != nil {
		return nil, fmt.Errorf("voucher: insert voucher: %w", err)
	}

	for i := range v.Rows {
		row := &v.Rows[i]
		row.VoucherID = v.ID
		err = tx.QueryRow(ctx, `INSERT INTO voucher_rows (voucher_id, description, weight, purity, making_rate, discount_pct, net_weight, after_discount, amount)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
			row.VoucherID, row.Description, row.Weight, row.Purity, row.MakingRate, row.DiscountPct, row.NetWeight, row.AfterDiscount, row.Amount).Scan(&row.ID)
		if err != nil {
			return nil, fmt.Errorf("voucher: insert row: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("voucher: commit: %w", err)
	}
	return &v, nil
}

// GetVoucher returns a voucher with its rows.
func (r *Repository) GetVoucher(ctx context.Context, id int64) (*Voucher, error) {
	var v Voucher
	var docURL *string
	err := r.pool.QueryRow(ctx, `SELECT id, customer_id, type, voucher_date, total_net, total_kwd, document_url, created_at FROM vouchers WHERE id = $1`, id).
		Scan(&v.ID, &v.CustomerID, &v.Type, &v.Date, &v.TotalNet, &v.TotalKWD, &docURL, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("voucher: get: %w", err)
	}
	if docURL != nil {
		v.DocumentURL = *docURL
	}

	rows, err := r.pool.Query(ctx, `SELECT id, voucher_id, description, weight, purity, making_rate, discount_pct, net_weight, after_discount, amount FROM voucher_rows WHERE voucher_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("voucher: rows: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var row VoucherRow
		if err := rows.Scan(&row.ID, &row.VoucherID, &row.Description, &row.Weight, &row.Purity, &row.MakingRate, &row.DiscountPct, &row.NetWeight, &row.AfterDiscount, &row.Amount); err != nil {
			return nil, err
		}
		v.Rows = append(v.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &v, nil
}

// ListByCustomer returns a customer's vouchers ordered by date then id.
func (r *Repository) ListByCustomer(ctx context.Context, customerID int64) ([]Voucher, error) {
	return r.list(ctx, `WHERE v.customer_id = $1`, customerID)
}

// ListAll returns every voucher ordered by date then id.
func (r *Repository) ListAll(ctx context.Context) ([]Voucher, error) {
	return r.list(ctx, ``)
}

func (r *Repository) list(ctx context.Context, where string, args ...any) ([]Voucher, error) {
	query := `SELECT v.id, v.customer_id, v.type, v.voucher_date, v.total_net, v.total_kwd, v.document_url, v.created_at FROM vouchers v ` + where + ` ORDER BY v.voucher_date, v.id`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("voucher: list: %w", err)
	}
	defer rows.Close()

	var vouchers []Voucher
	index := make(map[int64]int)
	for rows.Next() {
		var v Voucher
		var docURL *string
		if err := rows.Scan(&v.ID, &v.CustomerID, &v.Type, &v.Date, &v.TotalNet, &v.TotalKWD, &docURL, &v.CreatedAt); err != nil {
			return nil, err
		}
		if docURL != nil {
			v.DocumentURL = *docURL
		}
		index[v.ID] = len(vouchers)
		vouchers = append(vouchers, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(vouchers) == 0 {
		return vouchers, nil
	}

	ids := make([]int64, 0, len(vouchers))
	for i := range vouchers {
		ids = append(ids, vouchers[i].ID)
	}
	rowRows, err := r.pool.Query(ctx, `SELECT id, voucher_id, description, weight, purity, making_rate, discount_pct, net_weight, after_discount, amount FROM voucher_rows WHERE voucher_id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return nil, fmt.Errorf("voucher: list rows: %w", err)
	}
	defer rowRows.Close()
	for rowRows.Next() {
		var row VoucherRow
		if err := rowRows.Scan(&row.ID, &row.VoucherID, &row.Description, &row.Weight, &row.Purity, &row.MakingRate, &row.DiscountPct, &row.NetWeight, &row.AfterDiscount, &row.Amount); err != nil {
			return nil, err
		}
		if pos, ok := index[row.VoucherID]; ok {
			vouchers[pos].Rows = append(vouchers[pos].Rows, row)
		}
	}
	if err := rowRows.Err(); err != nil {
		return nil, err
	}
	return vouchers, nil
}

// AttachDocumentURL stores the exported document URL. The URL is written
// once; a second attach attempt is rejected.
func (r *Repository) AttachDocumentURL(ctx context.Context, voucherID int64, url string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE vouchers SET document_url = $2 WHERE id = $1 AND document_url IS NULL`, voucherID, url)
	if err != nil {
		return fmt.Errorf("voucher: attach document url: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM vouchers WHERE id = $1)`, voucherID).Scan(&exists); err != nil {
			return fmt.Errorf("voucher: attach document url: %w", err)
		}
		if !exists {
			return ErrNotFound
		}
		return ErrDocumentAttached
	}
	return nil
}
