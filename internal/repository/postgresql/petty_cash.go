package postgresql

import (
	"context"
	"fmt"

	"github.com/buildform/siteops-backend-go/internal/domain/pettycash"
	"github.com/buildform/siteops-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type pettyCashRepository struct {
	db *database.DB
}

// Create implements pettycash.EntryRepository.
// Expense entries re-check the balance inside the transaction so concurrent
// expenses cannot overdraw the site.
func (r *pettyCashRepository) Create(ctx context.Context, entry pettycash.Entry) (pettycash.Entry, error) {
	err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		if entry.Type == pettycash.EntryExpense {
			// Lock the site's existing entries so two expenses cannot both
			// pass the balance check.
			balanceQuery := `
				SELECT COALESCE(SUM(CASE WHEN type = 'top_up' THEN amount ELSE -amount END), 0)
				FROM (
					SELECT type, amount
					FROM petty_cash_entries
					WHERE site_code = $1
					FOR UPDATE
				) e
			`
			var balance int64
			if err := tx.QueryRow(ctx, balanceQuery, entry.SiteCode).Scan(&balance); err != nil {
				return fmt.Errorf("failed to compute petty cash balance: %w", err)
			}
			if balance < entry.Amount {
				return pettycash.ErrInsufficientBalance
			}
		}

		insertQuery := `
			INSERT INTO petty_cash_entries (site_code, type, amount, description, receipt_url, recorded_by)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at
		`
		return tx.QueryRow(ctx, insertQuery,
			entry.SiteCode,
			entry.Type,
			entry.Amount,
			entry.Description,
			entry.ReceiptURL,
			entry.RecordedBy,
		).Scan(&entry.ID, &entry.CreatedAt)
	})
	if err != nil {
		return pettycash.Entry{}, err
	}

	return entry, nil
}

// GetByID implements pettycash.EntryRepository.
func (r *pettyCashRepository) GetByID(ctx context.Context, id string) (pettycash.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, site_code, type, amount, description, receipt_url, recorded_by, created_at
		FROM petty_cash_entries
		WHERE id = $1
	`

	var entry pettycash.Entry
	err := q.QueryRow(ctx, query, id).Scan(
		&entry.ID, &entry.SiteCode, &entry.Type, &entry.Amount,
		&entry.Description, &entry.ReceiptURL, &entry.RecordedBy, &entry.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return pettycash.Entry{}, pettycash.ErrEntryNotFound
		}
		return pettycash.Entry{}, fmt.Errorf("failed to get petty cash entry: %w", err)
	}

	return entry, nil
}

// ListBySite implements pettycash.EntryRepository.
func (r *pettyCashRepository) ListBySite(ctx context.Context, siteCode string, limit int) ([]pettycash.Entry, error) {
	q := GetQuerier(ctx, r.db)

	if limit == 0 {
		limit = 50
	}

	query := `
		SELECT id, site_code, type, amount, description, receipt_url, recorded_by, created_at
		FROM petty_cash_entries
		WHERE site_code = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := q.Query(ctx, query, siteCode, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query petty cash entries: %w", err)
	}
	defer rows.Close()

	var entries []pettycash.Entry
	for rows.Next() {
		var entry pettycash.Entry
		err := rows.Scan(
			&entry.ID, &entry.SiteCode, &entry.Type, &entry.Amount,
			&entry.Description, &entry.ReceiptURL, &entry.RecordedBy, &entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan petty cash entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// SiteBalance implements pettycash.EntryRepository.
func (r *pettyCashRepository) SiteBalance(ctx context.Context, siteCode string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(CASE WHEN type = 'top_up' THEN amount ELSE -amount END), 0)
		FROM petty_cash_entries
		WHERE site_code = $1
	`

	var balance int64
	if err := q.QueryRow(ctx, query, siteCode).Scan(&balance); err != nil {
		return 0, fmt.Errorf("failed to compute petty cash balance: %w", err)
	}

	return balance, nil
}

func NewPettyCashRepository(db *database.DB) pettycash.EntryRepository {
	return &pettyCashRepository{db: db}
}
