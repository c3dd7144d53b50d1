package pettycash

import "context"

type EntryRepository interface {
	// Create inserts the entry. Expense entries that would drive the site
	// balance negative return ErrInsufficientBalance.
	Create(ctx context.Context, entry Entry) (Entry, error)
	GetByID(ctx context.Context, id string) (Entry, error)
	ListBySite(ctx context.Context, siteCode string, limit int) ([]Entry, error)
	SiteBalance(ctx context.Context, siteCode string) (int64, error)
}
