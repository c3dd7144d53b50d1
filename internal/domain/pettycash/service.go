package pettycash

import "context"

type PettyCashService interface {
	// Record books a top-up or expense. The recorder identity is taken from
	// the authenticated context.
	Record(ctx context.Context, req CreateEntryRequest) (EntryResponse, error)
	Ledger(ctx context.Context, siteCode string, limit int) (LedgerResponse, error)
}
