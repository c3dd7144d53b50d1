package pettycash

import "time"

type EntryType string

const (
	EntryTopUp   EntryType = "top_up"
	EntryExpense EntryType = "expense"
)

// Entry is one line in a site's petty cash ledger. Amounts are stored in the
// smallest currency unit to avoid float drift.
type Entry struct {
	ID          string
	SiteCode    string
	Type        EntryType
	Amount      int64
	Description string
	ReceiptURL  *string
	RecordedBy  string
	CreatedAt   time.Time
}
