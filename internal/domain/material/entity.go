package material

import "time"

type MovementType string

const (
	MovementIn  MovementType = "in"
	MovementOut MovementType = "out"
)

// Material is a stock item tracked per site.
type Material struct {
	ID             string
	SiteCode       string
	Name           string
	Unit           string
	QuantityOnHand float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// StockMovement records a single inbound or outbound quantity change.
type StockMovement struct {
	ID         string
	MaterialID string
	Type       MovementType
	Quantity   float64
	Note       *string
	RecordedBy string
	CreatedAt  time.Time
}
