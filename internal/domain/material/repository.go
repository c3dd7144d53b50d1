package material

import "context"

type MaterialRepository interface {
	Create(ctx context.Context, m Material) (Material, error)
	GetByID(ctx context.Context, id string) (Material, error)
	ListBySite(ctx context.Context, siteCode string) ([]Material, error)

	// RecordMovement inserts the movement and adjusts quantity_on_hand in the
	// same transaction. Outbound movements that would drive the quantity below
	// zero return ErrInsufficientStock.
	RecordMovement(ctx context.Context, movement StockMovement) (StockMovement, error)
	ListMovements(ctx context.Context, materialID string, limit int) ([]StockMovement, error)
}
