package material

import "context"

type MaterialService interface {
	Create(ctx context.Context, req CreateMaterialRequest) (MaterialResponse, error)
	Get(ctx context.Context, id string) (MaterialResponse, error)
	ListBySite(ctx context.Context, siteCode string) ([]MaterialResponse, error)

	// RecordMovement books an inbound or outbound stock change. The recorder
	// identity is taken from the authenticated context.
	RecordMovement(ctx context.Context, req RecordMovementRequest) (MovementResponse, error)
	ListMovements(ctx context.Context, materialID string, limit int) ([]MovementResponse, error)
}
