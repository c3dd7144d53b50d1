package site

import "context"

type SiteRepository interface {
	Create(ctx context.Context, s Site) (Site, error)
	GetByID(ctx context.Context, id string) (Site, error)
	// GetByCode resolves a site by its short code, e.g. "JKT-01".
	GetByCode(ctx context.Context, code string) (Site, error)
	Update(ctx context.Context, s Site) error
	List(ctx context.Context, status *SiteStatus) ([]Site, error)
}
