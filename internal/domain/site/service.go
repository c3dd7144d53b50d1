package site

import "context"

type SiteService interface {
	Create(ctx context.Context, req CreateSiteRequest) (SiteResponse, error)
	Get(ctx context.Context, id string) (SiteResponse, error)
	GetByCode(ctx context.Context, code string) (SiteResponse, error)
	Update(ctx context.Context, req UpdateSiteRequest) (SiteResponse, error)
	List(ctx context.Context, status *string) ([]SiteResponse, error)
}
