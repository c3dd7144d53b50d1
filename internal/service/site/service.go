package site

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/buildform/siteops-backend-go/internal/domain/site"
)

type SiteServiceImpl struct {
	siteRepo site.SiteRepository
}

func NewSiteService(siteRepo site.SiteRepository) site.SiteService {
	return &SiteServiceImpl{siteRepo: siteRepo}
}

// Create implements site.SiteService.
func (s *SiteServiceImpl) Create(ctx context.Context, req site.CreateSiteRequest) (site.SiteResponse, error) {
	if err := req.Validate(); err != nil {
		return site.SiteResponse{}, err
	}

	created, err := s.siteRepo.Create(ctx, site.Site{
		Code:                 req.Code,
		Name:                 req.Name,
		Address:              req.Address,
		Latitude:             req.Latitude,
		Longitude:            req.Longitude,
		GeofenceRadiusMeters: req.GeofenceRadiusMeters,
		Status:               site.SiteActive,
	})
	if err != nil {
		if errors.Is(err, site.ErrSiteCodeExists) {
			return site.SiteResponse{}, site.ErrSiteCodeExists
		}
		return site.SiteResponse{}, fmt.Errorf("failed to create site: %w", err)
	}

	return mapSiteToResponse(created), nil
}

// Get implements site.SiteService.
func (s *SiteServiceImpl) Get(ctx context.Context, id string) (site.SiteResponse, error) {
	found, err := s.siteRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, site.ErrSiteNotFound) {
			return site.SiteResponse{}, site.ErrSiteNotFound
		}
		return site.SiteResponse{}, fmt.Errorf("failed to get site: %w", err)
	}
	return mapSiteToResponse(found), nil
}

// GetByCode implements site.SiteService.
func (s *SiteServiceImpl) GetByCode(ctx context.Context, code string) (site.SiteResponse, error) {
	found, err := s.siteRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, site.ErrSiteNotFound) {
			return site.SiteResponse{}, site.ErrSiteNotFound
		}
		return site.SiteResponse{}, fmt.Errorf("failed to get site: %w", err)
	}
	return mapSiteToResponse(found), nil
}

// Update implements site.SiteService.
func (s *SiteServiceImpl) Update(ctx context.Context, req site.UpdateSiteRequest) (site.SiteResponse, error) {
	if err := req.Validate(); err != nil {
		return site.SiteResponse{}, err
	}

	existing, err := s.siteRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, site.ErrSiteNotFound) {
			return site.SiteResponse{}, site.ErrSiteNotFound
		}
		return site.SiteResponse{}, fmt.Errorf("failed to get site: %w", err)
	}

	if req.Name != nil {
		existing.Name = *req.Name
	}
	if req.Address != nil {
		existing.Address = req.Address
	}
	if req.Latitude != nil {
		existing.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		existing.Longitude = req.Longitude
	}
	if req.GeofenceRadiusMeters != nil {
		existing.GeofenceRadiusMeters = req.GeofenceRadiusMeters
	}
	if req.Status != nil {
		existing.Status = site.SiteStatus(*req.Status)
	}

	if err := s.siteRepo.Update(ctx, existing); err != nil {
		return site.SiteResponse{}, fmt.Errorf("failed to update site: %w", err)
	}

	updated, err := s.siteRepo.GetByID(ctx, req.ID)
	if err != nil {
		return site.SiteResponse{}, fmt.Errorf("failed to get updated site: %w", err)
	}
	return mapSiteToResponse(updated), nil
}

// List implements site.SiteService.
func (s *SiteServiceImpl) List(ctx context.Context, status *string) ([]site.SiteResponse, error) {
	var statusFilter *site.SiteStatus
	if status != nil && *status != "" {
		st := site.SiteStatus(*status)
		statusFilter = &st
	}

	sites, err := s.siteRepo.List(ctx, statusFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}

	responses := make([]site.SiteResponse, 0, len(sites))
	for _, found := range sites {
		responses = append(responses, mapSiteToResponse(found))
	}
	return responses, nil
}

func mapSiteToResponse(s site.Site) site.SiteResponse {
	return site.SiteResponse{
		ID:                   s.ID,
		Code:                 s.Code,
		Name:                 s.Name,
		Address:              s.Address,
		Latitude:             s.Latitude,
		Longitude:            s.Longitude,
		GeofenceRadiusMeters: s.GeofenceRadiusMeters,
		Status:               string(s.Status),
		CreatedAt:            s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:            s.UpdatedAt.Format(time.RFC3339),
	}
}
