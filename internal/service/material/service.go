package material

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/buildform/siteops-backend-go/internal/domain/material"
	"github.com/buildform/siteops-backend-go/internal/domain/site"
	"github.com/go-chi/jwtauth/v5"
)

type MaterialServiceImpl struct {
	materialRepo material.MaterialRepository
	siteRepo     site.SiteRepository
}

func NewMaterialService(materialRepo material.MaterialRepository, siteRepo site.SiteRepository) material.MaterialService {
	return &MaterialServiceImpl{
		materialRepo: materialRepo,
		siteRepo:     siteRepo,
	}
}

// Create implements material.MaterialService.
func (s *MaterialServiceImpl) Create(ctx context.Context, req material.CreateMaterialRequest) (material.MaterialResponse, error) {
	if err := req.Validate(); err != nil {
		return material.MaterialResponse{}, err
	}

	if _, err := s.siteRepo.GetByCode(ctx, req.SiteCode); err != nil {
		if errors.Is(err, site.ErrSiteNotFound) {
			return material.MaterialResponse{}, site.ErrSiteNotFound
		}
		return material.MaterialResponse{}, fmt.Errorf("failed to verify site: %w", err)
	}

	created, err := s.materialRepo.Create(ctx, material.Material{
		SiteCode: req.SiteCode,
		Name:     req.Name,
		Unit:     req.Unit,
	})
	if err != nil {
		if errors.Is(err, material.ErrMaterialExists) {
			return material.MaterialResponse{}, material.ErrMaterialExists
		}
		return material.MaterialResponse{}, fmt.Errorf("failed to create material: %w", err)
	}

	return mapMaterialToResponse(created), nil
}

// Get implements material.MaterialService.
func (s *MaterialServiceImpl) Get(ctx context.Context, id string) (material.MaterialResponse, error) {
	found, err := s.materialRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, material.ErrMaterialNotFound) {
			return material.MaterialResponse{}, material.ErrMaterialNotFound
		}
		return material.MaterialResponse{}, fmt.Errorf("failed to get material: %w", err)
	}
	return mapMaterialToResponse(found), nil
}

// ListBySite implements material.MaterialService.
func (s *MaterialServiceImpl) ListBySite(ctx context.Context, siteCode string) ([]material.MaterialResponse, error) {
	materials, err := s.materialRepo.ListBySite(ctx, siteCode)
	if err != nil {
		return nil, fmt.Errorf("failed to list materials: %w", err)
	}

	responses := make([]material.MaterialResponse, 0, len(materials))
	for _, m := range materials {
		responses = append(responses, mapMaterialToResponse(m))
	}
	return responses, nil
}

// RecordMovement implements material.MaterialService.
func (s *MaterialServiceImpl) RecordMovement(ctx context.Context, req material.RecordMovementRequest) (material.MovementResponse, error) {
	if err := req.Validate(); err != nil {
		return material.MovementResponse{}, err
	}

	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return material.MovementResponse{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return material.MovementResponse{}, fmt.Errorf("user_id claim is missing or invalid")
	}

	movement, err := s.materialRepo.RecordMovement(ctx, material.StockMovement{
		MaterialID: req.MaterialID,
		Type:       material.MovementType(req.Type),
		Quantity:   req.Quantity,
		Note:       req.Note,
		RecordedBy: userID,
	})
	if err != nil {
		switch {
		case errors.Is(err, material.ErrMaterialNotFound):
			return material.MovementResponse{}, material.ErrMaterialNotFound
		case errors.Is(err, material.ErrInsufficientStock):
			return material.MovementResponse{}, material.ErrInsufficientStock
		default:
			return material.MovementResponse{}, fmt.Errorf("failed to record stock movement: %w", err)
		}
	}

	return mapMovementToResponse(movement), nil
}

// ListMovements implements material.MaterialService.
func (s *MaterialServiceImpl) ListMovements(ctx context.Context, materialID string, limit int) ([]material.MovementResponse, error) {
	movements, err := s.materialRepo.ListMovements(ctx, materialID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list stock movements: %w", err)
	}

	responses := make([]material.MovementResponse, 0, len(movements))
	for _, m := range movements {
		responses = append(responses, mapMovementToResponse(m))
	}
	return responses, nil
}

func mapMaterialToResponse(m material.Material) material.MaterialResponse {
	return material.MaterialResponse{
		ID:             m.ID,
		SiteCode:       m.SiteCode,
		Name:           m.Name,
		Unit:           m.Unit,
		QuantityOnHand: m.QuantityOnHand,
		CreatedAt:      m.CreatedAt.Format(time.RFC3339),
	}
}

func mapMovementToResponse(m material.StockMovement) material.MovementResponse {
	return material.MovementResponse{
		ID:         m.ID,
		MaterialID: m.MaterialID,
		Type:       string(m.Type),
		Quantity:   m.Quantity,
		Note:       m.Note,
		RecordedBy: m.RecordedBy,
		CreatedAt:  m.CreatedAt.Format(time.RFC3339),
	}
}
