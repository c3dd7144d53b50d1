package pettycash

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/buildform/siteops-backend-go/internal/domain/pettycash"
	"github.com/buildform/siteops-backend-go/internal/domain/site"
	"github.com/go-chi/jwtauth/v5"
)

type PettyCashServiceImpl struct {
	entryRepo pettycash.EntryRepository
	siteRepo  site.SiteRepository
}

func NewPettyCashService(entryRepo pettycash.EntryRepository, siteRepo site.SiteRepository) pettycash.PettyCashService {
	return &PettyCashServiceImpl{
		entryRepo: entryRepo,
		siteRepo:  siteRepo,
	}
}

// Record implements pettycash.PettyCashService.
func (s *PettyCashServiceImpl) Record(ctx context.Context, req pettycash.CreateEntryRequest) (pettycash.EntryResponse, error) {
	if err := req.Validate(); err != nil {
		return pettycash.EntryResponse{}, err
	}

	if _, err := s.siteRepo.GetByCode(ctx, req.SiteCode); err != nil {
		if errors.Is(err, site.ErrSiteNotFound) {
			return pettycash.EntryResponse{}, site.ErrSiteNotFound
		}
		return pettycash.EntryResponse{}, fmt.Errorf("failed to verify site: %w", err)
	}

	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return pettycash.EntryResponse{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return pettycash.EntryResponse{}, fmt.Errorf("user_id claim is missing or invalid")
	}

	entry, err := s.entryRepo.Create(ctx, pettycash.Entry{
		SiteCode:    req.SiteCode,
		Type:        pettycash.EntryType(req.Type),
		Amount:      req.Amount,
		Description: req.Description,
		ReceiptURL:  req.ReceiptURL,
		RecordedBy:  userID,
	})
	if err != nil {
		if errors.Is(err, pettycash.ErrInsufficientBalance) {
			return pettycash.EntryResponse{}, pettycash.ErrInsufficientBalance
		}
		return pettycash.EntryResponse{}, fmt.Errorf("failed to record petty cash entry: %w", err)
	}

	return mapEntryToResponse(entry), nil
}

// Ledger implements pettycash.PettyCashService.
func (s *PettyCashServiceImpl) Ledger(ctx context.Context, siteCode string, limit int) (pettycash.LedgerResponse, error) {
	entries, err := s.entryRepo.ListBySite(ctx, siteCode, limit)
	if err != nil {
		return pettycash.LedgerResponse{}, fmt.Errorf("failed to list petty cash entries: %w", err)
	}

	balance, err := s.entryRepo.SiteBalance(ctx, siteCode)
	if err != nil {
		return pettycash.LedgerResponse{}, fmt.Errorf("failed to compute petty cash balance: %w", err)
	}

	responses := make([]pettycash.EntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, mapEntryToResponse(entry))
	}

	return pettycash.LedgerResponse{
		SiteCode: siteCode,
		Balance:  balance,
		Entries:  responses,
	}, nil
}

func mapEntryToResponse(entry pettycash.Entry) pettycash.EntryResponse {
	return pettycash.EntryResponse{
		ID:          entry.ID,
		SiteCode:    entry.SiteCode,
		Type:        string(entry.Type),
		Amount:      entry.Amount,
		Description: entry.Description,
		ReceiptURL:  entry.ReceiptURL,
		RecordedBy:  entry.RecordedBy,
		CreatedAt:   entry.CreatedAt.Format(time.RFC3339),
	}
}
