package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/buildform/siteops-backend-go/internal/domain/material"
	"github.com/buildform/siteops-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type materialRepository struct {
	db *database.DB
}

// Create implements material.MaterialRepository.
func (r *materialRepository) Create(ctx context.Context, m material.Material) (material.Material, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO materials (site_code, name, unit, quantity_on_hand)
		VALUES ($1, $2, $3, 0)
		RETURNING id, quantity_on_hand, created_at, updated_at
	`

	err := q.QueryRow(ctx, query, m.SiteCode, m.Name, m.Unit).
		Scan(&m.ID, &m.QuantityOnHand, &m.CreatedAt, &m.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return material.Material{}, material.ErrMaterialExists
		}
		return material.Material{}, fmt.Errorf("failed to create material: %w", err)
	}

	return m, nil
}

// GetByID implements material.MaterialRepository.
func (r *materialRepository) GetByID(ctx context.Context, id string) (material.Material, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, site_code, name, unit, quantity_on_hand, created_at, updated_at
		FROM materials
		WHERE id = $1
	`

	var m material.Material
	err := q.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.SiteCode, &m.Name, &m.Unit, &m.QuantityOnHand, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return material.Material{}, material.ErrMaterialNotFound
		}
		return material.Material{}, fmt.Errorf("failed to get material by ID: %w", err)
	}

	return m, nil
}

// ListBySite implements material.MaterialRepository.
func (r *materialRepository) ListBySite(ctx context.Context, siteCode string) ([]material.Material, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, site_code, name, unit, quantity_on_hand, created_at, updated_at
		FROM materials
		WHERE site_code = $1
		ORDER BY name
	`

	rows, err := q.Query(ctx, query, siteCode)
	if err != nil {
		return nil, fmt.Errorf("failed to query materials: %w", err)
	}
	defer rows.Close()

	var materials []material.Material
	for rows.Next() {
		var m material.Material
		err := rows.Scan(&m.ID, &m.SiteCode, &m.Name, &m.Unit, &m.QuantityOnHand, &m.CreatedAt, &m.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan material: %w", err)
		}
		materials = append(materials, m)
	}

	return materials, nil
}

// RecordMovement implements material.MaterialRepository.
// The quantity adjustment and the movement row commit together; the guard on
// quantity_on_hand keeps outbound movements from overdrawing the stock.
func (r *materialRepository) RecordMovement(ctx context.Context, movement material.StockMovement) (material.StockMovement, error) {
	err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		delta := movement.Quantity
		if movement.Type == material.MovementOut {
			delta = -delta
		}

		updateQuery := `
			UPDATE materials
			SET quantity_on_hand = quantity_on_hand + $2,
			    updated_at = NOW()
			WHERE id = $1
			  AND quantity_on_hand + $2 >= 0
		`
		tag, err := tx.Exec(ctx, updateQuery, movement.MaterialID, delta)
		if err != nil {
			return fmt.Errorf("failed to adjust stock: %w", err)
		}
		if tag.RowsAffected() == 0 {
			var exists bool
			checkQuery := `SELECT EXISTS (SELECT 1 FROM materials WHERE id = $1)`
			if err := tx.QueryRow(ctx, checkQuery, movement.MaterialID).Scan(&exists); err != nil {
				return fmt.Errorf("failed to check material: %w", err)
			}
			if !exists {
				return material.ErrMaterialNotFound
			}
			return material.ErrInsufficientStock
		}

		insertQuery := `
			INSERT INTO stock_movements (material_id, type, quantity, note, recorded_by)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at
		`
		return tx.QueryRow(ctx, insertQuery,
			movement.MaterialID,
			movement.Type,
			movement.Quantity,
			movement.Note,
			movement.RecordedBy,
		).Scan(&movement.ID, &movement.CreatedAt)
	})
	if err != nil {
		return material.StockMovement{}, err
	}

	return movement, nil
}

// ListMovements implements material.MaterialRepository.
func (r *materialRepository) ListMovements(ctx context.Context, materialID string, limit int) ([]material.StockMovement, error) {
	q := GetQuerier(ctx, r.db)

	if limit == 0 {
		limit = 50
	}

	query := `
		SELECT id, material_id, type, quantity, note, recorded_by, created_at
		FROM stock_movements
		WHERE material_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := q.Query(ctx, query, materialID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock movements: %w", err)
	}
	defer rows.Close()

	var movements []material.StockMovement
	for rows.Next() {
		var m material.StockMovement
		err := rows.Scan(&m.ID, &m.MaterialID, &m.Type, &m.Quantity, &m.Note, &m.RecordedBy, &m.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock movement: %w", err)
		}
		movements = append(movements, m)
	}

	return movements, nil
}

func NewMaterialRepository(db *database.DB) material.MaterialRepository {
	return &materialRepository{db: db}
}
