package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/buildform/siteops-backend-go/internal/domain/site"
	"github.com/buildform/siteops-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const siteColumns = `
	id, code, name, address, latitude, longitude, geofence_radius_meters,
	status, created_at, updated_at`

type siteRepository struct {
	db *database.DB
}

func scanSite(row pgx.Row) (site.Site, error) {
	var s site.Site
	err := row.Scan(
		&s.ID, &s.Code, &s.Name, &s.Address, &s.Latitude, &s.Longitude, &s.GeofenceRadiusMeters,
		&s.Status, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// Create implements site.SiteRepository.
func (r *siteRepository) Create(ctx context.Context, s site.Site) (site.Site, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO sites (code, name, address, latitude, longitude, geofence_radius_meters, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		s.Code,
		s.Name,
		s.Address,
		s.Latitude,
		s.Longitude,
		s.GeofenceRadiusMeters,
		s.Status,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return site.Site{}, site.ErrSiteCodeExists
		}
		return site.Site{}, fmt.Errorf("failed to create site: %w", err)
	}

	return s, nil
}

// GetByID implements site.SiteRepository.
func (r *siteRepository) GetByID(ctx context.Context, id string) (site.Site, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + siteColumns + ` FROM sites WHERE id = $1`

	s, err := scanSite(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return site.Site{}, site.ErrSiteNotFound
		}
		return site.Site{}, fmt.Errorf("failed to get site by ID: %w", err)
	}

	return s, nil
}

// GetByCode implements site.SiteRepository.
func (r *siteRepository) GetByCode(ctx context.Context, code string) (site.Site, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + siteColumns + ` FROM sites WHERE code = $1`

	s, err := scanSite(q.QueryRow(ctx, query, code))
	if err != nil {
		if err == pgx.ErrNoRows {
			return site.Site{}, site.ErrSiteNotFound
		}
		return site.Site{}, fmt.Errorf("failed to get site by code: %w", err)
	}

	return s, nil
}

// Update implements site.SiteRepository.
func (r *siteRepository) Update(ctx context.Context, s site.Site) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE sites
		SET name = $2,
		    address = $3,
		    latitude = $4,
		    longitude = $5,
		    geofence_radius_meters = $6,
		    status = $7,
		    updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		s.ID,
		s.Name,
		s.Address,
		s.Latitude,
		s.Longitude,
		s.GeofenceRadiusMeters,
		s.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to update site: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return site.ErrSiteNotFound
	}

	return nil
}

// List implements site.SiteRepository.
func (r *siteRepository) List(ctx context.Context, status *site.SiteStatus) ([]site.Site, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + siteColumns + ` FROM sites`
	args := []interface{}{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY code`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sites: %w", err)
	}
	defer rows.Close()

	var sites []site.Site
	for rows.Next() {
		s, err := scanSite(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan site: %w", err)
		}
		sites = append(sites, s)
	}

	return sites, nil
}

func NewSiteRepository(db *database.DB) site.SiteRepository {
	return &siteRepository{db: db}
}
