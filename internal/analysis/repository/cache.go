// Package repository provides the Postgres-backed analysis cache store.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	analysisdomain "domainintel_backend/internal/analysis/domain"
	"domainintel_backend/internal/providers/company"
	"domainintel_backend/internal/providers/seo"
	"domainintel_backend/internal/providers/tech"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// CacheRepository persists merged analysis results keyed by domain.
type CacheRepository struct {
	pool *pgxpool.Pool
}

// NewCache creates a new cache repository.
func NewCache(pool *pgxpool.Pool) *CacheRepository {
	return &CacheRepository{pool: pool}
}

// Get returns the cache entry for a domain, or (nil, nil) when no row exists
// or the stored row has expired. Expired rows stay in place until the next
// upsert overwrites them; the read simply refuses to see them.
func (r *CacheRepository) Get(ctx context.Context, domain string) (*analysisdomain.CacheEntry, error) {
	var (
		entry       analysisdomain.CacheEntry
		companyJSON []byte
		seoJSON     []byte
		techJSON    []byte
		cost        decimal.Decimal
	)

	err := r.pool.QueryRow(ctx, `
		SELECT domain, company_data, seo_data, tech_data, data_quality_score,
		       total_api_cost, sources_complete, sources_failed,
		       expires_at, created_at, updated_at
		FROM domain_analysis_cache
		WHERE domain = $1 AND expires_at > now()
	`, domain).Scan(
		&entry.Domain, &companyJSON, &seoJSON, &techJSON, &entry.DataQualityScore,
		&cost, &entry.SourcesComplete, &entry.SourcesFailed,
		&entry.ExpiresAt, &entry.CreatedAt, &entry.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	entry.TotalAPICost = cost
	if companyJSON != nil {
		entry.Company = &company.Data{}
		if err := json.Unmarshal(companyJSON, entry.Company); err != nil {
			return nil, err
		}
	}
	if seoJSON != nil {
		entry.SEO = &seo.Data{}
		if err := json.Unmarshal(seoJSON, entry.SEO); err != nil {
			return nil, err
		}
	}
	if techJSON != nil {
		entry.Tech = &tech.Data{}
		if err := json.Unmarshal(techJSON, entry.Tech); err != nil {
			return nil, err
		}
	}

	return &entry, nil
}

// Upsert writes the entry, overwriting any prior row for the same domain.
func (r *CacheRepository) Upsert(ctx context.Context, entry *analysisdomain.CacheEntry) error {
	var companyJSON, seoJSON, techJSON []byte
	var err error

	// Absent provider blobs persist as SQL NULL, not the JSON literal "null".
	if entry.Company != nil {
		if companyJSON, err = json.Marshal(entry.Company); err != nil {
			return err
		}
	}
	if entry.SEO != nil {
		if seoJSON, err = json.Marshal(entry.SEO); err != nil {
			return err
		}
	}
	if entry.Tech != nil {
		if techJSON, err = json.Marshal(entry.Tech); err != nil {
			return err
		}
	}

	now := time.Now().UTC()
	_, err = r.pool.Exec(ctx, `
		INSERT INTO domain_analysis_cache (
			domain, company_data, seo_data, tech_data, data_quality_score,
			total_api_cost, sources_complete, sources_failed, expires_at,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		ON CONFLICT (domain) DO UPDATE SET
			company_data = EXCLUDED.company_data,
			seo_data = EXCLUDED.seo_data,
			tech_data = EXCLUDED.tech_data,
			data_quality_score = EXCLUDED.data_quality_score,
			total_api_cost = EXCLUDED.total_api_cost,
			sources_complete = EXCLUDED.sources_complete,
			sources_failed = EXCLUDED.sources_failed,
			expires_at = EXCLUDED.expires_at,
			updated_at = EXCLUDED.updated_at
	`, entry.Domain, companyJSON, seoJSON, techJSON, entry.DataQualityScore,
		entry.TotalAPICost, entry.SourcesComplete, entry.SourcesFailed,
		entry.ExpiresAt, now,
	)
	return err
}
