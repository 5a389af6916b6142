// Package ports defines the interfaces the analysis orchestrator depends on.
// Providers and stores implement these; tests substitute fakes.
package ports

import (
	"context"

	analysisdomain "domainintel_backend/internal/analysis/domain"
	"domainintel_backend/internal/opportunities/detector"
	"domainintel_backend/internal/providers/company"
	"domainintel_backend/internal/providers/seo"
	"domainintel_backend/internal/providers/tech"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CompanyProvider looks up firmographic data for a bare domain.
// A (nil, nil) return is a valid "no match" result.
type CompanyProvider interface {
	Lookup(ctx context.Context, domain string) (*company.Data, error)
}

// SEOProvider fetches merged SEO metrics for a domain. The decimal return is
// the billed cost of all sub-calls that completed, reported even on failure.
type SEOProvider interface {
	Analyze(ctx context.Context, domain string, locationCode int) (*seo.Data, decimal.Decimal, error)
}

// TechProvider detects the technology stack of a fully-qualified URL.
type TechProvider interface {
	Detect(ctx context.Context, siteURL string) (*tech.Data, error)
}

// CacheStore maps a normalized domain to its most recent merged analysis.
// Get returns (nil, nil) both when no row exists and when the stored row has
// expired; the staleness check is part of the read. Upsert overwrites any
// prior entry for the same domain.
type CacheStore interface {
	Get(ctx context.Context, domain string) (*analysisdomain.CacheEntry, error)
	Upsert(ctx context.Context, entry *analysisdomain.CacheEntry) error
}

// OpportunityWriter persists detected opportunities for a client account.
// Inserts are append-only: re-analysis adds rows, it never replaces them.
type OpportunityWriter interface {
	InsertMany(ctx context.Context, clientID uuid.UUID, opportunities []detector.Opportunity) (int, error)
}
