// Package domain holds the core types of the domain analysis bounded context.
package domain

import (
	"strings"
	"time"

	"domainintel_backend/internal/providers/company"
	"domainintel_backend/internal/providers/seo"
	"domainintel_backend/internal/providers/tech"

	"github.com/shopspring/decimal"
)

// Provider slot names as recorded in sourcesComplete / sourcesFailed.
const (
	SourceCompany = "company"
	SourceSEO     = "seo"
	SourceTech    = "technology"
)

// SourceStatus is the three-state outcome of one provider slot. "Not
// configured" is deliberately distinct from "failed": quality scoring and
// failure reporting both depend on the difference.
type SourceStatus string

const (
	SourceSucceeded     SourceStatus = "succeeded"
	SourceFailed        SourceStatus = "failed"
	SourceNotConfigured SourceStatus = "not_configured"
)

// DomainRecord is the merged analysis result for one domain. A record is
// valid and cacheable with any subset of the three provider blobs present;
// an absent blob means the provider failed or was not configured.
type DomainRecord struct {
	Domain    string          `json:"domain"`
	Company   *company.Data   `json:"companyData,omitempty"`
	SEO       *seo.Data       `json:"seoData,omitempty"`
	Tech      *tech.Data      `json:"techData,omitempty"`
	TotalCost decimal.Decimal `json:"totalCost"`
}

// CacheEntry is the persisted wrapper around a DomainRecord. An entry whose
// ExpiresAt is not in the future is treated as absent on read even though the
// row may physically remain until a future overwrite.
type CacheEntry struct {
	Domain           string          `json:"domain"`
	Company          *company.Data   `json:"companyData,omitempty"`
	SEO              *seo.Data       `json:"seoData,omitempty"`
	Tech             *tech.Data      `json:"techData,omitempty"`
	DataQualityScore int             `json:"dataQualityScore"`
	TotalAPICost     decimal.Decimal `json:"totalApiCost"`
	SourcesComplete  []string        `json:"sourcesComplete"`
	SourcesFailed    []string        `json:"sourcesFailed"`
	ExpiresAt        time.Time       `json:"expiresAt"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// Record returns the entry's merged data as a DomainRecord.
func (e *CacheEntry) Record() DomainRecord {
	return DomainRecord{
		Domain:    e.Domain,
		Company:   e.Company,
		SEO:       e.SEO,
		Tech:      e.Tech,
		TotalCost: e.TotalAPICost,
	}
}

// NormalizeDomain canonicalizes user input into a bare lowercase domain:
// scheme, "www." prefix, path, port, and surrounding whitespace are stripped.
// Returns "" when nothing usable remains.
func NormalizeDomain(raw string) string {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.TrimPrefix(normalized, "https://")
	normalized = strings.TrimPrefix(normalized, "http://")
	normalized = strings.TrimPrefix(normalized, "www.")

	if idx := strings.IndexAny(normalized, "/?#"); idx >= 0 {
		normalized = normalized[:idx]
	}
	if idx := strings.IndexByte(normalized, ':'); idx >= 0 {
		normalized = normalized[:idx]
	}

	normalized = strings.TrimSuffix(normalized, ".")
	if !strings.Contains(normalized, ".") {
		return ""
	}
	return normalized
}
