// Package transport defines the HTTP request/response shapes for analysis.
package transport

import (
	analysisdomain "domainintel_backend/internal/analysis/domain"
	"domainintel_backend/internal/analysis/service"
	"domainintel_backend/internal/providers/company"
	"domainintel_backend/internal/providers/seo"
	"domainintel_backend/internal/providers/tech"

	"github.com/shopspring/decimal"
)

// AnalyzeRequest is the inbound analysis request. GET requests bind the same
// fields from query parameters.
type AnalyzeRequest struct {
	Domain    string `json:"domain" form:"domain"`
	ClientID  string `json:"clientId" form:"clientId" validate:"omitempty,uuid"`
	SkipCache bool   `json:"skipCache" form:"skipCache"`
}

// AnalyzeResponse is the merged analysis result plus request metadata.
type AnalyzeResponse struct {
	Domain           string                                 `json:"domain"`
	CompanyData      *company.Data                          `json:"companyData,omitempty"`
	SEOData          *seo.Data                              `json:"seoData,omitempty"`
	TechData         *tech.Data                             `json:"techData,omitempty"`
	DataQualityScore int                                    `json:"dataQualityScore"`
	TotalCost        decimal.Decimal                        `json:"totalCost"`
	SourcesComplete  []string                               `json:"sourcesComplete"`
	SourcesFailed    []string                               `json:"sourcesFailed"`
	Sources          map[string]analysisdomain.SourceStatus `json:"sources,omitempty"`
	CacheHit         bool                                   `json:"cacheHit"`
	DurationMs       int64                                  `json:"durationMs"`
	Opportunities    service.OpportunitySummary             `json:"opportunities"`
}

// NewAnalyzeResponse maps a service result to the wire shape.
func NewAnalyzeResponse(result *service.Result) AnalyzeResponse {
	return AnalyzeResponse{
		Domain:           result.Record.Domain,
		CompanyData:      result.Record.Company,
		SEOData:          result.Record.SEO,
		TechData:         result.Record.Tech,
		DataQualityScore: result.DataQualityScore,
		TotalCost:        result.Record.TotalCost,
		SourcesComplete:  result.SourcesComplete,
		SourcesFailed:    result.SourcesFailed,
		Sources:          result.SourceStatuses,
		CacheHit:         result.CacheHit,
		DurationMs:       result.Duration.Milliseconds(),
		Opportunities:    result.Opportunities,
	}
}
