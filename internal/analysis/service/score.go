package service

import (
	"domainintel_backend/internal/providers/company"
	"domainintel_backend/internal/providers/seo"
	"domainintel_backend/internal/providers/tech"
)

// Slot weights are a fixed policy table reflecting the relative per-call cost
// and value of each provider. They are not a heuristic to tune.
const (
	companyWeight = 30
	seoWeight     = 40
	techWeight    = 30
)

// qualityScore computes the 0-100 data quality score as a weighted sum over
// the provider slots that produced data.
func qualityScore(companyData *company.Data, seoData *seo.Data, techData *tech.Data) int {
	score := 0
	if companyData != nil {
		score += companyWeight
	}
	if seoData != nil {
		score += seoWeight
	}
	if techData != nil {
		score += techWeight
	}
	return score
}
