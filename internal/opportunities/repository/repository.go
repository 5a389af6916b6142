// Package repository persists detected opportunities to Postgres.
package repository

import (
	"context"

	"domainintel_backend/internal/opportunities/detector"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// serviceNames maps an opportunity category to the human-readable service
// line shown in client-facing views. The mapping is fixed; unknown categories
// fall back to a generic label.
var serviceNames = map[detector.Category]string{
	detector.CategorySEO:                 "SEO & Search Visibility",
	detector.CategoryContent:             "Content Strategy",
	detector.CategoryMarketingAutomation: "Marketing Automation",
	detector.CategoryCustomerServiceAI:   "Customer Service AI",
}

const fallbackServiceName = "Advisory Services"

// ServiceNameFor resolves the display service name for a category.
func ServiceNameFor(category detector.Category) string {
	if name, ok := serviceNames[category]; ok {
		return name
	}
	return fallbackServiceName
}

// Repository writes opportunity rows.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new opportunity repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// InsertMany bulk-inserts opportunities for a client account and returns the
// number of rows written. Opportunities are a historical log: rows are only
// ever appended, re-analysis never replaces earlier detections.
func (r *Repository) InsertMany(ctx context.Context, clientID uuid.UUID, opportunities []detector.Opportunity) (int, error) {
	if len(opportunities) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, opp := range opportunities {
		batch.Queue(`
			INSERT INTO client_opportunities (
				id, client_id, category, service_name, title, description, evidence,
				impact_score, evidence_strength, service_alignment, quick_win,
				current_state_metric, potential_improvement_metric, timeline_estimate,
				budget_range, expected_outcome, roi_potential, implementation_complexity,
				created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, now())
		`,
			uuid.New(), clientID, string(opp.Category), ServiceNameFor(opp.Category),
			opp.Title, opp.Description, opp.Evidence,
			opp.ImpactScore, opp.EvidenceStrength, opp.ServiceAlignment, opp.QuickWin,
			opp.CurrentStateMetric, opp.PotentialImprovementMetric, opp.TimelineEstimate,
			opp.BudgetRange, opp.ExpectedOutcome, opp.ROIPotential, opp.ImplementationComplexity,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()
	for i := 0; i < len(opportunities); i++ {
		if _, err := results.Exec(); err != nil {
			return i, err
		}
	}

	return len(opportunities), nil
}
