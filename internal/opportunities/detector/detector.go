// Package detector evaluates merged domain analysis data against a fixed rule
// table and emits scored opportunity records. It is pure: no I/O, no side
// effects, deterministic for a given input.
package detector

import (
	"fmt"

	"domainintel_backend/internal/providers/company"
	"domainintel_backend/internal/providers/seo"
	"domainintel_backend/internal/providers/tech"
)

// Category classifies an opportunity by the service line it aligns with.
type Category string

const (
	CategorySEO                 Category = "seo"
	CategoryContent             Category = "content"
	CategoryMarketingAutomation Category = "marketing_automation"
	CategoryCustomerServiceAI   Category = "customer_service_ai"
)

// Opportunity is a detected gap or weakness in a company's digital presence.
type Opportunity struct {
	Category                   Category `json:"category"`
	Title                      string   `json:"title"`
	Description                string   `json:"description"`
	Evidence                   string   `json:"evidence"`
	ImpactScore                int      `json:"impactScore"`
	EvidenceStrength           int      `json:"evidenceStrength"`
	ServiceAlignment           int      `json:"serviceAlignment"`
	QuickWin                   bool     `json:"quickWin"`
	CurrentStateMetric         string   `json:"currentStateMetric"`
	PotentialImprovementMetric string   `json:"potentialImprovementMetric"`
	TimelineEstimate           string   `json:"timelineEstimate"`
	BudgetRange                string   `json:"budgetRange"`
	ExpectedOutcome            string   `json:"expectedOutcome"`
	ROIPotential               string   `json:"roiPotential"`
	ImplementationComplexity   string   `json:"implementationComplexity"`
}

// input bundles the merged provider data a rule inspects.
type input struct {
	company *company.Data
	seo     *seo.Data
	tech    *tech.Data
}

// rule pairs a match predicate with the template that builds its opportunity.
// Rules are independent and evaluated in table order; a domain can trigger
// any subset.
type rule struct {
	match func(in input) bool
	build func(in input) Opportunity
}

const (
	lowKeywordThreshold  = 100
	lowBacklinkThreshold = 100
	contentGapThreshold  = 500
)

var rules = []rule{
	{
		match: func(in input) bool {
			return in.seo != nil && in.seo.OrganicKeywords < lowKeywordThreshold
		},
		build: func(in input) Opportunity {
			return Opportunity{
				Category:                   CategorySEO,
				Title:                      "Low organic keyword rankings",
				Description:                "The domain ranks for very few organic keywords, leaving search traffic on the table for competitors.",
				Evidence:                   fmt.Sprintf("Only %d organic keywords ranked; healthy sites in most verticals rank for %d+.", in.seo.OrganicKeywords, lowKeywordThreshold),
				ImpactScore:                9,
				EvidenceStrength:           8,
				ServiceAlignment:           9,
				QuickWin:                   false,
				CurrentStateMetric:         fmt.Sprintf("%d organic keywords", in.seo.OrganicKeywords),
				PotentialImprovementMetric: "500+ organic keywords",
				TimelineEstimate:           "6-12 months",
				BudgetRange:                "$2,500-$5,000/month",
				ExpectedOutcome:            "3-5x increase in organic search traffic",
				ROIPotential:               "300-500%",
			}
		},
	},
	{
		match: func(in input) bool {
			return in.seo != nil && in.seo.TotalBacklinks < lowBacklinkThreshold
		},
		build: func(in input) Opportunity {
			return Opportunity{
				Category:                   CategorySEO,
				Title:                      "Weak backlink profile",
				Description:                "The domain's backlink profile is too thin to build authority, capping how well content can rank.",
				Evidence:                   fmt.Sprintf("%d total backlinks from %d referring domains; authority growth needs a sustained link acquisition program.", in.seo.TotalBacklinks, in.seo.ReferringDomains),
				ImpactScore:                8,
				EvidenceStrength:           7,
				ServiceAlignment:           8,
				QuickWin:                   false,
				CurrentStateMetric:         fmt.Sprintf("%d total backlinks", in.seo.TotalBacklinks),
				PotentialImprovementMetric: "1,000+ quality backlinks",
				TimelineEstimate:           "4-8 months",
				BudgetRange:                "$2,000-$4,000/month",
				ExpectedOutcome:            "Domain authority growth and higher rankings for existing content",
				ROIPotential:               "250-400%",
			}
		},
	},
	{
		match: func(in input) bool {
			return in.tech != nil && !in.tech.Insights.HasMarketingAutomation
		},
		build: func(in input) Opportunity {
			return Opportunity{
				Category:                   CategoryMarketingAutomation,
				Title:                      "No marketing automation platform",
				Description:                "No marketing automation tooling was detected, so lead nurturing and follow-up are manual or absent.",
				Evidence:                   fmt.Sprintf("Technology scan found %d technologies, none in the marketing automation category.", len(in.tech.Technologies)),
				ImpactScore:                10,
				EvidenceStrength:           9,
				ServiceAlignment:           10,
				QuickWin:                   true,
				CurrentStateMetric:         "No automation platform detected",
				PotentialImprovementMetric: "Automated nurture flows for every inbound lead",
				TimelineEstimate:           "1-2 months",
				BudgetRange:                "$1,500-$3,000/month",
				ExpectedOutcome:            "20-30% more leads converted through automated follow-up",
				ROIPotential:               "400-600%",
			}
		},
	},
	{
		match: func(in input) bool {
			return in.tech != nil && !in.tech.Insights.HasCRM
		},
		build: func(in input) Opportunity {
			return Opportunity{
				Category:                   CategoryCustomerServiceAI,
				Title:                      "No CRM system detected",
				Description:                "No CRM was detected on the site, suggesting customer relationships are tracked ad hoc.",
				Evidence:                   fmt.Sprintf("Technology scan found %d technologies, none in the CRM category.", len(in.tech.Technologies)),
				ImpactScore:                9,
				EvidenceStrength:           8,
				ServiceAlignment:           9,
				QuickWin:                   true,
				CurrentStateMetric:         "No CRM detected",
				PotentialImprovementMetric: "Centralized customer pipeline with AI-assisted service",
				TimelineEstimate:           "1-3 months",
				BudgetRange:                "$1,000-$2,500/month",
				ExpectedOutcome:            "Faster response times and no leads lost between channels",
				ROIPotential:               "350-500%",
			}
		},
	},
	{
		match: func(in input) bool {
			return in.company != nil && in.seo != nil &&
				in.seo.OrganicKeywords > 0 && in.seo.OrganicKeywords < contentGapThreshold
		},
		build: func(in input) Opportunity {
			return Opportunity{
				Category:                   CategoryContent,
				Title:                      "Content gap opportunity",
				Description:                "The company has an established presence but thin content coverage relative to its market.",
				Evidence:                   fmt.Sprintf("%s ranks for %d keywords, well short of the coverage its industry supports.", in.company.Name, in.seo.OrganicKeywords),
				ImpactScore:                8,
				EvidenceStrength:           7,
				ServiceAlignment:           9,
				QuickWin:                   false,
				CurrentStateMetric:         fmt.Sprintf("%d keywords covered", in.seo.OrganicKeywords),
				PotentialImprovementMetric: fmt.Sprintf("%d+ keywords with a structured content program", contentGapThreshold),
				TimelineEstimate:           "3-6 months",
				BudgetRange:                "$2,000-$4,500/month",
				ExpectedOutcome:            "Topical authority in the company's core market segments",
				ROIPotential:               "300-450%",
			}
		},
	},
}

// Detect runs the rule table over the merged provider data in fixed order.
// Missing seo backlink values are treated as zero by virtue of the zero value
// on the normalized record. An empty result is valid.
func Detect(companyData *company.Data, seoData *seo.Data, techData *tech.Data) []Opportunity {
	in := input{company: companyData, seo: seoData, tech: techData}

	var opportunities []Opportunity
	for _, r := range rules {
		if !r.match(in) {
			continue
		}
		opportunity := r.build(in)
		opportunity.ImplementationComplexity = complexityFor(opportunity.QuickWin)
		opportunities = append(opportunities, opportunity)
	}
	return opportunities
}

// complexityFor derives implementation complexity solely from the quick-win
// flag; no rule currently produces "high".
func complexityFor(quickWin bool) string {
	if quickWin {
		return "low"
	}
	return "medium"
}
