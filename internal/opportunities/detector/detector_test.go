package detector

import (
	"testing"

	"domainintel_backend/internal/providers/company"
	"domainintel_backend/internal/providers/seo"
	"domainintel_backend/internal/providers/tech"
)

func TestDetect_WeakDomainTriggersFourRulesInOrder(t *testing.T) {
	seoData := &seo.Data{OrganicKeywords: 50, TotalBacklinks: 20}
	techData := &tech.Data{
		Insights: tech.Insights{HasMarketingAutomation: false, HasCRM: false},
	}

	opportunities := Detect(nil, seoData, techData)

	if len(opportunities) != 4 {
		t.Fatalf("expected 4 opportunities, got %d", len(opportunities))
	}

	expectedTitles := []string{
		"Low organic keyword rankings",
		"Weak backlink profile",
		"No marketing automation platform",
		"No CRM system detected",
	}
	for i, title := range expectedTitles {
		if opportunities[i].Title != title {
			t.Fatalf("opportunity %d: expected %q, got %q", i, title, opportunities[i].Title)
		}
	}
}

func TestDetect_HealthyDomainTriggersNothing(t *testing.T) {
	seoData := &seo.Data{OrganicKeywords: 1500, TotalBacklinks: 800}
	techData := &tech.Data{
		Insights: tech.Insights{
			HasMarketingAutomation: true,
			HasCRM:                 true,
			HasAnalytics:           true,
			HasEcommerce:           true,
		},
	}

	opportunities := Detect(&company.Data{Name: "Acme"}, seoData, techData)

	if len(opportunities) != 0 {
		t.Fatalf("expected no opportunities, got %d", len(opportunities))
	}
}

func TestDetect_NilInputsProduceNothing(t *testing.T) {
	if got := Detect(nil, nil, nil); len(got) != 0 {
		t.Fatalf("expected no opportunities for nil inputs, got %d", len(got))
	}
}

func TestDetect_ContentGapRequiresCompanyAndSEO(t *testing.T) {
	seoData := &seo.Data{OrganicKeywords: 300, TotalBacklinks: 5000}

	// SEO alone: keyword count is above the low-keyword threshold, so only
	// the content gap rule could fire, and it needs company data.
	if got := Detect(nil, seoData, nil); len(got) != 0 {
		t.Fatalf("expected no opportunities without company data, got %d", len(got))
	}

	got := Detect(&company.Data{Name: "Acme", Industry: "SaaS"}, seoData, nil)
	if len(got) != 1 {
		t.Fatalf("expected exactly the content gap opportunity, got %d", len(got))
	}
	if got[0].Category != CategoryContent {
		t.Fatalf("expected category %q, got %q", CategoryContent, got[0].Category)
	}
	if got[0].QuickWin {
		t.Fatalf("content gap must not be a quick win")
	}
}

func TestDetect_ContentGapExcludesZeroKeywords(t *testing.T) {
	seoData := &seo.Data{OrganicKeywords: 0, TotalBacklinks: 5000}

	got := Detect(&company.Data{Name: "Acme"}, seoData, nil)

	// Zero keywords fires the low-keyword rule but never the content gap.
	if len(got) != 1 {
		t.Fatalf("expected 1 opportunity, got %d", len(got))
	}
	if got[0].Category != CategorySEO {
		t.Fatalf("expected category %q, got %q", CategorySEO, got[0].Category)
	}
}

func TestDetect_ComplexityDerivesFromQuickWin(t *testing.T) {
	techData := &tech.Data{Insights: tech.Insights{HasMarketingAutomation: false, HasCRM: true}}
	seoData := &seo.Data{OrganicKeywords: 50, TotalBacklinks: 5000}

	opportunities := Detect(nil, seoData, techData)

	if len(opportunities) != 2 {
		t.Fatalf("expected 2 opportunities, got %d", len(opportunities))
	}
	for _, opp := range opportunities {
		want := "medium"
		if opp.QuickWin {
			want = "low"
		}
		if opp.ImplementationComplexity != want {
			t.Fatalf("%s: expected complexity %q, got %q", opp.Title, want, opp.ImplementationComplexity)
		}
	}
}

func TestDetect_ImpactScoresMatchRuleTable(t *testing.T) {
	seoData := &seo.Data{OrganicKeywords: 50, TotalBacklinks: 20}
	techData := &tech.Data{Insights: tech.Insights{}}

	opportunities := Detect(nil, seoData, techData)

	expected := []int{9, 8, 10, 9}
	if len(opportunities) != len(expected) {
		t.Fatalf("expected %d opportunities, got %d", len(expected), len(opportunities))
	}
	for i, score := range expected {
		if opportunities[i].ImpactScore != score {
			t.Fatalf("opportunity %d: expected impact %d, got %d", i, score, opportunities[i].ImpactScore)
		}
	}
}
