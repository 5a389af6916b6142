package tech

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"domainintel_backend/platform/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := New("test-key", logger.New("development"))
	client.baseURL = server.URL
	return client
}

func TestDetect_BucketsTechnologiesByCategory(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-api-key"); got != "test-key" {
			t.Errorf("expected x-api-key header, got %q", got)
		}
		if got := r.URL.Query().Get("urls"); got != "https://example.com" {
			t.Errorf("expected urls query param, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{
			"url": "https://example.com",
			"technologies": [
				{"name": "WordPress", "categories": [{"id": 1, "name": "CMS"}]},
				{"name": "Google Analytics", "categories": [{"id": 10, "name": "Analytics"}]},
				{"name": "HubSpot", "categories": [{"id": 32, "name": "Marketing automation"}, {"id": 53, "name": "CRM"}]},
				{"name": "React", "categories": [{"id": 12, "name": "JavaScript frameworks"}]}
			]
		}]`))
	})

	data, err := client.Detect(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(data.Technologies) != 4 {
		t.Fatalf("expected 4 technologies, got %d", len(data.Technologies))
	}
	if len(data.CMS) != 1 || data.CMS[0] != "WordPress" {
		t.Fatalf("expected WordPress in CMS bucket, got %v", data.CMS)
	}
	if len(data.Analytics) != 1 || data.Analytics[0] != "Google Analytics" {
		t.Fatalf("expected Google Analytics in analytics bucket, got %v", data.Analytics)
	}
	// One technology can land in several buckets.
	if len(data.MarketingAutomation) != 1 || data.MarketingAutomation[0] != "HubSpot" {
		t.Fatalf("expected HubSpot in marketing automation bucket, got %v", data.MarketingAutomation)
	}
	if len(data.CRM) != 1 || data.CRM[0] != "HubSpot" {
		t.Fatalf("expected HubSpot in CRM bucket, got %v", data.CRM)
	}
	if len(data.JSFrameworks) != 1 || data.JSFrameworks[0] != "React" {
		t.Fatalf("expected React in JS frameworks bucket, got %v", data.JSFrameworks)
	}

	insights := data.Insights
	if !insights.HasMarketingAutomation || !insights.HasCRM || !insights.HasAnalytics {
		t.Fatalf("expected positive capability flags, got %+v", insights)
	}
	if insights.HasEcommerce {
		t.Fatalf("no ecommerce technology was detected, got %+v", insights)
	}
	if len(insights.Recommendations) != 1 {
		t.Fatalf("expected one recommendation for the missing capability, got %v", insights.Recommendations)
	}
}

func TestDetect_EmptyResultIsValid(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	})

	data, err := client.Detect(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("an empty lookup is a valid answer: %v", err)
	}
	if len(data.Technologies) != 0 {
		t.Fatalf("expected no technologies, got %d", len(data.Technologies))
	}
	if data.Insights.HasMarketingAutomation || data.Insights.HasCRM {
		t.Fatalf("empty detection must derive all-false flags, got %+v", data.Insights)
	}
	if len(data.Insights.Recommendations) != 4 {
		t.Fatalf("expected a recommendation per missing capability, got %v", data.Insights.Recommendations)
	}
	if data.RetrievedAt.IsZero() {
		t.Fatalf("expected retrievedAt to be set")
	}
}

func TestDetect_CategoryMatchIsCaseInsensitive(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{
			"url": "https://example.com",
			"technologies": [{"name": "Shopify", "categories": [{"id": 6, "name": "ECOMMERCE"}]}]
		}]`))
	})

	data, err := client.Detect(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data.Ecommerce) != 1 || data.Ecommerce[0] != "Shopify" {
		t.Fatalf("expected case-insensitive category match, got %v", data.Ecommerce)
	}
	if !data.Insights.HasEcommerce {
		t.Fatalf("expected ecommerce flag set")
	}
}

func TestDetect_NonSuccessStatusFails(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	if _, err := client.Detect(context.Background(), "https://example.com"); err == nil {
		t.Fatalf("expected error for non-2xx status")
	}
}
