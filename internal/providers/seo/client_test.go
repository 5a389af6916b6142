package seo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"domainintel_backend/platform/logger"

	"github.com/shopspring/decimal"
)

const (
	rankOverviewBody = `{
		"status_code": 20000,
		"tasks": [{
			"status_code": 20000,
			"cost": 0.0101,
			"result": [{
				"items": [{
					"metrics": {
						"organic": {"count": 420, "etv": 1234.5, "pos_1": 12, "pos_2_3": 18, "pos_4_10": 40}
					}
				}]
			}]
		}]
	}`

	backlinkSummaryBody = `{
		"status_code": 20000,
		"tasks": [{
			"status_code": 20000,
			"cost": 0.0202,
			"result": [{"backlinks": 950, "referring_domains": 130, "rank": 312}]
		}]
	}`

	competitorsBody = `{
		"status_code": 20000,
		"tasks": [{
			"status_code": 20000,
			"cost": 0.0303,
			"result": [{
				"items": [
					{"domain": "rival.com", "avg_position": 4.2, "intersections": 87, "full_domain_metrics": {"organic": {"count": 2100}}}
				]
			}]
		}]
	}`
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := New("login", "secret", logger.New("development"))
	client.baseURL = server.URL
	return client
}

func routeByPath(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		login, password, ok := r.BasicAuth()
		if !ok || login != "login" || password != "secret" {
			t.Errorf("expected basic auth credentials, got %q/%q", login, password)
		}
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.Contains(r.URL.Path, "domain_rank_overview"):
			w.Write([]byte(rankOverviewBody))
		case strings.Contains(r.URL.Path, "backlinks/summary"):
			w.Write([]byte(backlinkSummaryBody))
		case strings.Contains(r.URL.Path, "competitors_domain"):
			w.Write([]byte(competitorsBody))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func TestAnalyze_MergesSubCallsAndSumsCosts(t *testing.T) {
	client := newTestClient(t, routeByPath(t))

	data, cost, err := client.Analyze(context.Background(), "example.com", 2840)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if data.OrganicKeywords != 420 {
		t.Fatalf("expected 420 organic keywords, got %d", data.OrganicKeywords)
	}
	if data.KeywordsTop3 != 30 {
		t.Fatalf("expected top3 = pos_1 + pos_2_3 = 30, got %d", data.KeywordsTop3)
	}
	if data.KeywordsTop10 != 70 {
		t.Fatalf("expected top10 = top3 + pos_4_10 = 70, got %d", data.KeywordsTop10)
	}
	if data.TotalBacklinks != 950 || data.ReferringDomains != 130 || data.DomainRank != 312 {
		t.Fatalf("backlink summary not merged: %+v", data)
	}
	if len(data.Competitors) != 1 || data.Competitors[0].Domain != "rival.com" {
		t.Fatalf("competitors not merged: %+v", data.Competitors)
	}
	if data.Competitors[0].OrganicKeywords != 2100 {
		t.Fatalf("expected competitor keyword count 2100, got %d", data.Competitors[0].OrganicKeywords)
	}
	if data.LocationCode != 2840 {
		t.Fatalf("expected location code 2840, got %d", data.LocationCode)
	}

	want := decimal.NewFromFloat(0.0606)
	if !cost.Equal(want) {
		t.Fatalf("expected summed cost %s, got %s", want, cost)
	}
}

func TestAnalyze_ZeroLocationCodeFallsBackToDefault(t *testing.T) {
	client := newTestClient(t, routeByPath(t))

	data, _, err := client.Analyze(context.Background(), "example.com", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data.LocationCode != defaultLocationCode {
		t.Fatalf("expected default location code %d, got %d", defaultLocationCode, data.LocationCode)
	}
}

func TestAnalyze_FailedTaskFailsAnalysisButReportsSpend(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.Contains(r.URL.Path, "backlinks/summary") {
			// Billed despite the task-level failure.
			w.Write([]byte(`{
				"status_code": 20000,
				"tasks": [{"status_code": 40501, "status_message": "invalid field", "cost": 0.0202, "result": null}]
			}`))
			return
		}
		switch {
		case strings.Contains(r.URL.Path, "domain_rank_overview"):
			w.Write([]byte(rankOverviewBody))
		default:
			w.Write([]byte(competitorsBody))
		}
	})

	data, cost, err := client.Analyze(context.Background(), "example.com", 2840)
	if err == nil {
		t.Fatalf("expected error when a sub-call's task fails")
	}
	if data != nil {
		t.Fatalf("expected nil data on failure, got %+v", data)
	}
	want := decimal.NewFromFloat(0.0606)
	if !cost.Equal(want) {
		t.Fatalf("partial spend must be reported on failure: expected %s, got %s", want, cost)
	}
}

func TestAnalyze_EnvelopeErrorFails(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status_code": 40100, "status_message": "auth failed", "tasks": []}`))
	})

	if _, _, err := client.Analyze(context.Background(), "example.com", 2840); err == nil {
		t.Fatalf("expected error for provider-level failure code")
	}
}

func TestAnalyze_HTTPErrorFails(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, cost, err := client.Analyze(context.Background(), "example.com", 2840)
	if err == nil {
		t.Fatalf("expected error for non-200 status")
	}
	if !cost.Equal(decimal.Zero) {
		t.Fatalf("no spend is billed before a transport failure, got %s", cost)
	}
}

func TestAnalyze_EmptyResultsProduceZeroValues(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status_code": 20000, "tasks": [{"status_code": 20000, "cost": 0.01, "result": []}]}`))
	})

	data, _, err := client.Analyze(context.Background(), "newdomain.com", 2840)
	if err != nil {
		t.Fatalf("an empty result set is valid: %v", err)
	}
	if data.OrganicKeywords != 0 || data.TotalBacklinks != 0 {
		t.Fatalf("expected zero-value metrics, got %+v", data)
	}
	if len(data.Competitors) != 0 {
		t.Fatalf("expected no competitors, got %d", len(data.Competitors))
	}
}
