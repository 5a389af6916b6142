// Package seo provides the HTTP client for the SEO metrics provider.
//
// The provider bills per call. Every sub-call reports its own cost, and the
// client returns the accumulated total to the caller as an explicit value so
// the client itself carries no mutable state and is safe for concurrent use.
package seo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"domainintel_backend/platform/logger"

	"github.com/shopspring/decimal"
)

const (
	defaultBaseURL     = "https://api.dataforseo.com"
	defaultHTTPTimeout = 30 * time.Second

	// providerStatusOK is the provider-level success code. The API returns
	// HTTP 200 even for failed tasks, so this must be checked per response.
	providerStatusOK = 20000

	defaultLocationCode = 2840
	languageCode        = "en"
	competitorLimit     = 5
)

// Competitor is one organic-search competitor of the analyzed domain.
type Competitor struct {
	Domain          string  `json:"domain"`
	AvgPosition     float64 `json:"avgPosition"`
	Intersections   int     `json:"intersections"`
	OrganicKeywords int     `json:"organicKeywords"`
}

// Data is the merged result of the three SEO sub-calls.
type Data struct {
	OrganicKeywords  int          `json:"organicKeywords"`
	OrganicTraffic   float64      `json:"organicTraffic"`
	KeywordsTop3     int          `json:"keywordsTop3"`
	KeywordsTop10    int          `json:"keywordsTop10"`
	TotalBacklinks   int          `json:"totalBacklinks"`
	ReferringDomains int          `json:"referringDomains"`
	DomainRank       int          `json:"domainRank"`
	Competitors      []Competitor `json:"competitors,omitempty"`
	LocationCode     int          `json:"locationCode"`
	RetrievedAt      time.Time    `json:"retrievedAt"`
}

// Client is the HTTP client for the SEO metrics provider.
type Client struct {
	httpClient *http.Client
	baseURL    string
	login      string
	password   string
	log        *logger.Logger
}

// New creates a new SEO metrics client authenticated with basic auth.
func New(login, password string, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		baseURL:    defaultBaseURL,
		login:      login,
		password:   password,
		log:        log,
	}
}

// Analyze fetches the rank overview, backlink summary, and competitor list for
// a domain and merges them into one record. The three sub-calls are issued
// concurrently and all complete before the result resolves. The returned
// decimal is the total billed cost of every sub-call that completed; it is
// reported even when the analysis as a whole fails, since partial spend is
// real spend.
func (c *Client) Analyze(ctx context.Context, domain string, locationCode int) (*Data, decimal.Decimal, error) {
	if locationCode == 0 {
		locationCode = defaultLocationCode
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		totalCost = decimal.Zero

		overview                                  *rankOverview
		backlinks                                 *backlinkSummary
		competitors                               []Competitor
		overviewErr, backlinksErr, competitorsErr error
	)

	addCost := func(cost decimal.Decimal) {
		mu.Lock()
		totalCost = totalCost.Add(cost)
		mu.Unlock()
	}

	wg.Add(3)
	go func() {
		defer wg.Done()
		result, cost, err := c.fetchRankOverview(ctx, domain, locationCode)
		addCost(cost)
		overview, overviewErr = result, err
	}()
	go func() {
		defer wg.Done()
		result, cost, err := c.fetchBacklinkSummary(ctx, domain)
		addCost(cost)
		backlinks, backlinksErr = result, err
	}()
	go func() {
		defer wg.Done()
		result, cost, err := c.fetchCompetitors(ctx, domain, locationCode)
		addCost(cost)
		competitors, competitorsErr = result, err
	}()
	wg.Wait()

	for _, err := range []error{overviewErr, backlinksErr, competitorsErr} {
		if err != nil {
			return nil, totalCost, err
		}
	}

	data := &Data{
		LocationCode: locationCode,
		RetrievedAt:  time.Now().UTC(),
		Competitors:  competitors,
	}
	if overview != nil {
		data.OrganicKeywords = overview.Count
		data.OrganicTraffic = overview.ETV
		data.KeywordsTop3 = overview.Pos1 + overview.Pos23
		data.KeywordsTop10 = data.KeywordsTop3 + overview.Pos410
	}
	if backlinks != nil {
		data.TotalBacklinks = backlinks.Backlinks
		data.ReferringDomains = backlinks.ReferringDomains
		data.DomainRank = backlinks.Rank
	}

	return data, totalCost, nil
}

type taskEnvelope struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	Tasks         []struct {
		StatusCode    int             `json:"status_code"`
		StatusMessage string          `json:"status_message"`
		Cost          float64         `json:"cost"`
		Result        json.RawMessage `json:"result"`
	} `json:"tasks"`
}

// doTask posts a single-task payload and returns the raw task result together
// with the billed cost. Cost is returned even for provider-level failures.
func (c *Client) doTask(ctx context.Context, path string, payload interface{}) (json.RawMessage, decimal.Decimal, error) {
	body, err := json.Marshal([]interface{}{payload})
	if err != nil {
		return nil, decimal.Zero, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, decimal.Zero, err
	}
	req.SetBasicAuth(c.login, c.password)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("seo provider request failed", "path", path, "error", err)
		return nil, decimal.Zero, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Error("seo provider request error", "path", path, "status", resp.StatusCode)
		return nil, decimal.Zero, fmt.Errorf("seo provider status %d", resp.StatusCode)
	}

	var envelope taskEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		c.log.Error("seo provider decode failed", "path", path, "error", err)
		return nil, decimal.Zero, err
	}

	if envelope.StatusCode != providerStatusOK {
		return nil, decimal.Zero, fmt.Errorf("seo provider error %d: %s", envelope.StatusCode, envelope.StatusMessage)
	}
	if len(envelope.Tasks) == 0 {
		return nil, decimal.Zero, fmt.Errorf("seo provider returned no tasks for %s", path)
	}

	task := envelope.Tasks[0]
	cost := decimal.NewFromFloat(task.Cost)
	if task.StatusCode != providerStatusOK {
		return nil, cost, fmt.Errorf("seo task error %d: %s", task.StatusCode, task.StatusMessage)
	}

	return task.Result, cost, nil
}

type rankOverview struct {
	Count  int
	ETV    float64
	Pos1   int
	Pos23  int
	Pos410 int
}

func (c *Client) fetchRankOverview(ctx context.Context, domain string, locationCode int) (*rankOverview, decimal.Decimal, error) {
	payload := map[string]interface{}{
		"target":        domain,
		"location_code": locationCode,
		"language_code": languageCode,
	}

	raw, cost, err := c.doTask(ctx, "/v3/dataforseo_labs/google/domain_rank_overview/live", payload)
	if err != nil {
		return nil, cost, err
	}

	var result []struct {
		Items []struct {
			Metrics struct {
				Organic struct {
					Count  int     `json:"count"`
					ETV    float64 `json:"etv"`
					Pos1   int     `json:"pos_1"`
					Pos23  int     `json:"pos_2_3"`
					Pos410 int     `json:"pos_4_10"`
				} `json:"organic"`
			} `json:"metrics"`
		} `json:"items"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, cost, err
	}

	if len(result) == 0 || len(result[0].Items) == 0 {
		return &rankOverview{}, cost, nil
	}

	organic := result[0].Items[0].Metrics.Organic
	return &rankOverview{
		Count:  organic.Count,
		ETV:    organic.ETV,
		Pos1:   organic.Pos1,
		Pos23:  organic.Pos23,
		Pos410: organic.Pos410,
	}, cost, nil
}

type backlinkSummary struct {
	Backlinks        int `json:"backlinks"`
	ReferringDomains int `json:"referring_domains"`
	Rank             int `json:"rank"`
}

func (c *Client) fetchBacklinkSummary(ctx context.Context, domain string) (*backlinkSummary, decimal.Decimal, error) {
	payload := map[string]interface{}{
		"target":                 domain,
		"include_subdomains":     true,
		"exclude_internal_links": true,
	}

	raw, cost, err := c.doTask(ctx, "/v3/backlinks/summary/live", payload)
	if err != nil {
		return nil, cost, err
	}

	var result []backlinkSummary
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, cost, err
	}

	if len(result) == 0 {
		return &backlinkSummary{}, cost, nil
	}
	return &result[0], cost, nil
}

func (c *Client) fetchCompetitors(ctx context.Context, domain string, locationCode int) ([]Competitor, decimal.Decimal, error) {
	payload := map[string]interface{}{
		"target":        domain,
		"location_code": locationCode,
		"language_code": languageCode,
		"limit":         competitorLimit,
	}

	raw, cost, err := c.doTask(ctx, "/v3/dataforseo_labs/google/competitors_domain/live", payload)
	if err != nil {
		return nil, cost, err
	}

	var result []struct {
		Items []struct {
			Domain        string  `json:"domain"`
			AvgPosition   float64 `json:"avg_position"`
			Intersections int     `json:"intersections"`
			FullMetrics   struct {
				Organic struct {
					Count int `json:"count"`
				} `json:"organic"`
			} `json:"full_domain_metrics"`
		} `json:"items"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, cost, err
	}

	if len(result) == 0 {
		return nil, cost, nil
	}

	competitors := make([]Competitor, 0, len(result[0].Items))
	for _, item := range result[0].Items {
		competitors = append(competitors, Competitor{
			Domain:          item.Domain,
			AvgPosition:     item.AvgPosition,
			Intersections:   item.Intersections,
			OrganicKeywords: item.FullMetrics.Organic.Count,
		})
	}

	return competitors, cost, nil
}
