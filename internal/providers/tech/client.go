// Package tech provides the HTTP client for the technology detection API.
package tech

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"domainintel_backend/platform/logger"
)

const (
	defaultBaseURL     = "https://api.wappalyzer.com/v2"
	defaultHTTPTimeout = 20 * time.Second
)

// Technology is one detected technology with its category tags.
type Technology struct {
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
}

// Insights are boolean capability flags derived from the category buckets,
// with a recommendation per missing capability.
type Insights struct {
	HasMarketingAutomation bool     `json:"hasMarketingAutomation"`
	HasCRM                 bool     `json:"hasCrm"`
	HasAnalytics           bool     `json:"hasAnalytics"`
	HasEcommerce           bool     `json:"hasEcommerce"`
	Recommendations        []string `json:"recommendations,omitempty"`
}

// Data is the normalized technology detection result for a site.
type Data struct {
	Technologies        []Technology `json:"technologies"`
	CMS                 []string     `json:"cms"`
	Analytics           []string     `json:"analytics"`
	MarketingAutomation []string     `json:"marketingAutomation"`
	CRM                 []string     `json:"crm"`
	Ecommerce           []string     `json:"ecommerce"`
	JSFrameworks        []string     `json:"jsFrameworks"`
	Insights            Insights     `json:"insights"`
	RetrievedAt         time.Time    `json:"retrievedAt"`
}

// Client is the HTTP client for the technology detection API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	log        *logger.Logger
}

// New creates a new technology detection client.
func New(apiKey string, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		log:        log,
	}
}

type lookupResponse []struct {
	URL          string `json:"url"`
	Technologies []struct {
		Name       string `json:"name"`
		Categories []struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"categories"`
	} `json:"technologies"`
}

// Detect looks up the technology stack of a fully-qualified URL. An empty
// result from the provider is a valid "nothing detected" answer and returns
// zero-value data, not an error.
func (c *Client) Detect(ctx context.Context, siteURL string) (*Data, error) {
	params := url.Values{}
	params.Set("urls", siteURL)

	reqURL := fmt.Sprintf("%s/lookup/?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("tech lookup request failed", "error", err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Error("tech lookup request error", "status", resp.StatusCode)
		return nil, fmt.Errorf("tech lookup status %d", resp.StatusCode)
	}

	var payload lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.log.Error("tech lookup decode failed", "error", err)
		return nil, err
	}

	data := &Data{RetrievedAt: time.Now().UTC()}
	if len(payload) == 0 {
		data.Insights = deriveInsights(data)
		return data, nil
	}

	for _, detected := range payload[0].Technologies {
		technology := Technology{Name: detected.Name}
		for _, category := range detected.Categories {
			technology.Categories = append(technology.Categories, category.Name)
		}
		data.Technologies = append(data.Technologies, technology)
	}

	data.CMS = filterByCategory(data.Technologies, "CMS")
	data.Analytics = filterByCategory(data.Technologies, "Analytics")
	data.MarketingAutomation = filterByCategory(data.Technologies, "Marketing automation")
	data.CRM = filterByCategory(data.Technologies, "CRM")
	data.Ecommerce = filterByCategory(data.Technologies, "Ecommerce")
	data.JSFrameworks = filterByCategory(data.Technologies, "JavaScript frameworks")
	data.Insights = deriveInsights(data)

	return data, nil
}

// filterByCategory collects technology names whose category tags include the
// given category, matched case-insensitively.
func filterByCategory(technologies []Technology, category string) []string {
	var names []string
	for _, technology := range technologies {
		for _, tag := range technology.Categories {
			if strings.EqualFold(tag, category) {
				names = append(names, technology.Name)
				break
			}
		}
	}
	return names
}

func deriveInsights(data *Data) Insights {
	insights := Insights{
		HasMarketingAutomation: len(data.MarketingAutomation) > 0,
		HasCRM:                 len(data.CRM) > 0,
		HasAnalytics:           len(data.Analytics) > 0,
		HasEcommerce:           len(data.Ecommerce) > 0,
	}

	if !insights.HasMarketingAutomation {
		insights.Recommendations = append(insights.Recommendations, "No marketing automation platform detected")
	}
	if !insights.HasCRM {
		insights.Recommendations = append(insights.Recommendations, "No CRM system detected")
	}
	if !insights.HasAnalytics {
		insights.Recommendations = append(insights.Recommendations, "No analytics tooling detected")
	}
	if !insights.HasEcommerce {
		insights.Recommendations = append(insights.Recommendations, "No e-commerce platform detected")
	}

	return insights
}
