// Package company provides the HTTP client for the firmographic enrichment API.
package company

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"domainintel_backend/platform/logger"
)

const (
	defaultBaseURL     = "https://companyenrichment.abstractapi.com/v1"
	defaultHTTPTimeout = 15 * time.Second
)

// Data is the normalized firmographic record for a domain.
type Data struct {
	Name          string    `json:"name"`
	Industry      string    `json:"industry"`
	Size          string    `json:"size"`
	EmployeeCount int       `json:"employeeCount"`
	Locality      string    `json:"locality"`
	Country       string    `json:"country"`
	FoundedYear   int       `json:"foundedYear"`
	LinkedinURL   string    `json:"linkedinUrl,omitempty"`
	TwitterURL    string    `json:"twitterUrl,omitempty"`
	FacebookURL   string    `json:"facebookUrl,omitempty"`
	LogoURL       string    `json:"logoUrl,omitempty"`
	RetrievedAt   time.Time `json:"retrievedAt"`
}

// Client is the HTTP client for the firmographic enrichment API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	log        *logger.Logger
}

// New creates a new firmographic enrichment client.
func New(apiKey string, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		log:        log,
	}
}

type enrichmentResponse struct {
	Name          string `json:"name"`
	Domain        string `json:"domain"`
	Industry      string `json:"industry"`
	EmployeeCount int    `json:"employee_count"`
	EmployeeRange string `json:"employee_range"`
	Locality      string `json:"locality"`
	Country       string `json:"country"`
	YearFounded   int    `json:"year_founded"`
	LinkedinURL   string `json:"linkedin_url"`
	TwitterURL    string `json:"twitter_url"`
	FacebookURL   string `json:"facebook_url"`
	LogoURL       string `json:"logo"`
}

// Lookup fetches firmographic data for a bare domain. A 2xx response with no
// usable match returns (nil, nil): the provider simply has no data for the
// domain, which is not an error. Any non-2xx status is an error.
func (c *Client) Lookup(ctx context.Context, domain string) (*Data, error) {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("domain", domain)

	reqURL := fmt.Sprintf("%s/?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("company enrichment request failed", "error", err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Error("company enrichment request error", "status", resp.StatusCode)
		return nil, fmt.Errorf("company enrichment status %d", resp.StatusCode)
	}

	var payload enrichmentResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.log.Error("company enrichment decode failed", "error", err)
		return nil, err
	}

	if payload.Name == "" && payload.Industry == "" {
		return nil, nil
	}

	return &Data{
		Name:          payload.Name,
		Industry:      payload.Industry,
		Size:          payload.EmployeeRange,
		EmployeeCount: payload.EmployeeCount,
		Locality:      payload.Locality,
		Country:       payload.Country,
		FoundedYear:   payload.YearFounded,
		LinkedinURL:   payload.LinkedinURL,
		TwitterURL:    payload.TwitterURL,
		FacebookURL:   payload.FacebookURL,
		LogoURL:       payload.LogoURL,
		RetrievedAt:   time.Now().UTC(),
	}, nil
}
