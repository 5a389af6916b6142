// Package service implements the cache-aside domain analysis orchestration.
package service

import (
	"context"
	"sync"
	"time"

	analysisdomain "domainintel_backend/internal/analysis/domain"
	"domainintel_backend/internal/analysis/ports"
	"domainintel_backend/internal/opportunities/detector"
	"domainintel_backend/internal/providers/company"
	"domainintel_backend/internal/providers/seo"
	"domainintel_backend/internal/providers/tech"
	"domainintel_backend/platform/apperr"
	"domainintel_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// Providers holds the configured provider clients. A nil slot means the
// provider's credentials were absent and it was never constructed; that slot
// reports "not configured" rather than "failed".
type Providers struct {
	Company ports.CompanyProvider
	SEO     ports.SEOProvider
	Tech    ports.TechProvider
}

// Config carries the orchestration policy values.
type Config struct {
	CacheTTL        time.Duration
	SEOLocationCode int
}

// AnalyzeParams are the inputs of one analysis request.
type AnalyzeParams struct {
	Domain    string
	ClientID  *uuid.UUID
	SkipCache bool
}

// OpportunitySummary summarizes the opportunities written for this request.
// Critical counts impact scores of 9 or above, High counts 7-8.
type OpportunitySummary struct {
	Total     int `json:"total"`
	Critical  int `json:"critical"`
	High      int `json:"high"`
	QuickWins int `json:"quickWins"`
}

// Result is the outcome of one analysis request.
type Result struct {
	Record           analysisdomain.DomainRecord
	DataQualityScore int
	SourcesComplete  []string
	SourcesFailed    []string
	SourceStatuses   map[string]analysisdomain.SourceStatus
	CacheHit         bool
	Duration         time.Duration
	Opportunities    OpportunitySummary
}

// Service orchestrates the analysis pipeline: cache lookup, provider fan-out,
// scoring, persistence, and opportunity detection.
type Service struct {
	providers     Providers
	cache         ports.CacheStore
	opportunities ports.OpportunityWriter
	cfg           Config
	log           *logger.Logger
	flight        singleflight.Group
	now           func() time.Time
}

// New creates a new analysis service.
func New(providers Providers, cache ports.CacheStore, opportunities ports.OpportunityWriter, cfg Config, log *logger.Logger) *Service {
	return &Service{
		providers:     providers,
		cache:         cache,
		opportunities: opportunities,
		cfg:           cfg,
		log:           log,
		now:           time.Now,
	}
}

// Analyze runs the full pipeline for one domain. Provider and persistence
// failures degrade the result instead of failing it; only malformed input
// produces an error.
func (s *Service) Analyze(ctx context.Context, params AnalyzeParams) (*Result, error) {
	start := s.now()

	domainName := analysisdomain.NormalizeDomain(params.Domain)
	if domainName == "" {
		return nil, apperr.Validation("a valid domain is required")
	}

	if !params.SkipCache {
		entry, err := s.cache.Get(ctx, domainName)
		if err != nil {
			// A broken cache read degrades to a fresh fetch, never a failure.
			s.log.PersistenceError("cache.get", err)
		} else if entry != nil {
			return &Result{
				Record:           entry.Record(),
				DataQualityScore: entry.DataQualityScore,
				SourcesComplete:  entry.SourcesComplete,
				SourcesFailed:    entry.SourcesFailed,
				CacheHit:         true,
				Duration:         s.now().Sub(start),
			}, nil
		}
	}

	outcome, err := s.fetchCoalesced(ctx, domainName, params.SkipCache)
	if err != nil {
		return nil, err
	}
	entry := outcome.entry

	result := &Result{
		Record:           entry.Record(),
		DataQualityScore: entry.DataQualityScore,
		SourcesComplete:  entry.SourcesComplete,
		SourcesFailed:    entry.SourcesFailed,
		SourceStatuses:   outcome.statuses,
		CacheHit:         false,
	}

	// Detection only runs when the caller identified a client account; each
	// caller gets its own rows even when the fetch itself was coalesced.
	if params.ClientID != nil {
		result.Opportunities = s.detectAndPersist(ctx, *params.ClientID, entry)
	}

	result.Duration = s.now().Sub(start)
	return result, nil
}

// fetchOutcome carries a fresh fetch result through the singleflight group.
type fetchOutcome struct {
	entry    *analysisdomain.CacheEntry
	statuses map[string]analysisdomain.SourceStatus
}

// fetchCoalesced deduplicates concurrent cache-miss fetches for the same
// domain. Two simultaneous misses share one provider fan-out; the cache
// upsert stays last-writer-wins. A skip-cache request demands its own fresh
// fetch and bypasses the group.
func (s *Service) fetchCoalesced(ctx context.Context, domainName string, skipCache bool) (*fetchOutcome, error) {
	if skipCache {
		return s.fetchFresh(ctx, domainName), nil
	}

	v, err, _ := s.flight.Do(domainName, func() (interface{}, error) {
		// The flight outlives the caller that started it. If the first
		// request disconnects mid-fetch, waiting callers still get a real
		// result and the cache is not poisoned with an all-failed entry.
		return s.fetchFresh(context.WithoutCancel(ctx), domainName), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*fetchOutcome), nil
}

// fetchFresh fans out to every configured provider, waits for all branches to
// settle, scores and persists the merged result. A single provider failure
// never aborts or delays the others.
func (s *Service) fetchFresh(ctx context.Context, domainName string) *fetchOutcome {
	var (
		wg sync.WaitGroup

		companyData   *company.Data
		seoData       *seo.Data
		techData      *tech.Data
		seoCost       = decimal.Zero
		companyStatus = analysisdomain.SourceNotConfigured
		seoStatus     = analysisdomain.SourceNotConfigured
		techStatus    = analysisdomain.SourceNotConfigured
	)

	if s.providers.Company != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data, err := s.providers.Company.Lookup(ctx, domainName)
			if err != nil {
				s.log.ProviderError(analysisdomain.SourceCompany, domainName, err)
				companyStatus = analysisdomain.SourceFailed
				return
			}
			companyData = data
			if data != nil {
				companyStatus = analysisdomain.SourceSucceeded
			} else {
				// A valid "no match": the slot stays absent, but it is not a
				// provider outage.
				s.log.ProviderNoData(analysisdomain.SourceCompany, domainName)
				companyStatus = analysisdomain.SourceFailed
			}
		}()
	}

	if s.providers.SEO != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data, cost, err := s.providers.SEO.Analyze(ctx, domainName, s.cfg.SEOLocationCode)
			seoCost = cost
			if err != nil {
				s.log.ProviderError(analysisdomain.SourceSEO, domainName, err)
				seoStatus = analysisdomain.SourceFailed
				return
			}
			seoData = data
			seoStatus = analysisdomain.SourceSucceeded
		}()
	}

	if s.providers.Tech != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data, err := s.providers.Tech.Detect(ctx, "https://"+domainName)
			if err != nil {
				s.log.ProviderError(analysisdomain.SourceTech, domainName, err)
				techStatus = analysisdomain.SourceFailed
				return
			}
			techData = data
			techStatus = analysisdomain.SourceSucceeded
		}()
	}

	// Explicit join barrier: every branch runs to completion before assembly.
	wg.Wait()

	statuses := map[string]analysisdomain.SourceStatus{
		analysisdomain.SourceCompany: companyStatus,
		analysisdomain.SourceSEO:     seoStatus,
		analysisdomain.SourceTech:    techStatus,
	}

	var complete, failed []string
	for _, source := range []string{analysisdomain.SourceCompany, analysisdomain.SourceSEO, analysisdomain.SourceTech} {
		if statuses[source] == analysisdomain.SourceSucceeded {
			complete = append(complete, source)
		} else {
			failed = append(failed, source)
		}
	}

	now := s.now().UTC()
	entry := &analysisdomain.CacheEntry{
		Domain:           domainName,
		Company:          companyData,
		SEO:              seoData,
		Tech:             techData,
		DataQualityScore: qualityScore(companyData, seoData, techData),
		TotalAPICost:     seoCost,
		SourcesComplete:  complete,
		SourcesFailed:    failed,
		ExpiresAt:        now.Add(s.cfg.CacheTTL),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	// The freshly computed result is returned even when persistence fails.
	if err := s.cache.Upsert(ctx, entry); err != nil {
		s.log.PersistenceError("cache.upsert", err)
	}

	return &fetchOutcome{entry: entry, statuses: statuses}
}

// detectAndPersist runs the opportunity detector over the merged record and
// writes its findings. An empty detection is valid and writes nothing; a
// store failure is logged and reported as an empty summary.
func (s *Service) detectAndPersist(ctx context.Context, clientID uuid.UUID, entry *analysisdomain.CacheEntry) OpportunitySummary {
	opportunities := detector.Detect(entry.Company, entry.SEO, entry.Tech)
	if len(opportunities) == 0 {
		return OpportunitySummary{}
	}

	if _, err := s.opportunities.InsertMany(ctx, clientID, opportunities); err != nil {
		s.log.PersistenceError("opportunities.insert", err)
		return OpportunitySummary{}
	}

	return summarize(opportunities)
}

func summarize(opportunities []detector.Opportunity) OpportunitySummary {
	summary := OpportunitySummary{Total: len(opportunities)}
	for _, opp := range opportunities {
		switch {
		case opp.ImpactScore >= 9:
			summary.Critical++
		case opp.ImpactScore >= 7:
			summary.High++
		}
		if opp.QuickWin {
			summary.QuickWins++
		}
	}
	return summary
}
