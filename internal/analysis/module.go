// Package analysis provides the composition root for the domain analysis
// bounded context.
package analysis

import (
	"domainintel_backend/internal/analysis/handler"
	"domainintel_backend/internal/analysis/repository"
	"domainintel_backend/internal/analysis/service"
	apphttp "domainintel_backend/internal/http"
	opportunityrepo "domainintel_backend/internal/opportunities/repository"
	"domainintel_backend/internal/providers/company"
	"domainintel_backend/internal/providers/seo"
	"domainintel_backend/internal/providers/tech"
	"domainintel_backend/platform/config"
	"domainintel_backend/platform/logger"
	"domainintel_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ModuleConfig combines the config interfaces this module needs.
type ModuleConfig interface {
	config.CacheConfig
	config.ProviderConfig
}

// Module wires the analysis service and its HTTP handler.
type Module struct {
	service *service.Service
	handler *handler.Handler
}

// NewModule creates and initializes the analysis module. Providers whose
// credentials are absent are not constructed; their fan-out slots report
// "not configured".
func NewModule(pool *pgxpool.Pool, cfg ModuleConfig, val *validator.Validator, log *logger.Logger) *Module {
	providers := service.Providers{}

	if cfg.IsCompanyProviderEnabled() {
		providers.Company = company.New(cfg.GetCompanyAPIKey(), log)
	} else {
		log.Info("company provider disabled: COMPANY_API_KEY not configured")
	}
	if cfg.IsSEOProviderEnabled() {
		providers.SEO = seo.New(cfg.GetSEOAPILogin(), cfg.GetSEOAPIPassword(), log)
	} else {
		log.Info("seo provider disabled: SEO_API_LOGIN / SEO_API_PASSWORD not configured")
	}
	if cfg.IsTechProviderEnabled() {
		providers.Tech = tech.New(cfg.GetTechAPIKey(), log)
	} else {
		log.Info("tech provider disabled: TECH_API_KEY not configured")
	}

	cacheStore := repository.NewCache(pool)
	opportunityStore := opportunityrepo.New(pool)

	svc := service.New(providers, cacheStore, opportunityStore, service.Config{
		CacheTTL:        cfg.GetCacheTTL(),
		SEOLocationCode: cfg.GetSEOLocationCode(),
	}, log)

	return &Module{
		service: svc,
		handler: handler.New(svc, val),
	}
}

// Name implements the HTTP module interface.
func (m *Module) Name() string { return "analysis" }

// RegisterRoutes mounts the module's routes under /api/v1/analysis.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/analysis"))
}

// Service returns the analysis service for external use.
func (m *Module) Service() *service.Service {
	return m.service
}
