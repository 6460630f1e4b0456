package config

import "time"

const (
	envPort       = "PORT"
	envSiteOrigin = "SITE_ORIGIN"

	envSportMonksBaseURL = "SPORTMONKS_BASE_URL"
	envSportMonksToken   = "SPORTMONKS_API_TOKEN"
	envCMSBaseURL        = "CMS_BASE_URL"
	envCMSToken          = "CMS_API_TOKEN"

	envLiveCacheTTL      = "LIVE_CACHE_TTL"
	envCountriesCacheTTL = "COUNTRIES_CACHE_TTL"

	envMetricsPort  = "METRICS_PORT"
	envMetricsOn    = "METRICS_ENABLED"
	envOtelEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService  = "OTEL_SERVICE_NAME"
	envOtelInsecure = "OTEL_EXPORTER_OTLP_INSECURE"

	defaultPort        = "4000"
	defaultMetricsPort = "9090"

	defaultSportMonksBaseURL = "https://cricket.sportmonks.com/api/v2.0"

	// Live scores are refetched at most once per window; the window is fixed
	// per deployment, not per request.
	defaultLiveCacheTTL = 60 * Duration(time.Second)
	// The countries list changes essentially never.
	defaultCountriesCacheTTL = 24 * Duration(time.Hour)
)
