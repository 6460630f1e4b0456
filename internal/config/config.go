package config

// Config holds runtime configuration for the server.
type Config struct {
	Port       string
	SiteOrigin string
	SportMonks UpstreamConfig
	CMS        UpstreamConfig
	Cache      CacheConfig
	Metrics    MetricsConfig
}

// UpstreamConfig identifies one upstream JSON API. Token absence is not an
// error at load time; routes that need the upstream fail with an error
// naming the missing variable.
type UpstreamConfig struct {
	BaseURL  string
	Token    string
	TokenEnv string
}

// CacheConfig sets the freshness windows for the request-path caches.
type CacheConfig struct {
	LiveTTL      Duration
	CountriesTTL Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Port:       envOrDefault(envPort, defaultPort),
		SiteOrigin: envOrDefault(envSiteOrigin, ""),
		SportMonks: UpstreamConfig{
			BaseURL:  envOrDefault(envSportMonksBaseURL, defaultSportMonksBaseURL),
			Token:    envOrDefault(envSportMonksToken, ""),
			TokenEnv: envSportMonksToken,
		},
		CMS: UpstreamConfig{
			BaseURL:  envOrDefault(envCMSBaseURL, ""),
			Token:    envOrDefault(envCMSToken, ""),
			TokenEnv: envCMSToken,
		},
		Cache: CacheConfig{
			LiveTTL:      durationEnvOrDefault(envLiveCacheTTL, defaultLiveCacheTTL),
			CountriesTTL: durationEnvOrDefault(envCountriesCacheTTL, defaultCountriesCacheTTL),
		},
		Metrics: loadMetrics(),
	}
}
