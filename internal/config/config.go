package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	DBPath          string
	ApiBaseUrl      string
	TenantAPIKey    string
	CountryCacheTTL time.Duration
	PackageCacheTTL time.Duration
	ESimCacheTTL    time.Duration
	RetrySpacing    time.Duration
}

func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv("PORT", "5000"),
		DBPath:          getEnv("DATABASE_PATH", "pangea.db"),
		ApiBaseUrl:      getEnv("PANGEA_API_BASE_URL", "https://api.pangea.dev/api"),
		TenantAPIKey:    getEnv("PANGEA_TENANT_API_KEY", ""),
		CountryCacheTTL: getEnvDuration("COUNTRY_CACHE_TTL", 24*time.Hour),
		PackageCacheTTL: getEnvDuration("PACKAGE_CACHE_TTL", 30*time.Minute),
		ESimCacheTTL:    getEnvDuration("ESIM_CACHE_TTL", time.Hour),
		RetrySpacing:    getEnvDuration("ESIM_RETRY_SPACING", 2*time.Second),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	val, err := time.ParseDuration(strValue)
	if err != nil {
		return fallback
	}
	return val
}
