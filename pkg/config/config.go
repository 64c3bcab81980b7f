package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database     DatabaseConfig
	Redis        RedisConfig
	CORS         CORSConfig
	Log          LogConfig
	Availability AvailabilityConfig
	LibCal       LibCalConfig
	Exports      ExportsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// AvailabilityConfig tunes the room status resolution thresholds and the
// composed payload cache.
type AvailabilityConfig struct {
	Timezone                 string
	MinUsefulMinutes         int
	OpeningSoonWindowMinutes int
	PassingPeriodMaxMinutes  int
	CacheEnabled             bool
	CacheTTL                 time.Duration
	RefreshEnabled           bool
	RefreshInterval          time.Duration
}

// LibCalConfig points at the upstream library booking service.
type LibCalConfig struct {
	SpacesURL string
	GridURL   string
	Origin    string
	UserAgent string
	Timeout   time.Duration
}

// ExportsConfig gates the schedule export endpoint.
type ExportsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Availability = AvailabilityConfig{
		Timezone:                 v.GetString("AVAILABILITY_TIMEZONE"),
		MinUsefulMinutes:         v.GetInt("AVAILABILITY_MIN_USEFUL_MINUTES"),
		OpeningSoonWindowMinutes: v.GetInt("AVAILABILITY_OPENING_SOON_WINDOW_MINUTES"),
		PassingPeriodMaxMinutes:  v.GetInt("AVAILABILITY_PASSING_PERIOD_MAX_MINUTES"),
		CacheEnabled:             v.GetBool("AVAILABILITY_CACHE_ENABLED"),
		CacheTTL:                 parseDuration(v.GetString("AVAILABILITY_CACHE_TTL"), time.Minute),
		RefreshEnabled:           v.GetBool("AVAILABILITY_REFRESH_ENABLED"),
		RefreshInterval:          parseDuration(v.GetString("AVAILABILITY_REFRESH_INTERVAL"), 5*time.Minute),
	}

	cfg.LibCal = LibCalConfig{
		SpacesURL: v.GetString("LIBCAL_SPACES_URL"),
		GridURL:   v.GetString("LIBCAL_GRID_URL"),
		Origin:    v.GetString("LIBCAL_ORIGIN"),
		UserAgent: v.GetString("LIBCAL_USER_AGENT"),
		Timeout:   parseDuration(v.GetString("LIBCAL_TIMEOUT"), 15*time.Second),
	}

	cfg.Exports = ExportsConfig{
		Enabled: v.GetBool("ENABLE_EXPORTS"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "illinispots")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("AVAILABILITY_TIMEZONE", "America/Chicago")
	v.SetDefault("AVAILABILITY_MIN_USEFUL_MINUTES", 30)
	v.SetDefault("AVAILABILITY_OPENING_SOON_WINDOW_MINUTES", 20)
	v.SetDefault("AVAILABILITY_PASSING_PERIOD_MAX_MINUTES", 15)
	v.SetDefault("AVAILABILITY_CACHE_ENABLED", false)
	v.SetDefault("AVAILABILITY_CACHE_TTL", "1m")
	v.SetDefault("AVAILABILITY_REFRESH_ENABLED", false)
	v.SetDefault("AVAILABILITY_REFRESH_INTERVAL", "5m")

	v.SetDefault("LIBCAL_SPACES_URL", "https://uiuc.libcal.com/allspaces")
	v.SetDefault("LIBCAL_GRID_URL", "https://uiuc.libcal.com/spaces/availability/grid")
	v.SetDefault("LIBCAL_ORIGIN", "https://uiuc.libcal.com")
	v.SetDefault("LIBCAL_USER_AGENT", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/130.0.0.0 Safari/537.36")
	v.SetDefault("LIBCAL_TIMEOUT", "15s")

	v.SetDefault("ENABLE_EXPORTS", false)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
