package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/914h/BabImmob-sub000/internal/core/domain"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// DefaultAPIBaseURL is used when API_BASE_URL is not set
const DefaultAPIBaseURL = "http://localhost:8000/api"

// Config holds all configuration for the application
type Config struct {
	AppMode  string
	Port     string
	LogLevel string
	API      APIConfig
	Database DatabaseConfig
	Session  SessionConfig
	Cookie   CookieConfig
	Upload   UploadConfig
	Listing  ListingConfig
}

// APIConfig describes the external BabImmob REST API
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// DatabaseConfig holds database configuration for the session store
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// SessionConfig holds server-side session settings
type SessionConfig struct {
	CookieName        string
	TTL               time.Duration
	RevalidateEvery   time.Duration
	SweepSpec         string
	PermittedRoles    domain.RoleSet
	permittedRolesCSV string
}

// CookieConfig holds cookie configuration
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
}

// UploadConfig limits multipart uploads accepted by the forms
type UploadConfig struct {
	MaxBytes int64
}

// ListingConfig holds public listing defaults
type ListingConfig struct {
	PerPage        int
	SearchDebounce time.Duration
}

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, using environment variables")
	}

	// Trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	database, err := loadDatabaseConfig(appMode)
	if err != nil {
		return nil, err
	}

	session, err := loadSessionConfig()
	if err != nil {
		return nil, err
	}

	apiConfig, err := loadAPIConfig()
	if err != nil {
		return nil, err
	}

	config := &Config{
		AppMode:  appMode,
		Port:     getEnv("PORT", "3000"),
		LogLevel: getEnv("LOG_LEVEL", defaultLogLevel(appMode)),
		API:      apiConfig,
		Database: database,
		Session:  session,
		Cookie:   loadCookieConfig(appMode),
		Upload: UploadConfig{
			MaxBytes: int64(getEnvInt("UPLOAD_MAX_MB", 8)) << 20,
		},
		Listing: ListingConfig{
			PerPage:        getEnvInt("LISTING_PER_PAGE", 12),
			SearchDebounce: time.Duration(getEnvInt("LISTING_SEARCH_DEBOUNCE_MS", 350)) * time.Millisecond,
		},
	}

	log.Info().Str("mode", appMode).Str("api", config.API.BaseURL).Msg("✅ Configuration loaded successfully")
	return config, nil
}

// loadAPIConfig falls back to the local API when API_BASE_URL is absent
func loadAPIConfig() (APIConfig, error) {
	timeout := getEnvInt("API_TIMEOUT_SECONDS", 15)
	if timeout <= 0 {
		return APIConfig{}, fmt.Errorf("API_TIMEOUT_SECONDS must be > 0")
	}

	return APIConfig{
		BaseURL: strings.TrimRight(getEnv("API_BASE_URL", DefaultAPIBaseURL), "/"),
		Timeout: time.Duration(timeout) * time.Second,
	}, nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) (DatabaseConfig, error) {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	driver := strings.ToLower(getEnv("DB_DRIVER", "mysql"))
	defaultPort := "3306"
	switch driver {
	case "mysql":
	case "postgres":
		defaultPort = "5432"
	default:
		return DatabaseConfig{}, fmt.Errorf("invalid DB_DRIVER: '%s' (must be 'mysql' or 'postgres')", driver)
	}

	return DatabaseConfig{
		Driver:   driver,
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", defaultPort),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "babimmob_front"),
	}, nil
}

// loadSessionConfig loads session store settings
func loadSessionConfig() (SessionConfig, error) {
	rolesCSV := getEnv("AUTH_PERMITTED_ROLES", "admin,owner,client")
	roles, err := domain.ParseRoleSet(rolesCSV)
	if err != nil {
		return SessionConfig{}, fmt.Errorf("invalid AUTH_PERMITTED_ROLES '%s': %w", rolesCSV, err)
	}
	if len(roles) == 0 {
		return SessionConfig{}, fmt.Errorf("AUTH_PERMITTED_ROLES must list at least one role")
	}

	ttlHours := getEnvInt("SESSION_TTL_HOURS", 24)
	if ttlHours <= 0 {
		return SessionConfig{}, fmt.Errorf("SESSION_TTL_HOURS must be > 0")
	}

	return SessionConfig{
		CookieName:        getEnv("SESSION_COOKIE_NAME", "babimmob_session"),
		TTL:               time.Duration(ttlHours) * time.Hour,
		RevalidateEvery:   time.Duration(getEnvInt("SESSION_REVALIDATE_SECONDS", 0)) * time.Second,
		SweepSpec:         getEnv("SESSION_SWEEP_SPEC", "@every 1h"),
		PermittedRoles:    roles,
		permittedRolesCSV: rolesCSV,
	}, nil
}

// loadCookieConfig loads cookie config based on mode
func loadCookieConfig(mode string) CookieConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	secure, _ := strconv.ParseBool(getEnv(prefix+"COOKIE_SECURE", "false"))

	return CookieConfig{
		Secure:   secure,
		SameSite: getEnv("COOKIE_SAMESITE", "lax"),
		Domain:   getEnv("COOKIE_DOMAIN", ""),
	}
}

func defaultLogLevel(mode string) string {
	if mode == "prod" {
		return "info"
	}
	return "debug"
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable, falling back on parse errors
func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(getEnv(key, strconv.Itoa(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return n
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// PermittedRolesCSV returns the permitted login roles as configured
func (c *Config) PermittedRolesCSV() string {
	return c.Session.permittedRolesCSV
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "https://babimmob.com"
	}
	return origins
}
