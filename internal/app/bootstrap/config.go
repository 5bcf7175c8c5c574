// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/clubhub/internal/app/system/inputval"
	"github.com/dalemusser/clubhub/internal/app/system/money"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for ClubHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: CLUBHUB_MONGO_URI, CLUBHUB_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "store_backend", Default: BackendMongo, Desc: "Document store: 'mongo' or 'memory' (demo, data is lost on exit)"},
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "clubhub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 50, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 5, Desc: "MongoDB min connection pool size"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "clubhub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "720h", Desc: "Session cookie lifetime (e.g., 24h, 720h)"},

	// Google OAuth configuration
	{Name: "google_client_id", Default: "", Desc: "Google OAuth2 client ID"},
	{Name: "google_client_secret", Default: "", Desc: "Google OAuth2 client secret"},
	{Name: "director_emails", Default: "", Desc: "Comma-separated emails allowed to sign in"},
	{Name: "base_url", Default: "http://localhost:3000", Desc: "Public base URL used for the OAuth callback"},

	{Name: "default_dues_rate", Default: "15.00", Desc: "Monthly dues until a director sets a rate (e.g., 15.00)"},

	{Name: "rate_limit_requests", Default: 30, Desc: "Requests allowed per window for sign-in and API writes, per client"},
	{Name: "rate_limit_window", Default: "1m", Desc: "Rate limit window (e.g., 1m, 30s)"},

	{Name: "timeout_short", Default: "5s", Desc: "Deadline for single-document operations"},
	{Name: "timeout_medium", Default: "10s", Desc: "Deadline for list queries and the dashboard"},
	{Name: "timeout_long", Default: "30s", Desc: "Deadline for roster saves and dues toggles"},

	{Name: "otel_endpoint", Default: "", Desc: "OTLP/HTTP trace collector host:port (blank disables tracing export)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, CLUBHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "CLUBHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	rate, err := money.ParseCents(appValues.String("default_dues_rate"))
	if err != nil {
		return nil, AppConfig{}, fmt.Errorf("default_dues_rate: %w", err)
	}

	appCfg := AppConfig{
		StoreBackend:     strings.ToLower(strings.TrimSpace(appValues.String("store_backend"))),
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 30*24*time.Hour),

		GoogleClientID:     appValues.String("google_client_id"),
		GoogleClientSecret: appValues.String("google_client_secret"),
		DirectorEmails:     appValues.String("director_emails"),
		BaseURL:            strings.TrimRight(appValues.String("base_url"), "/"),

		DefaultDuesRate: rate,

		RateLimitRequests: appValues.Int("rate_limit_requests"),
		RateLimitWindow:   appValues.Duration("rate_limit_window", time.Minute),

		TimeoutShort:  appValues.Duration("timeout_short", 0),
		TimeoutMedium: appValues.Duration("timeout_medium", 0),
		TimeoutLong:   appValues.Duration("timeout_long", 0),

		OTelEndpoint: appValues.String("otel_endpoint"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// ClubHub validates the MongoDB URI before attempting to connect and
// refuses director addresses that could never match a Google account.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	return validateAppConfig(appCfg, logger)
}

func validateAppConfig(appCfg AppConfig, logger *zap.Logger) error {
	var errs []error

	switch appCfg.StoreBackend {
	case BackendMongo:
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			errs = append(errs, fmt.Errorf("invalid MongoDB URI: %w", err))
		}
		if strings.TrimSpace(appCfg.MongoDatabase) == "" {
			errs = append(errs, errors.New("mongo_database is required"))
		}
	case BackendMemory:
		logger.Warn("using the in-memory store; data is lost on exit")
	default:
		errs = append(errs, fmt.Errorf("store_backend must be %q or %q, got %q", BackendMongo, BackendMemory, appCfg.StoreBackend))
	}

	for _, e := range strings.Split(appCfg.DirectorEmails, ",") {
		if e = strings.TrimSpace(e); e != "" && !inputval.IsValidEmail(e) {
			errs = append(errs, fmt.Errorf("director_emails: %q is not a valid email address", e))
		}
	}
	if appCfg.GoogleClientID != "" && strings.TrimSpace(appCfg.DirectorEmails) == "" {
		logger.Warn("Google sign-in is configured but director_emails is empty; nobody can sign in")
	}

	if appCfg.DefaultDuesRate <= 0 {
		errs = append(errs, fmt.Errorf("default_dues_rate must be positive (default %s)", money.Format(models.DefaultDuesRate)))
	}
	if appCfg.RateLimitRequests < 1 {
		errs = append(errs, errors.New("rate_limit_requests must be at least 1"))
	}
	if appCfg.RateLimitWindow <= 0 {
		errs = append(errs, errors.New("rate_limit_window must be positive"))
	}

	return errors.Join(errs...)
}
