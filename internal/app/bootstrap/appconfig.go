// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//
// AppConfig carries everything specific to ClubHub: the document store,
// the director session, the Google client, dues defaults, and tracing.
type AppConfig struct {
	// Document store
	StoreBackend     string // "mongo" (default) or "memory" for local demos
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: clubhub-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Cookie lifetime

	// Google OAuth configuration
	GoogleClientID     string
	GoogleClientSecret string
	DirectorEmails     string // comma-separated allow-list of director emails

	// Base URL for the OAuth callback, e.g. "https://club.example.org"
	BaseURL string

	// Dues
	DefaultDuesRate int64 // cents, used until a director saves a rate

	// Rate limiting for sign-in routes and API writes
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Handler timeouts (zero keeps the defaults)
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration

	// OTLP/HTTP trace endpoint, e.g. "localhost:4318"; blank disables export
	OTelEndpoint string
}

// Store backends.
const (
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)
