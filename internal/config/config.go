package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"

	"github.com/Nicki-CheckM/check-certificado/internal/apperr"
)

const (
	// DefaultRedirectURI is the callback page registered with Google.
	DefaultRedirectURI = "https://check-certificado.vercel.app/oauth2callback"
	// AuthURL is Google's consent screen.
	AuthURL = "https://accounts.google.com/o/oauth2/v2/auth"
	// DriveEndpoint is the Drive v3 REST base path.
	DriveEndpoint = "https://www.googleapis.com/drive/v3/"
)

// Scopes requested on the consent screen.
var Scopes = []string{drive.DriveFileScope}

// Config holds all configuration for the application. It is built once at
// start-up and never mutated afterwards.
type Config struct {
	Port         string
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Scopes       []string
	AuthURL      string
	TokenURL     string
	DriveURL     string

	// StateSecret signs the OAuth state parameter. Empty disables it.
	StateSecret string
	// UpstreamTimeout bounds every call to Google. Zero means no limit.
	UpstreamTimeout time.Duration
	MaxUploadBytes  int64
	// Compensate deletes a half-created Drive file when a later upload step fails.
	Compensate bool

	TokenStore    string
	TokenStoreDSN string
}

// Load loads configuration from environment variables. A .env file in the
// working directory is read first if present; real environment variables
// take precedence over it.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:            getEnv("PORT", "8080"),
		ClientID:        getEnv("GOOGLE_CLIENT_ID", ""),
		ClientSecret:    getEnv("GOOGLE_CLIENT_SECRET", ""),
		RedirectURI:     getEnv("OAUTH_REDIRECT_URI", DefaultRedirectURI),
		Scopes:          append([]string(nil), Scopes...),
		AuthURL:         getEnv("GOOGLE_AUTH_URL", AuthURL),
		TokenURL:        getEnv("GOOGLE_TOKEN_URL", google.Endpoint.TokenURL),
		DriveURL:        getEnv("DRIVE_ENDPOINT", DriveEndpoint),
		StateSecret:     getEnv("STATE_SECRET", ""),
		UpstreamTimeout: getDuration("UPSTREAM_TIMEOUT", 30*time.Second),
		MaxUploadBytes:  getInt64("MAX_UPLOAD_BYTES", 50<<20),
		Compensate:      getBool("DRIVE_COMPENSATE", false),
		TokenStore:      getEnv("TOKEN_STORE", "memory"),
		TokenStoreDSN:   getEnv("TOKEN_STORE_DSN", ""),
	}
}

// Validate reports missing OAuth client credentials.
func (c *Config) Validate() error {
	const op = "config.Validate"
	var missing []string
	if c.ClientID == "" {
		missing = append(missing, "GOOGLE_CLIENT_ID")
	}
	if c.ClientSecret == "" {
		missing = append(missing, "GOOGLE_CLIENT_SECRET")
	}
	if len(missing) > 0 {
		return apperr.E(op, apperr.Configuration, "missing OAuth client configuration: "+strings.Join(missing, ", "), nil)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return defaultValue
}

func getInt64(key string, defaultValue int64) int64 {
	if n, err := strconv.ParseInt(os.Getenv(key), 10, 64); err == nil && n > 0 {
		return n
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultValue
}
