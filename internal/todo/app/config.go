package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Identity provider. Authority is the issuer URL; the token, revoke
	// and JWKS endpoints default to the Keycloak realm layout beneath it.
	OIDCAuthority string // Required: e.g. https://idp.example.com/realms/todo
	OIDCTokenURL  string // Optional: override token endpoint
	OIDCRevokeURL string // Optional: override revocation endpoint
	OIDCJWKSURL   string // Optional: override JWKS endpoint
	OIDCScope     string // Optional: scope requested on every grant (default: openid)
	OIDCTimeout   time.Duration

	// Claim mapping. Empty values fall back to the provider-neutral
	// defaults (sub/preferred_username, roles, sid/session_state).
	SubjectClaims []string
	RoleClaim     string
	SessionClaims []string
	UsernameClaim string
	TokenLeeway   time.Duration // Optional: clock-skew allowance on exp

	// Authorization. SharedRole grants every operation; per-operation
	// role lists override it when set.
	SharedRole  string
	ListRoles   []string
	ReadRoles   []string
	CreateRoles []string
	UpdateRoles []string
	DeleteRoles []string

	DatabaseFile        string        // Optional: path to SQLite database file (default: ./todo.db)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	// A local .env is honored when present; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	return Config{
		OIDCAuthority: os.Getenv("OIDC_AUTHORITY"),
		OIDCTokenURL:  os.Getenv("OIDC_TOKEN_URL"),
		OIDCRevokeURL: os.Getenv("OIDC_REVOKE_URL"),
		OIDCJWKSURL:   os.Getenv("OIDC_JWKS_URL"),
		OIDCScope:     getEnvOrDefault("OIDC_SCOPE", "openid"),
		OIDCTimeout:   getEnvDurationOrDefault("OIDC_TIMEOUT", 10*time.Second),

		SubjectClaims: getEnvFieldsOrNil("OIDC_SUBJECT_CLAIMS"),
		RoleClaim:     os.Getenv("OIDC_ROLE_CLAIM"),
		SessionClaims: getEnvFieldsOrNil("OIDC_SESSION_CLAIMS"),
		UsernameClaim: os.Getenv("OIDC_USERNAME_CLAIM"),
		TokenLeeway:   getEnvDurationOrDefault("OIDC_TOKEN_LEEWAY", 0),

		SharedRole:  getEnvOrDefault("TODO_SHARED_ROLE", "todo-user"),
		ListRoles:   getEnvFieldsOrNil("TODO_LIST_ROLES"),
		ReadRoles:   getEnvFieldsOrNil("TODO_READ_ROLES"),
		CreateRoles: getEnvFieldsOrNil("TODO_CREATE_ROLES"),
		UpdateRoles: getEnvFieldsOrNil("TODO_UPDATE_ROLES"),
		DeleteRoles: getEnvFieldsOrNil("TODO_DELETE_ROLES"),

		DatabaseFile:        getEnvOrDefault("TODO_DATABASE_FILE", "todo.db"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}

// getEnvFieldsOrNil splits a space-delimited env value into fields,
// returning nil when unset so defaults apply downstream.
func getEnvFieldsOrNil(key string) []string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return nil
	}
	return strings.Fields(value)
}
