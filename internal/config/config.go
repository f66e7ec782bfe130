package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/rexmarketing03-cell/planner-api/internal/secrets"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Erp       ErpConfig
	Auth      AuthConfig
	Storage   StorageConfig
	Secrets   SecretsConfig
	Logging   LoggingConfig
	Server    ServerConfig
	Jobs      JobsConfig
	CORS      CORSConfig
	Security  SecurityConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Port        int
}

type DatabaseConfig struct {
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
}

// ErpConfig holds configuration for the MS SQL Server ERP stock feed.
// This connection is optional and read-only.
type ErpConfig struct {
	// Enabled controls whether the ERP connection is attempted
	Enabled bool
	// URL is the connection URL in format host:port/database (from ERP-URL secret)
	URL string
	// User is the database username (from ERP-USERNAME secret)
	User string
	// Password is the database password (from ERP-PASSWORD secret)
	Password string
	// MaxOpenConns is the maximum number of open connections to the database
	MaxOpenConns int
	// MaxIdleConns is the maximum number of connections in the idle connection pool
	MaxIdleConns int
	// ConnMaxLifetime is the maximum amount of time a connection may be reused (seconds)
	ConnMaxLifetime int
	// QueryTimeout is the default timeout for queries (seconds)
	QueryTimeout int
}

// AuthConfig holds bearer token settings for request attribution
type AuthConfig struct {
	// SigningSecret is the HMAC secret used to verify bearer tokens
	SigningSecret string
	// TokenTTL is the lifetime of issued tokens (seconds)
	TokenTTL int
	// Required rejects requests without a valid token when true
	Required bool
}

type StorageConfig struct {
	Mode                  string
	LocalBasePath         string
	CloudConnectionString string
	CloudContainer        string
	MaxUploadSizeMB       int64
}

type SecretsConfig struct {
	// Source determines where secrets are loaded from: "environment", "vault", or "auto"
	// "auto" uses environment in development, vault in staging/production
	Source       string
	KeyVaultName string
	CacheEnabled bool
	CacheTTL     int // seconds
}

type LoggingConfig struct {
	Level  string
	Format string
}

type ServerConfig struct {
	ReadTimeout    int
	WriteTimeout   int
	RequestTimeout int
	EnableSwagger  bool
}

// JobsConfig holds schedules for the background scheduler
type JobsConfig struct {
	// Enabled controls whether the cron scheduler starts
	Enabled bool
	// OverdueScanSchedule is the cron expression for the overdue finish date scan
	OverdueScanSchedule string
	// ErpSyncSchedule is the cron expression for the ERP material stock sync
	ErpSyncSchedule string
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	// AllowedOrigins is a list of allowed origins for CORS requests
	// Use "*" to allow all origins (not recommended for production)
	AllowedOrigins []string
	// AllowedMethods is a list of allowed HTTP methods
	AllowedMethods []string
	// AllowedHeaders is a list of allowed request headers
	AllowedHeaders []string
	// ExposedHeaders is a list of headers exposed to the client
	ExposedHeaders []string
	// AllowCredentials indicates whether credentials are allowed
	AllowCredentials bool
	// MaxAge is the max age (in seconds) for preflight cache
	MaxAge int
}

// SecurityConfig holds security header configuration
type SecurityConfig struct {
	// EnableHSTS enables HTTP Strict Transport Security header
	EnableHSTS bool
	// HSTSMaxAge is the max age for HSTS in seconds (default: 31536000 = 1 year)
	HSTSMaxAge int
	// HSTSIncludeSubdomains includes subdomains in HSTS
	HSTSIncludeSubdomains bool
	// HSTSPreload enables HSTS preload
	HSTSPreload bool
	// ContentSecurityPolicy sets the Content-Security-Policy header
	ContentSecurityPolicy string
	// FrameOptions sets the X-Frame-Options header (DENY, SAMEORIGIN, or empty to disable)
	FrameOptions string
	// ContentTypeNosniff enables X-Content-Type-Options: nosniff
	ContentTypeNosniff bool
	// XSSProtection sets the X-XSS-Protection header
	XSSProtection string
	// ReferrerPolicy sets the Referrer-Policy header
	ReferrerPolicy string
	// PermissionsPolicy sets the Permissions-Policy header
	PermissionsPolicy string
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	// Enabled enables rate limiting
	Enabled bool
	// RequestsPerMinute is the default rate limit for unauthenticated requests (per IP)
	RequestsPerMinute int
	// RequestsPerMinuteAuth is the rate limit for authenticated requests (per user)
	RequestsPerMinuteAuth int
	// BurstSize is the maximum burst size allowed
	BurstSize int
	// WhitelistIPs is a list of IPs that bypass rate limiting
	WhitelistIPs []string
	// WhitelistPaths is a list of paths that bypass rate limiting (e.g., /health)
	WhitelistPaths []string
}

// ConnectionString builds PostgreSQL connection string
func (d *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// ReadTimeoutDuration returns read timeout as duration
func (s *ServerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns write timeout as duration
func (s *ServerConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Second
}

// RequestTimeoutDuration returns request timeout as duration
func (s *ServerConfig) RequestTimeoutDuration() time.Duration {
	return time.Duration(s.RequestTimeout) * time.Second
}

// ConnMaxLifetimeDuration returns connection max lifetime as duration
func (d *DatabaseConfig) ConnMaxLifetimeDuration() time.Duration {
	return time.Duration(d.ConnMaxLifetime) * time.Second
}

// ConnMaxLifetimeDuration returns connection max lifetime as duration
func (e *ErpConfig) ConnMaxLifetimeDuration() time.Duration {
	return time.Duration(e.ConnMaxLifetime) * time.Second
}

// QueryTimeoutDuration returns query timeout as duration
func (e *ErpConfig) QueryTimeoutDuration() time.Duration {
	return time.Duration(e.QueryTimeout) * time.Second
}

// TokenTTLDuration returns token lifetime as duration
func (a *AuthConfig) TokenTTLDuration() time.Duration {
	return time.Duration(a.TokenTTL) * time.Second
}

// Load loads configuration from file and environment variables.
// This is a basic load that doesn't fetch secrets from vault.
// Use LoadWithSecrets for full secret resolution.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables override config file
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Load auth secret from environment if not in config
	if cfg.Auth.SigningSecret == "" {
		cfg.Auth.SigningSecret = v.GetString("AUTH_SIGNING_SECRET")
	}

	// Load Azure Key Vault name from environment if not in config
	if cfg.Secrets.KeyVaultName == "" {
		cfg.Secrets.KeyVaultName = v.GetString("AZURE_KEY_VAULT_NAME")
	}

	// Check for ERP_ENABLED env var override
	if v.GetBool("ERP_ENABLED") {
		cfg.Erp.Enabled = true
	}

	// NOTE: ERP credentials are ONLY loaded from Azure Key Vault.
	// They are never loaded from environment variables.
	// See LoadWithSecrets() for credential loading.

	return &cfg, nil
}

// LoadWithSecrets loads configuration and resolves secrets from the configured source.
// In development (or when secrets.source = "environment"), secrets come from env vars.
// In staging/production (or when secrets.source = "vault"), secrets come from Azure Key Vault.
//
// Key Vault is used when BOTH conditions are met:
// 1. USE_AZURE_KEY_VAULT environment variable is set to "true"
// 2. Environment is "staging" or "production"
//
// EXCEPTION: ERP credentials are ALWAYS loaded from Key Vault when
// ERP_ENABLED=true and AZURE_KEY_VAULT_NAME is configured. This allows
// stock sync in any environment while keeping credentials secure.
func LoadWithSecrets(ctx context.Context, logger *zap.Logger) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	useKeyVault := strings.ToLower(os.Getenv("USE_AZURE_KEY_VAULT")) == "true"
	isValidEnv := cfg.App.Environment == "staging" || cfg.App.Environment == "production"

	// ERP credentials are loaded from Key Vault regardless of environment
	// when the feature is enabled and Key Vault is configured
	if cfg.Erp.Enabled && cfg.Secrets.KeyVaultName != "" {
		if err := loadErpSecrets(ctx, cfg, logger); err != nil {
			logger.Warn("Failed to load ERP secrets from Key Vault",
				zap.Error(err),
				zap.String("environment", cfg.App.Environment),
			)
			// Don't fail startup - the ERP feed is optional
		}
	}

	if !useKeyVault {
		logger.Info("USE_AZURE_KEY_VAULT not enabled, using environment variables for main secrets",
			zap.String("environment", cfg.App.Environment),
		)
		return cfg, nil
	}

	if !isValidEnv {
		logger.Warn("USE_AZURE_KEY_VAULT is enabled but environment is not staging or production, using environment variables for main secrets",
			zap.String("environment", cfg.App.Environment),
			zap.Bool("use_key_vault", useKeyVault),
		)
		return cfg, nil
	}

	if cfg.Secrets.KeyVaultName == "" {
		return nil, fmt.Errorf("AZURE_KEY_VAULT_NAME is required when USE_AZURE_KEY_VAULT=true")
	}

	logger.Info("Azure Key Vault enabled for secrets",
		zap.String("environment", cfg.App.Environment),
		zap.String("key_vault_name", cfg.Secrets.KeyVaultName),
	)

	provider, err := secrets.NewProvider(&secrets.ProviderConfig{
		Source:       secrets.SourceVault,
		VaultName:    cfg.Secrets.KeyVaultName,
		Environment:  cfg.App.Environment,
		CacheEnabled: cfg.Secrets.CacheEnabled,
		CacheTTL:     time.Duration(cfg.Secrets.CacheTTL) * time.Second,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize secrets provider (USE_AZURE_KEY_VAULT=true requires valid vault): %w", err)
	}

	if !provider.IsVaultEnabled() {
		return nil, fmt.Errorf("vault provider not enabled despite USE_AZURE_KEY_VAULT=true")
	}

	logger.Info("Loading secrets from Azure Key Vault")

	// Database secrets from Key Vault.
	// Host, User, Password come from vault; Port and Database name are environment-specific.
	if host, err := provider.GetSecretOrEnv(ctx, "POSTGRES-MAIN-HOST", "DATABASE_HOST"); err == nil && host != "" {
		cfg.Database.Host = host
	}
	// Database name from DEFAULT_DATABASE env var (not in vault - varies per environment)
	if defaultDB := os.Getenv("DEFAULT_DATABASE"); defaultDB != "" {
		cfg.Database.Name = defaultDB
		logger.Info("Using DEFAULT_DATABASE environment variable for database name",
			zap.String("database", defaultDB),
		)
	}
	if user, err := provider.GetSecretOrEnv(ctx, "POSTGRES-MAIN-USER", "DATABASE_USER"); err == nil && user != "" {
		cfg.Database.User = user
	}
	if password, err := provider.GetSecretOrEnv(ctx, "POSTGRES-MAIN-PASSWORD", "DATABASE_PASSWORD"); err == nil && password != "" {
		cfg.Database.Password = password
	}
	// SSL mode from env var (Azure PostgreSQL requires "require")
	if sslMode := os.Getenv("DATABASE_SSLMODE"); sslMode != "" {
		cfg.Database.SSLMode = sslMode
	}

	// Bearer token signing secret
	if signingSecret, err := provider.GetSecretOrEnv(ctx, "auth-signing-secret", "AUTH_SIGNING_SECRET"); err == nil && signingSecret != "" {
		cfg.Auth.SigningSecret = signingSecret
	}

	// Storage connection string (for cloud storage)
	if connStr, err := provider.GetSecretOrEnv(ctx, "storage-connection-string", "STORAGE_CLOUDCONNECTIONSTRING"); err == nil && connStr != "" {
		cfg.Storage.CloudConnectionString = connStr
	}

	// Note: ERP secrets are already loaded earlier in LoadWithSecrets
	// via loadErpSecrets() regardless of environment

	logger.Info("Secrets loaded from vault successfully")
	return cfg, nil
}

// loadErpSecrets loads ERP stock feed credentials from Azure Key Vault.
// This is called regardless of environment when ERP_ENABLED=true.
// ERP credentials ONLY come from Key Vault, never from environment variables.
func loadErpSecrets(ctx context.Context, cfg *Config, logger *zap.Logger) error {
	logger.Info("Loading ERP secrets from Key Vault",
		zap.String("key_vault_name", cfg.Secrets.KeyVaultName),
		zap.String("environment", cfg.App.Environment),
	)

	provider, err := secrets.NewProvider(&secrets.ProviderConfig{
		Source:       secrets.SourceVault,
		VaultName:    cfg.Secrets.KeyVaultName,
		Environment:  cfg.App.Environment,
		CacheEnabled: cfg.Secrets.CacheEnabled,
		CacheTTL:     time.Duration(cfg.Secrets.CacheTTL) * time.Second,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize vault client for ERP feed: %w", err)
	}

	url, err := provider.GetSecret(ctx, "ERP-URL")
	if err != nil {
		return fmt.Errorf("failed to get ERP-URL from Key Vault: %w", err)
	}
	cfg.Erp.URL = url

	user, err := provider.GetSecret(ctx, "ERP-USERNAME")
	if err != nil {
		return fmt.Errorf("failed to get ERP-USERNAME from Key Vault: %w", err)
	}
	cfg.Erp.User = user

	password, err := provider.GetSecret(ctx, "ERP-PASSWORD")
	if err != nil {
		return fmt.Errorf("failed to get ERP-PASSWORD from Key Vault: %w", err)
	}
	cfg.Erp.Password = password

	logger.Info("ERP credentials loaded from Key Vault successfully")
	return nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "Planner API")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.port", 8080)

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "planner")
	v.SetDefault("database.user", "planner_user")
	v.SetDefault("database.password", "planner_password")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 25)
	v.SetDefault("database.maxIdleConns", 5)
	v.SetDefault("database.connMaxLifetime", 300)

	// ERP feed defaults (MS SQL Server - optional, read-only)
	v.SetDefault("erp.enabled", false) // Disabled by default
	v.SetDefault("erp.maxOpenConns", 10)
	v.SetDefault("erp.maxIdleConns", 2)
	v.SetDefault("erp.connMaxLifetime", 300) // 5 minutes
	v.SetDefault("erp.queryTimeout", 30)     // 30 seconds default query timeout

	// Auth defaults
	v.SetDefault("auth.tokenTTL", 86400) // 24 hours
	v.SetDefault("auth.required", false)

	// Secrets defaults
	v.SetDefault("secrets.source", "auto")
	v.SetDefault("secrets.cacheEnabled", true)
	v.SetDefault("secrets.cacheTTL", 300) // 5 minutes

	// Storage defaults
	v.SetDefault("storage.mode", "local")
	v.SetDefault("storage.localBasePath", "./storage")
	v.SetDefault("storage.maxUploadSizeMB", 50)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	// Server defaults
	v.SetDefault("server.readTimeout", 30)
	v.SetDefault("server.writeTimeout", 30)
	v.SetDefault("server.requestTimeout", 60)
	v.SetDefault("server.enableSwagger", true)

	// Background job defaults
	v.SetDefault("jobs.enabled", true)
	v.SetDefault("jobs.overdueScanSchedule", "0 6 * * *") // daily at 06:00
	v.SetDefault("jobs.erpSyncSchedule", "*/30 * * * *")  // every 30 minutes

	// CORS defaults - restrictive by default
	// In development, you may want to override with specific origins
	v.SetDefault("cors.allowedOrigins", []string{})
	v.SetDefault("cors.allowedMethods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowedHeaders", []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"})
	v.SetDefault("cors.exposedHeaders", []string{"Location", "X-Request-ID"})
	v.SetDefault("cors.allowCredentials", true)
	v.SetDefault("cors.maxAge", 300) // 5 minutes

	// Security header defaults - secure by default
	v.SetDefault("security.enableHSTS", false)    // Disabled by default, enable in production with HTTPS
	v.SetDefault("security.hstsMaxAge", 31536000) // 1 year
	v.SetDefault("security.hstsIncludeSubdomains", true)
	v.SetDefault("security.hstsPreload", false)
	v.SetDefault("security.contentSecurityPolicy", "default-src 'self'")
	v.SetDefault("security.frameOptions", "DENY")
	v.SetDefault("security.contentTypeNosniff", true)
	v.SetDefault("security.xssProtection", "1; mode=block")
	v.SetDefault("security.referrerPolicy", "strict-origin-when-cross-origin")
	v.SetDefault("security.permissionsPolicy", "geolocation=(), microphone=(), camera=()")

	// Rate limit defaults
	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.requestsPerMinute", 120)
	v.SetDefault("ratelimit.requestsPerMinuteAuth", 600)
	v.SetDefault("ratelimit.burstSize", 20)
	v.SetDefault("ratelimit.whitelistPaths", []string{"/health", "/health/ready"})
}
