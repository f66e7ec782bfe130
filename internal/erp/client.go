// Package erp provides read-only connectivity to the MS SQL Server ERP system.
// This package is used for querying material stock levels so that drawings
// waiting on material can be released automatically when stock arrives.
package erp

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/microsoft/go-mssqldb" // MS SQL Server driver
	"go.uber.org/zap"

	"github.com/rexmarketing03-cell/planner-api/internal/config"
)

const (
	// Default retry configuration for connection attempts
	defaultMaxRetries     = 3
	defaultInitialBackoff = 1 * time.Second
	defaultMaxBackoff     = 10 * time.Second
	defaultBackoffFactor  = 2.0

	// Default health check timeout
	defaultHealthCheckTimeout = 5 * time.Second
)

// Client provides read-only access to the MS SQL Server ERP database.
// It manages connection pooling and provides typed queries for stock data.
type Client struct {
	db           *sql.DB
	config       *config.ErpConfig
	logger       *zap.Logger
	queryTimeout time.Duration
}

// MaterialStock is one row of the ERP stock feed
type MaterialStock struct {
	MaterialCode   string
	Description    string
	QuantityOnHand float64
	ExpectedDate   string // YYYY-MM-DD, empty when nothing is inbound
}

// HealthStatus represents the health check result for the ERP connection
type HealthStatus struct {
	Status     string        `json:"status"`
	Latency    time.Duration `json:"latency_ms"`
	Error      string        `json:"error,omitempty"`
	MaxOpen    int           `json:"max_open_connections"`
	Open       int           `json:"open_connections"`
	InUse      int           `json:"in_use"`
	Idle       int           `json:"idle"`
	WaitCount  int64         `json:"wait_count"`
	WaitTimeMs int64         `json:"wait_time_ms"`
}

// NewClient creates a new ERP client with the given configuration.
// Returns nil if the ERP feed is not enabled or not configured.
// The client establishes a connection pool with retry logic for transient failures.
func NewClient(cfg *config.ErpConfig, logger *zap.Logger) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		logger.Info("ERP connection disabled")
		return nil, nil
	}

	if cfg.URL == "" || cfg.User == "" || cfg.Password == "" {
		logger.Warn("ERP enabled but missing credentials, skipping connection",
			zap.Bool("url_present", cfg.URL != ""),
			zap.Bool("user_present", cfg.User != ""),
			zap.Bool("password_present", cfg.Password != ""),
		)
		return nil, nil
	}

	logger.Info("Initializing ERP connection",
		zap.Int("max_open_conns", cfg.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.MaxIdleConns),
		zap.Int("conn_max_lifetime_seconds", cfg.ConnMaxLifetime),
		zap.Int("query_timeout_seconds", cfg.QueryTimeout),
	)

	connStr, err := buildConnectionString(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build connection string: %w", err)
	}

	var db *sql.DB
	backoff := defaultInitialBackoff

	for attempt := 1; attempt <= defaultMaxRetries; attempt++ {
		logger.Info("Attempting ERP connection",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", defaultMaxRetries),
		)

		db, err = sql.Open("sqlserver", connStr)
		if err != nil {
			logger.Warn("Failed to open ERP connection",
				zap.Error(err),
				zap.Int("attempt", attempt),
			)
			if attempt < defaultMaxRetries {
				time.Sleep(backoff)
				backoff = min(time.Duration(float64(backoff)*defaultBackoffFactor), defaultMaxBackoff)
			}
			continue
		}

		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

		ctx, cancel := context.WithTimeout(context.Background(), defaultHealthCheckTimeout)
		err = db.PingContext(ctx)
		cancel()

		if err != nil {
			logger.Warn("ERP ping failed",
				zap.Error(err),
				zap.Int("attempt", attempt),
			)
			_ = db.Close()
			if attempt < defaultMaxRetries {
				time.Sleep(backoff)
				backoff = min(time.Duration(float64(backoff)*defaultBackoffFactor), defaultMaxBackoff)
			}
			continue
		}

		logger.Info("ERP connection established successfully",
			zap.Int("attempts_taken", attempt),
		)

		return &Client{
			db:           db,
			config:       cfg,
			logger:       logger,
			queryTimeout: cfg.QueryTimeoutDuration(),
		}, nil
	}

	return nil, fmt.Errorf("failed to connect to ERP after %d attempts: %w", defaultMaxRetries, err)
}

// buildConnectionString constructs a SQL Server connection string from the config.
// URL format expected: host:port/database or host:port (uses default database)
func buildConnectionString(cfg *config.ErpConfig) (string, error) {
	urlParts := strings.SplitN(cfg.URL, "/", 2)
	hostPort := urlParts[0]
	database := ""
	if len(urlParts) > 1 {
		database = urlParts[1]
	}

	hostParts := strings.SplitN(hostPort, ":", 2)
	host := hostParts[0]
	port := "1433" // Default SQL Server port
	if len(hostParts) > 1 {
		port = hostParts[1]
	}

	query := url.Values{}
	query.Add("encrypt", "true")
	query.Add("TrustServerCertificate", "false")
	query.Add("connection timeout", "30")
	if database != "" {
		query.Add("database", database)
	}

	u := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%s", host, port),
		RawQuery: query.Encode(),
	}

	return u.String(), nil
}

// Close gracefully closes the ERP connection.
// Should be called during application shutdown.
func (c *Client) Close() error {
	if c == nil || c.db == nil {
		return nil
	}

	c.logger.Info("Closing ERP connection")

	if err := c.db.Close(); err != nil {
		c.logger.Error("Failed to close ERP connection", zap.Error(err))
		return fmt.Errorf("failed to close ERP connection: %w", err)
	}

	return nil
}

// HealthCheck performs a health check on the ERP connection.
// Returns detailed status including connection pool statistics.
func (c *Client) HealthCheck(ctx context.Context) *HealthStatus {
	if c == nil || c.db == nil {
		return &HealthStatus{
			Status: "disabled",
		}
	}

	start := time.Now()

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultHealthCheckTimeout)
		defer cancel()
	}

	err := c.db.PingContext(ctx)
	latency := time.Since(start)

	stats := c.db.Stats()
	status := &HealthStatus{
		Latency:    latency,
		MaxOpen:    stats.MaxOpenConnections,
		Open:       stats.OpenConnections,
		InUse:      stats.InUse,
		Idle:       stats.Idle,
		WaitCount:  stats.WaitCount,
		WaitTimeMs: stats.WaitDuration.Milliseconds(),
	}

	if err != nil {
		c.logger.Warn("ERP health check failed",
			zap.Error(err),
			zap.Duration("latency", latency),
		)
		status.Status = "unhealthy"
		status.Error = err.Error()
	} else {
		status.Status = "healthy"
	}

	return status
}

// FetchMaterialStock returns the current stock level for each of the given
// material codes. Codes with no matching ERP row are absent from the result.
func (c *Client) FetchMaterialStock(ctx context.Context, materialCodes []string) (map[string]MaterialStock, error) {
	if c == nil || c.db == nil {
		return nil, fmt.Errorf("erp client not initialized")
	}
	if len(materialCodes) == 0 {
		return map[string]MaterialStock{}, nil
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.queryTimeout)
		defer cancel()
	}

	placeholders := make([]string, len(materialCodes))
	args := make([]interface{}, len(materialCodes))
	for i, code := range materialCodes {
		placeholders[i] = fmt.Sprintf("@p%d", i+1)
		args[i] = code
	}

	query := fmt.Sprintf(`SELECT MaterialCode, Description, QuantityOnHand,
			COALESCE(CONVERT(varchar(10), ExpectedDate, 23), '') AS ExpectedDate
		FROM dbo.MaterialStock
		WHERE MaterialCode IN (%s)`, strings.Join(placeholders, ", "))

	start := time.Now()

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		c.logger.Error("ERP stock query failed",
			zap.Error(err),
			zap.Int("codes", len(materialCodes)),
			zap.Duration("duration", time.Since(start)),
		)
		return nil, fmt.Errorf("stock query failed: %w", err)
	}
	defer rows.Close()

	result := make(map[string]MaterialStock, len(materialCodes))
	for rows.Next() {
		var row MaterialStock
		if err := rows.Scan(&row.MaterialCode, &row.Description, &row.QuantityOnHand, &row.ExpectedDate); err != nil {
			return nil, fmt.Errorf("failed to scan stock row: %w", err)
		}
		result[row.MaterialCode] = row
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stock rows: %w", err)
	}

	c.logger.Debug("ERP stock query completed",
		zap.Int("rows_returned", len(result)),
		zap.Duration("duration", time.Since(start)),
	)

	return result, nil
}
