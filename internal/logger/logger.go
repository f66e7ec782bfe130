package logger

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rexmarketing03-cell/planner-api/internal/config"
)

// NewLogger creates the structured logger used across the planner. Production
// and json-format configs log machine-readable output with RFC3339 timestamps;
// development logs are colorized for the console.
func NewLogger(cfg *config.LoggingConfig, appCfg *config.AppConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" || appCfg.Environment == "production" {
		zapCfg = zap.NewProductionConfig()
		zapCfg.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	zapCfg.InitialFields = map[string]interface{}{
		"service":     appCfg.Name,
		"environment": appCfg.Environment,
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return logger, nil
}

// WithJob scopes a logger to one job for workflow and scan logging
func WithJob(logger *zap.Logger, jobNumber string, jobID uuid.UUID) *zap.Logger {
	return logger.With(
		zap.String("job_number", jobNumber),
		zap.String("job_id", jobID.String()),
	)
}

// WithDrawing scopes a logger to one drawing
func WithDrawing(logger *zap.Logger, name string, drawingID uuid.UUID) *zap.Logger {
	return logger.With(
		zap.String("drawing", name),
		zap.String("drawing_id", drawingID.String()),
	)
}
