package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/rexmarketing03-cell/planner-api/internal/config"
)

// CORS returns a CORS middleware configured from the application config.
// With no configured origins, development allows everything and any other
// environment denies everything.
func CORS(cfg *config.CORSConfig, environment string, logger *zap.Logger) func(http.Handler) http.Handler {
	options := cors.Options{
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   cfg.ExposedHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}

	wildcard := false
	for _, origin := range cfg.AllowedOrigins {
		if origin == "*" {
			wildcard = true
			break
		}
	}

	switch {
	case wildcard:
		if environment != "development" && environment != "local" {
			logger.Warn("CORS configured with wildcard origin outside development",
				zap.String("environment", environment))
		}
		options.AllowOriginFunc = func(r *http.Request, origin string) bool {
			return origin != ""
		}

	case len(cfg.AllowedOrigins) > 0:
		options.AllowedOrigins = cfg.AllowedOrigins
		logger.Info("CORS configured with explicit origins",
			zap.Strings("origins", cfg.AllowedOrigins))

	case environment == "development" || environment == "local" || environment == "":
		options.AllowOriginFunc = func(r *http.Request, origin string) bool {
			return origin != ""
		}
		logger.Info("CORS allowing all origins in development mode")

	default:
		// Empty AllowedOrigins would default to "*", so deny explicitly.
		options.AllowOriginFunc = func(r *http.Request, origin string) bool {
			return false
		}
		logger.Warn("CORS has no allowed origins; all cross-origin requests will be denied",
			zap.String("environment", environment))
	}

	return cors.Handler(options)
}
