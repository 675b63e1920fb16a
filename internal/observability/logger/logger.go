// Package logger builds the process-wide zap logger and the gin access-log
// middleware. Handlers and services receive the logger through fx and name
// their own children.
package logger

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	obscontext "github.com/halion16/refit-management-sub000/internal/observability/context"
)

// Config selects the logger encoding. Anything other than "production" gets
// the development console encoder.
type Config struct {
	Environment string
}

func NewLogger(cfg Config) (*zap.Logger, error) {
	var (
		log *zap.Logger
		err error
	)
	if cfg.Environment == "production" {
		log, err = zap.NewProduction()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(log)
	return log, nil
}

// FromContext returns the global logger annotated with the request id when
// one travels in the context.
func FromContext(ctx context.Context) *zap.Logger {
	log := zap.L()
	if requestID := obscontext.RequestIDFromContext(ctx); requestID != "" {
		log = log.With(zap.String("request_id", requestID))
	}
	return log
}

var Module = fx.Module("observability.logger",
	fx.Provide(NewLogger),
)

// FlushOnStop registers a lifecycle hook that syncs buffered log entries on
// shutdown.
func FlushOnStop(lc fx.Lifecycle, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			_ = log.Sync()
			return nil
		},
	})
}
