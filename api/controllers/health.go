package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/multierr"

	"github.com/rcvillanueva/padeliver-backend/api/responses"
	"github.com/rcvillanueva/padeliver-backend/pkg/config"
	pkgerrors "github.com/rcvillanueva/padeliver-backend/pkg/errors"
	"github.com/rcvillanueva/padeliver-backend/pkg/logger"
)

const readyPingTimeout = 5 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Padeliver-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every wired dependency and reports the aggregate result.
// Nil pingers are skipped so partial deployments stay healthy.
func HealthReady(cfg *config.Config, logg *logger.Logger, db, redis, gcs, pubsub pinger) http.HandlerFunc {
	deps := []struct {
		name string
		p    pinger
	}{
		{"database", db},
		{"redis", redis},
		{"gcs", gcs},
		{"pubsub", pubsub},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Padeliver-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyPingTimeout)
		defer cancel()

		var errs []error
		checks := map[string]string{}
		for _, dep := range deps {
			if dep.p == nil {
				continue
			}
			if err := dep.p.Ping(ctx); err != nil {
				checks[dep.name] = "down"
				errs = append(errs, fmt.Errorf("%s ping failed: %w", dep.name, err))
				continue
			}
			checks[dep.name] = "up"
		}

		if combined := multierr.Combine(errs...); combined != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, combined, "readiness check failed").
					WithDetails(checks))
			return
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
