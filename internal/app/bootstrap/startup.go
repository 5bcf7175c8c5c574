// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// shutdownTracing flushes spans on exit; set by Startup.
var shutdownTracing = func(context.Context) error { return nil }

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
	})

	shutdown, err := setupTracing(ctx, appCfg.OTelEndpoint, coreCfg.Env, logger)
	if err != nil {
		return err
	}
	shutdownTracing = shutdown
	return nil
}
