// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	authgooglefeature "github.com/dalemusser/clubhub/internal/app/features/authgoogle"
	dashboardfeature "github.com/dalemusser/clubhub/internal/app/features/dashboard"
	eventsfeature "github.com/dalemusser/clubhub/internal/app/features/events"
	financesfeature "github.com/dalemusser/clubhub/internal/app/features/finances"
	healthfeature "github.com/dalemusser/clubhub/internal/app/features/health"
	logoutfeature "github.com/dalemusser/clubhub/internal/app/features/logout"
	meetingsfeature "github.com/dalemusser/clubhub/internal/app/features/meetings"
	membersfeature "github.com/dalemusser/clubhub/internal/app/features/members"
	userinfofeature "github.com/dalemusser/clubhub/internal/app/features/userinfo"
	"github.com/dalemusser/clubhub/internal/app/store/oauthstate"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/docstore"
	"github.com/dalemusser/clubhub/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed.
//
// ClubHub applies session middleware globally, mounts the sign-in routes
// behind a per-client rate limit, and mounts the JSON API under /api with
// writes rate limited.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}
	return buildRouter(appCfg, deps.Store, sessionMgr, logger), nil
}

func buildRouter(appCfg AppConfig, ds docstore.Store, sessionMgr *auth.SessionManager, logger *zap.Logger) chi.Router {
	limiter := ratelimit.New(appCfg.RateLimitRequests, appCfg.RateLimitWindow)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if signed in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(ds, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication
	r.Group(func(ar chi.Router) {
		ar.Use(limiter.Middleware(logger))

		googleHandler := authgooglefeature.NewHandler(
			sessionMgr,
			oauthstate.New(ds),
			auth.ParseDirectors(appCfg.DirectorEmails),
			appCfg.GoogleClientID,
			appCfg.GoogleClientSecret,
			appCfg.BaseURL,
			logger,
		)
		ar.Mount("/auth/google", authgooglefeature.Routes(googleHandler))

		logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
		ar.Mount("/auth/logout", logoutfeature.Routes(logoutHandler, sessionMgr))
	})
	userinfofeature.MountRoutes(r, userinfofeature.NewHandler())

	// JSON API; every feature router requires a director session.
	r.Route("/api", func(api chi.Router) {
		api.Use(limiter.WriteMiddleware(logger))

		dashboardHandler := dashboardfeature.NewHandler(ds, logger)
		api.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

		membersHandler := membersfeature.NewHandler(ds, logger)
		api.Mount("/members", membersfeature.Routes(membersHandler, sessionMgr))

		meetingsHandler := meetingsfeature.NewHandler(ds, logger)
		api.Mount("/meetings", meetingsfeature.Routes(meetingsHandler, sessionMgr))

		eventsHandler := eventsfeature.NewHandler(ds, logger)
		api.Mount("/events", eventsfeature.Routes(eventsHandler, sessionMgr))

		financesHandler := financesfeature.NewHandler(ds, appCfg.DefaultDuesRate, logger)
		api.Mount("/finances", financesfeature.Routes(financesHandler, sessionMgr))
	})

	return r
}
