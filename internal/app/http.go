package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/vfuster66/Batmodule-dev-sub002/internal/auth"
	"github.com/vfuster66/Batmodule-dev-sub002/internal/auth/credentials"
	authhandler "github.com/vfuster66/Batmodule-dev-sub002/internal/auth/handler"
	"github.com/vfuster66/Batmodule-dev-sub002/internal/clients"
	"github.com/vfuster66/Batmodule-dev-sub002/internal/config"
	"github.com/vfuster66/Batmodule-dev-sub002/internal/csrf"
	"github.com/vfuster66/Batmodule-dev-sub002/internal/middleware"
	"github.com/vfuster66/Batmodule-dev-sub002/internal/rgpd"
	"github.com/vfuster66/Batmodule-dev-sub002/internal/session"
)

func setupHTTP(ctx context.Context, cfg config.Config, log *slog.Logger) (*gin.Engine, func() error, error) {

	if err := checkSecrets(cfg, log); err != nil {
		return nil, nil, err
	}

	infra, err := setupInfra(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	sessionStore := session.NewRedisStore(infra.Redis.Client)
	sessionManager := session.NewManager(sessionStore, cfg.SessionSecret.Value, log, cfg.IsProduction())

	csrfService := csrf.NewService(cfg.CSRFSecret.Value)
	tokenService := auth.NewTokenService(cfg.JWTSecret.Value)

	credentialService := credentials.NewService(infra.DB)
	clientRepo := clients.NewRepository(infra.DB)

	authHandler := authhandler.NewHandler(credentialService, tokenService, csrfService)
	clientHandler := clients.NewHandler(clientRepo)
	rgpdHandler := rgpd.NewHandler(credentialService, clientRepo)

	// ----------------------------
	// Router
	// ----------------------------

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID(log))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Every /api request runs the same chain: resolve the session, pick
	// up an eventual bearer token, mint a CSRF token for the session,
	// then gate state-changing methods behind the guard.
	api := router.Group("/api")
	api.Use(sessionManager.Middleware())
	api.Use(tokenService.Middleware())
	api.Use(csrf.TokenIssuer(csrfService))
	api.Use(csrf.Guard(csrfService))

	authHandler.RegisterRoutes(api)
	rgpdHandler.RegisterRoutes(api)

	protected := api.Group("")
	protected.Use(session.RequireSession())
	clientHandler.RegisterRoutes(protected)

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, func() error {
		if err := infra.Redis.Close(); err != nil {
			log.Warn("redis close failed", "error", err)
		}
		return infra.DB.Close()
	}, nil
}

// checkSecrets refuses to ship the hardcoded development secrets in
// production and warns about them everywhere else.
func checkSecrets(cfg config.Config, log *slog.Logger) error {
	secrets := map[string]config.Secret{
		"SESSION_SECRET": cfg.SessionSecret,
		"CSRF_SECRET":    cfg.CSRFSecret,
		"JWT_SECRET":     cfg.JWTSecret,
	}

	for name, s := range secrets {
		switch s.Source {
		case config.SecretSourceInsecureDefault:
			if cfg.IsProduction() {
				return fmt.Errorf("%s is unset: refusing to run production with the development default", name)
			}
			log.Warn("using insecure development default", "secret", name)
		case config.SecretSourceFallback:
			log.Info("secret resolved from fallback", "secret", name)
		}
	}

	return nil
}
