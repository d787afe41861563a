package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/skillsenselab/identity-service/auth"
	"github.com/skillsenselab/identity-service/auth/password"
	"github.com/skillsenselab/identity-service/auth/token"
	"github.com/skillsenselab/identity-service/config"
	"github.com/skillsenselab/identity-service/logger"
	"github.com/skillsenselab/identity-service/post"
	"github.com/skillsenselab/identity-service/server"
	"github.com/skillsenselab/identity-service/server/handler"
	"github.com/skillsenselab/identity-service/telemetry"
	"github.com/skillsenselab/identity-service/user"
	"github.com/skillsenselab/identity-service/version"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Config errors include missing token secrets, which must stop
		// the process before it can serve a single request.
		logger.NewDefault("identity-service").Fatal("Configuration error", map[string]interface{}{
			"error": err.Error(),
		})
	}

	log := logger.New(&cfg.Logging, cfg.Name)
	logger.SetGlobalLogger(log)
	log.Info("Starting service", map[string]interface{}{
		"version":     version.Short(),
		"environment": cfg.Environment,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Init(ctx, cfg.Telemetry)
	if err != nil {
		log.Fatal("Telemetry init failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			log.Warn("Telemetry shutdown error", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	tokens, err := token.NewService(cfg.Auth.Token)
	if err != nil {
		log.Fatal("Token service init failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
	hasher := password.NewBcryptHasher(password.WithCost(cfg.Auth.BcryptCost))
	authsvc := auth.NewService(user.NewMemoryStore(), hasher, tokens, log)
	posts := post.NewService(post.NewMemoryStore(), log)

	srv := server.New(cfg.Server, log)

	var metrics *telemetry.HTTPMetrics
	if cfg.Telemetry.Enabled {
		if metrics, err = telemetry.NewHTTPMetrics(); err != nil {
			log.Fatal("Metrics init failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	srv.ApplyMiddleware(metrics)
	handler.RegisterRoutes(srv.Engine(), authsvc, posts, cfg.Name)

	if err := srv.Start(ctx); err != nil {
		log.Fatal("Server start failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	<-ctx.Done()
	log.Info("Shutdown signal received")

	if err := srv.Stop(context.Background()); err != nil {
		log.Error("Shutdown error", map[string]interface{}{
			"error": err.Error(),
		})
		os.Exit(1)
	}
}
