package main

import (
	"context"
	"fmt"
	"time"

	"searchkit/config"
	"searchkit/internal/api/healthcheck"
	"searchkit/internal/api/search"
	"searchkit/internal/engine"
	"searchkit/internal/middleware"
	"searchkit/pkg/logger"

	"github.com/gofiber/fiber/v3"
)

func main() {
	app := fiber.New(fiber.Config{
		AppName: config.Cfg.Server.AppName,
	})

	middleware.Register(app)

	// Engine connectivity check on startup. Failure is not fatal: the
	// disabled flag and per-request 503s cover an unreachable engine.
	cli, err := engine.GetClient()
	if err != nil {
		logger.Error(err, "engine client error")
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := cli.Ping(ctx); err != nil {
			logger.Error(err, "engine ping error")
		} else {
			logger.Info("engine ok")
		}
		cancel()
	}

	// routes
	healthcheck.RegisterRoutes(app)
	search.RegisterRoutes(app)

	addr := fmt.Sprintf(":%d", config.Cfg.Server.Port)
	if err := app.Listen(addr); err != nil {
		logger.Error(err, "server error")
	}

}
