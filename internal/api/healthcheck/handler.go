package healthcheck

import (
	"context"
	"time"

	"searchkit/config"
	"searchkit/internal/database"
	"searchkit/internal/engine"
	"searchkit/pkg/apperror"

	"github.com/gofiber/fiber/v3"
)

func ApiHealthCheck(c fiber.Ctx) error {
	return c.SendString("ok")
}

func DatabaseHealthCheck(c fiber.Ctx) error {
	db, err := database.GetDB()
	if err != nil {
		return apperror.ServiceUnavailable(config.ModuleHealth, c, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return apperror.ServiceUnavailable(config.ModuleHealth, c, err)
	}
	if err := sqlDB.Ping(); err != nil {
		return apperror.ServiceUnavailable(config.ModuleHealth, c, err)
	}
	return c.SendString("ok")
}

func EngineHealthCheck(c fiber.Ctx) error {
	cli, err := engine.GetClient()
	if err != nil {
		return apperror.ServiceUnavailable(config.ModuleHealth, c, err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := cli.Ping(ctx); err != nil {
		return apperror.ServiceUnavailable(config.ModuleHealth, c, err)
	}
	return c.SendString("ok")
}
