// Command server boots the tenant isolation core as an HTTP service:
// load configuration, connect to Postgres and run migrations, wire every
// package internal/app depends on, then serve until interrupted.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/meridianhq/platform/internal/app"
	"github.com/meridianhq/platform/pkg/config"
	"github.com/meridianhq/platform/pkg/cookie"
	"github.com/meridianhq/platform/pkg/httpserver"
	"github.com/meridianhq/platform/pkg/pg"
	"github.com/meridianhq/platform/pkg/redis"
)

func main() {
	var appCfg app.Config
	config.MustLoad(&appCfg)

	var pgCfg pg.Config
	config.MustLoad(&pgCfg)

	var cookieCfg cookie.Config
	config.MustLoad(&cookieCfg)

	var srvCfg httpserver.Config
	config.MustLoad(&srvCfg)

	var redisCfg redis.Config
	config.MustLoad(&redisCfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, appCfg, pgCfg, cookieCfg, redisCfg)
	if err != nil {
		slog.Error("build application", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	if err := a.Run(ctx, srvCfg); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
