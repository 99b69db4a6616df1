package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Spok95/school-dashboard/internal/app"
	"github.com/Spok95/school-dashboard/internal/auth"
	"github.com/Spok95/school-dashboard/internal/config"
	"github.com/Spok95/school-dashboard/internal/db"
	"github.com/Spok95/school-dashboard/internal/jobs"
	"github.com/Spok95/school-dashboard/internal/logging"
	"github.com/Spok95/school-dashboard/internal/observability"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Не удалось загрузить .env файл, используем переменные окружения")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Ошибка конфигурации: %v", err)
	}

	lg, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("Ошибка инициализации логгера: %v", err)
	}
	defer lg.Closer()

	closeSentry, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, "school-dashboard")
	if err != nil {
		lg.Sugar.Warnw("sentry init failed", "err", err)
	}
	defer closeSentry()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		lg.Sugar.Fatalw("db open", "err", err)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		lg.Sugar.Fatalw("db migrate", "err", err)
	}

	// учётка администратора из ENV (опционально)
	if cfg.AdminUsername != "" {
		hash, err := auth.HashPassword(cfg.AdminPassword)
		if err != nil {
			lg.Sugar.Fatalw("admin password hash", "err", err)
		}
		if err := db.EnsureAdmin(ctx, database, cfg.AdminUsername, hash); err != nil {
			lg.Sugar.Fatalw("ensure admin", "err", err)
		}
	}

	runner := jobs.New(ctx)
	jobs.StartDBPing(runner, database, 30*time.Second)

	srv := app.NewServer(cfg, database, lg.Sugar)
	srv.Start(cfg.HTTPAddr)
	lg.Sugar.Infow("server started", "addr", cfg.HTTPAddr, "env", cfg.Env)

	<-ctx.Done()
	lg.Sugar.Infow("shutting down")
	shCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_ = srv.Shutdown(shCtx)
}
