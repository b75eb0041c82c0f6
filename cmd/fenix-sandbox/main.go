package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jhoicas/fenix-admin/internal/application/sandbox"
	"github.com/jhoicas/fenix-admin/internal/domain/repository"
	"github.com/jhoicas/fenix-admin/internal/infrastructure/memory"
	"github.com/jhoicas/fenix-admin/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/fenix-admin/internal/interfaces/http"
	"github.com/jhoicas/fenix-admin/pkg/config"
	"github.com/jhoicas/fenix-admin/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("store", cfg.Sandbox.Store).
		Msg("iniciando sandbox Fenix")

	ctx := context.Background()

	var (
		repo     repository.RecordRepository
		txRunner sandbox.TxRunner
	)
	switch cfg.Sandbox.Store {
	case config.StorePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()

		pgRepo := postgres.NewRecordRepository(pool)
		if err := pgRepo.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("crear esquema del sandbox")
		}
		repo = pgRepo
		txRunner = postgres.NewTxRunner(pool)
	default:
		store := memory.NewRecordRepository()
		repo = store
		txRunner = memory.NewTxRunner(store)
	}

	svc := sandbox.NewService(repo, log.Component("sandbox")).WithTxRunner(txRunner)
	if err := svc.EnsureAdmin(ctx, cfg.Sandbox.AdminUser, cfg.Sandbox.AdminPassword); err != nil {
		log.Fatal().Err(err).Msg("crear usuaria administradora")
	}

	app := httpRouter.NewApp(cfg.App.Name+"-sandbox", httpRouter.RouterDeps{
		Sandbox: svc,
		JWT:     cfg.JWT,
		Log:     log.Component("http"),
	})

	go func() {
		log.Info().Str("addr", cfg.Sandbox.Addr()).Msg("sandbox escuchando en http://" + cfg.Sandbox.Addr() + "/api")
		if err := app.Listen(cfg.Sandbox.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("sandbox detenido")
}
