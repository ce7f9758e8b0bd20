package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/pixel-mind-solutions-group/kcs-v1/internal/app"
	"github.com/pixel-mind-solutions-group/kcs-v1/internal/config"
	"github.com/pixel-mind-solutions-group/kcs-v1/internal/observability/logger"
)

func main() {
	var (
		flagConfigPath = flag.String("config", os.Getenv("CONFIG_PATH"), "ruta a config.yaml (default configs/config.yaml o el example)")
		flagEnvFile    = flag.String("env-file", ".env", "ruta a .env (opcional)")
	)
	flag.Parse()

	// .env es opcional; el entorno real siempre gana.
	envErr := godotenv.Load(*flagEnvFile)

	cfg, err := config.Load(config.ResolvePath(*flagConfigPath))
	if err != nil {
		logger.L().Fatal("config load failed", logger.Err(err))
	}

	logEnv := "dev"
	if cfg.IsProd() {
		logEnv = "prod"
	}
	logger.Init(logger.Config{
		Env:         logEnv,
		Level:       cfg.Log.Level,
		ServiceName: cfg.App.Name,
		Version:     cfg.App.Version,
	})
	defer func() { _ = logger.Sync() }()
	log := logger.L()
	if envErr != nil {
		log.Debug("no .env file loaded", logger.String("path", *flagEnvFile))
	}

	container, err := app.New(cfg, app.Options{})
	if err != nil {
		log.Fatal("wiring failed", logger.Err(err))
	}
	defer func() {
		if err := container.Close(); err != nil {
			log.Warn("cleanup error", logger.Err(err))
		}
	}()

	srv := container.Server()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", logger.String("addr", srv.Addr), logger.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down", logger.String("timeout", cfg.ShutdownTimeout().String()))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", logger.Err(err))
		os.Exit(1)
	}
	log.Info("bye")
}
