package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/Nicki-CheckM/check-certificado/internal/config"
	"github.com/Nicki-CheckM/check-certificado/internal/handlers"
	"github.com/Nicki-CheckM/check-certificado/internal/tokenstore"
)

func main() {
	app := &cli.App{
		Name:  "check-certificado-server",
		Usage: "Google OAuth and Drive upload proxy",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "port",
				Usage: "listen port, overrides PORT",
			},
			&cli.StringFlag{
				Name:  "token-store",
				Usage: "token store: memory, file, postgres or sqlite, overrides TOKEN_STORE",
			},
			&cli.StringFlag{
				Name:  "token-store-dsn",
				Usage: "token store location, overrides TOKEN_STORE_DSN",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Value: "text",
				Usage: "text or json",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
		},
		Before: setupLogging,
		Action: run,
		Commands: []*cli.Command{
			runAuthorize,
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		slog.Error("exiting", "err", err)
		os.Exit(1)
	}
}

func setupLogging(cmd *cli.Context) error {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if cmd.Bool("debug") {
		opts.Level = slog.LevelDebug
	}
	var h slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cmd.String("log-format") == "json" {
		h = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(h))
	return nil
}

// loadConfig reads the environment and applies command-line overrides.
func loadConfig(cmd *cli.Context) *config.Config {
	cfg := config.Load()
	if v := cmd.String("port"); v != "" {
		cfg.Port = v
	}
	if v := cmd.String("token-store"); v != "" {
		cfg.TokenStore = v
	}
	if v := cmd.String("token-store-dsn"); v != "" {
		cfg.TokenStoreDSN = v
	}
	return cfg
}

func run(cmd *cli.Context) error {
	ctx := cmd.Context
	cfg := loadConfig(cmd)

	if err := cfg.Validate(); err != nil {
		slog.Warn("OAuth client is not configured; auth and token requests will fail", "err", err)
	}

	store, err := tokenstore.Open(ctx, cfg.TokenStore, cfg.TokenStoreDSN)
	if err != nil {
		return err
	}
	defer store.Close()

	h := handlers.NewHandler(cfg, store, slog.Default())

	httpd := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpd.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown", "err", err)
		}
	}()

	slog.Info("server starting", "port", cfg.Port, "token_store", cfg.TokenStore, "compensate", cfg.Compensate)
	if err := httpd.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	slog.Info("server stopped")
	return nil
}
