package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"billing-service/internal/auth"
	"billing-service/internal/handler"
	mid "billing-service/internal/middleware"
	"billing-service/pkg/database"
	"billing-service/pkg/jwtutil"
	"billing-service/pkg/logger"
	"billing-service/prometheus"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Bool("seed", false, "Load the sample catalog on start when the inventory is empty")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Starting billing-service", appConfig.LogConfig()...)

	if appConfig.Auth.UsesDefaults() {
		log.Warn("Using default owner/staff passwords; set OWNER_PASSWORD and STAFF_PASSWORD")
	}

	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized", zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	db, repo, err := openRepository(ctx)
	if err != nil {
		return err
	}
	defer database.Close(db)
	log.Info("Database connection established")

	if seed, _ := cmd.Flags().GetBool("seed"); seed {
		if _, err := seedInventory(ctx, repo); err != nil {
			return err
		}
	}

	credentials, err := auth.FromConfig(appConfig.Auth)
	if err != nil {
		return err
	}

	h := handler.New(handler.Deps{
		Repo:        repo,
		DB:          repo,
		Credentials: credentials,
		JWT:         jwtutil.NewJWTUtil(appConfig.JWT),
	})

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(logger.Middleware())
	e.Use(mid.MetricsMiddleware)
	h.Register(e)

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting server", zap.String("port", appConfig.Server.Port))
		if err := e.Start(":" + appConfig.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
