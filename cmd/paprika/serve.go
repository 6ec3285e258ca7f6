package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"paprika/config"
	"paprika/database"
	healthCtrlImp "paprika/pkg/health/controllerImp"
	seasonCtrlImp "paprika/pkg/season/controllerImp"
	seasonRepoImp "paprika/pkg/season/repositoryImp"
	seasonSvcImp "paprika/pkg/season/serviceImp"
	"paprika/router"
)

const shutdownTimeout = 5 * time.Second

func newServeCommand(cfg *config.AppConfig, logger *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the season REST API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), *cfg, logger)
		},
	}
	cmd.Flags().StringVar(&cfg.Port, "port", cfg.Port, "listen port")
	cmd.Flags().StringVar(&cfg.DBPath, "db", cfg.DBPath, "sqlite database path")
	return cmd
}

func serve(ctx context.Context, cfg config.AppConfig, logger *zap.Logger) error {
	db, err := database.OpenSQLite(cfg.DBPath)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	svc := seasonSvcImp.New(seasonRepoImp.New(db), logger)
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	router.New(e, logger, seasonCtrlImp.New(svc), healthCtrlImp.NewHealthCtrl(db, logger))

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("port", cfg.Port), zap.String("db", cfg.DBPath))
		errCh <- e.Start(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("shutting down")
	return e.Shutdown(shutdownCtx)
}
