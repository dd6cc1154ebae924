package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/artfolio/internal/auth"
	"github.com/artfolio/internal/config"
	"github.com/artfolio/internal/handler"
	"github.com/artfolio/internal/logging"
	"github.com/artfolio/internal/router"
	"github.com/artfolio/internal/service"
	"github.com/artfolio/internal/state"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, handle, err := openResources(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer handle.Close(context.Background())
	uploader, err := newUploader(ctx, cfg, logger)
	if err != nil {
		return err
	}

	users := service.NewUserService(st, cfg.DefaultUserRole)
	artworks := service.NewArtworkService(st, uploader, cfg.ArtworkWritesRequireAuth, logger)
	gallery := state.NewGalleryController(service.NewGallerySettingsService(st), artworks)
	theme := state.NewThemeController(service.NewThemeService(st))

	// 启动时并发预载画廊与配色
	loadGroup, loadCtx := errgroup.WithContext(ctx)
	loadGroup.Go(func() error { return gallery.Load(loadCtx) })
	loadGroup.Go(func() error { return theme.Load(loadCtx) })
	if err := loadGroup.Wait(); err != nil {
		return fmt.Errorf("load view state: %w", err)
	}

	authenticator := auth.NewAuthenticator(handle.gdb, cfg.SessionSecret, cfg.SessionTTL)
	api := handler.NewAPI(handler.Dependencies{
		Artworks:      artworks,
		Projects:      service.NewProjectService(st, uploader, logger),
		Profiles:      service.NewProfileService(st, uploader),
		Users:         users,
		Gallery:       gallery,
		Theme:         theme,
		Authenticator: authenticator,
		Uploader:      uploader,
		Logger:        logger,
		SecureCookies: cfg.SecureCookies,
	})

	gin.SetMode(cfg.GinMode)
	opts := router.Options{
		SessionSecret:            cfg.SessionSecret,
		SessionTTL:               cfg.SessionTTL,
		SecureCookies:            cfg.SecureCookies,
		AllowedOrigins:           cfg.AllowedOrigins,
		ArtworkWritesRequireAuth: cfg.ArtworkWritesRequireAuth,
	}
	if cfg.UploadBackend == config.UploadBackendLocal {
		opts.UploadDir = cfg.UploadDir
		opts.UploadURLPath = cfg.UploadURLPath
	}
	engine := router.SetupRouter(api, authenticator, users, logger, opts)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("server listening",
			zap.String("addr", cfg.ListenAddr),
			zap.String("store", cfg.StoreBackend),
			zap.String("upload", cfg.UploadBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return group.Wait()
}
