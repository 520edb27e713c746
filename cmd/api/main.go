package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/njprem/Blog_APP_BackEnd/internal/config"
	"github.com/njprem/Blog_APP_BackEnd/internal/logging"
	"github.com/njprem/Blog_APP_BackEnd/internal/media"
	"github.com/njprem/Blog_APP_BackEnd/internal/repository/minio"
	"github.com/njprem/Blog_APP_BackEnd/internal/repository/ports"
	"github.com/njprem/Blog_APP_BackEnd/internal/repository/postgres"
	"github.com/njprem/Blog_APP_BackEnd/internal/service"
	httpx "github.com/njprem/Blog_APP_BackEnd/internal/transport/http"
	"github.com/njprem/Blog_APP_BackEnd/internal/transport/mail"
	"github.com/njprem/Blog_APP_BackEnd/internal/util"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, closeLogs, err := logging.New(logging.Options{
		Level:        cfg.LogLevel,
		Format:       cfg.LogFormat,
		LogstashAddr: cfg.LogstashTCPAddr,
		LogstashMin:  cfg.LogstashMinLevel,
	})
	if err != nil {
		log.Fatalf("logging: %v", err)
	}
	defer closeLogs()

	if err := run(cfg, logger); err != nil {
		logger.Error().Err(err).Msg("server stopped with error")
		closeLogs()
		os.Exit(1)
	}
}

func run(cfg config.Config, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.New(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		return err
	}

	var resetMailer service.PasswordResetSender
	if cfg.SMTPEnabled() {
		resetMailer = mail.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	} else {
		logger.Warn().Msg("SMTP not configured; password reset emails will not be delivered")
	}

	var storage ports.ObjectStorage
	if cfg.MinIOEnabled() {
		client, err := minio.NewClient(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOUseSSL)
		if err != nil {
			return err
		}
		s := minio.NewStorage(client, cfg.MinIOPublicURL, cfg.MinIOUseSSL)
		if err := s.EnsureBucket(ctx, cfg.MinIOBucketCovers); err != nil {
			return err
		}
		storage = s
	} else {
		logger.Warn().Msg("MinIO not configured; cover uploads are disabled")
	}

	users := postgres.NewUserRepo(db)
	posts := postgres.NewPostRepo(db)
	tokens := util.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	authSvc := service.NewAuthService(users, tokens, resetMailer, logger, service.AuthConfig{
		PasswordResetTTL: cfg.PasswordResetTTL,
		ResetLinkBaseURL: cfg.ResetLinkBaseURL,
		GoogleAudience:   cfg.GoogleAudience,
	})
	postSvc := service.NewPostService(posts, storage, service.PostServiceConfig{
		Bucket:            cfg.MinIOBucketCovers,
		MaxImageBytes:     cfg.CoverImageMaxBytes,
		ImageProcessor:    media.NewScaleProcessor(cfg.CoverImageMaxDimension, media.WithMaxPixels(cfg.CoverImageMaxPixels)),
		ImageMaxDimension: cfg.CoverImageMaxDimension,
		Logger:            logger,
	})

	e := httpx.NewRouter(cfg.AllowOrigins, logger)
	httpx.RegisterAuth(e, authSvc, logger)
	httpx.RegisterPosts(e, authSvc, postSvc, logger)
	httpx.RegisterSwagger(e, httpx.DefaultSwaggerSpecPath, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: e,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
