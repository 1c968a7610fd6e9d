package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/school-api/internal/config"
	"github.com/school-api/internal/infrastructure/awsconf"
	"github.com/school-api/internal/infrastructure/dynamo"
	"github.com/school-api/internal/infrastructure/fcm"
	jwtinfra "github.com/school-api/internal/infrastructure/jwt"
	"github.com/school-api/internal/infrastructure/postgres"
	s3infra "github.com/school-api/internal/infrastructure/s3"
	"github.com/school-api/internal/infrastructure/sns"
	"github.com/school-api/internal/pkg/logger"
	transporthttp "github.com/school-api/internal/transport/http"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	if err := logger.Init(cfg.AppEnv, cfg.LogLevel); err != nil {
		log.Fatalf("logger init: %v", err)
	}
	lg := logger.L()
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(cfg.DB)
	if err != nil {
		lg.Fatal("database unavailable", zap.Error(err))
	}
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(db); err != nil {
			lg.Fatal("migration failed", zap.Error(err))
		}
	}
	sqlDB, err := db.DB()
	if err != nil {
		lg.Fatal("database pool", zap.Error(err))
	}
	defer sqlDB.Close()

	awsCfg, err := awsconf.Load(ctx, cfg, "")
	if err != nil {
		lg.Fatal("aws config", zap.Error(err))
	}

	// Creates the OTP table if it does not exist.
	dynamoClient := dynamo.NewClient(awsCfg, cfg.AWSEndpointURL)
	dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables)

	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		lg.Fatal("jwt provider", zap.Error(err))
	}

	s3Client := s3infra.NewClient(awsCfg, cfg.AWSEndpointURL)
	s3Store := s3infra.NewStore(s3Client, cfg.S3BucketName, cfg.S3PublicBaseURL)

	snsCfg := awsCfg
	if cfg.SNSRegion != "" && cfg.SNSRegion != awsCfg.Region {
		if snsCfg, err = awsconf.Load(ctx, cfg, cfg.SNSRegion); err != nil {
			lg.Fatal("aws config for sns", zap.Error(err))
		}
	}
	smsSender := sns.NewSender(snsCfg, cfg.AWSEndpointURL)

	// Without credentials, notifications are still stored in the feed.
	push := fcm.NewGateway(ctx, cfg.FirebaseCredentialsFile)

	deps := &transporthttp.Deps{
		Users:            postgres.NewUserRepo(db),
		Circulars:        postgres.NewCircularRepo(db),
		ReadStates:       postgres.NewReadStateRepo(db),
		Feed:             postgres.NewFeedRepo(db),
		Devices:          postgres.NewDeviceRepo(db),
		Pages:            postgres.NewPageRepo(db),
		Alerts:           postgres.NewAlertRepo(db),
		Transactor:       postgres.NewTransactor(db),
		VerificationRepo: dynamo.NewVerificationRepo(dynamoClient, cfg.DynamoTables.UserVerifications),
		S3Store:          s3Store,
		SMSSender:        smsSender,
		JWTProvider:      jwtProvider,
		Push:             push,
		DB:               sqlDB,
	}

	router := transporthttp.NewRouter(ctx, cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		lg.Info("server starting", zap.String("port", cfg.AppPort), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()

	lg.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error("forced shutdown", zap.Error(err))
		os.Exit(1)
	}
	lg.Info("server stopped")
}
