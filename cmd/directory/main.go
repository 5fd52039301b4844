package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gartstein/partners/internal/directory/auth"
	"github.com/gartstein/partners/internal/directory/config"
	"github.com/gartstein/partners/internal/directory/controller"
	gorm "github.com/gartstein/partners/internal/directory/db"
	"github.com/gartstein/partners/internal/directory/events"
	"github.com/gartstein/partners/internal/directory/handlers"
	"github.com/gartstein/partners/internal/directory/storage"
	"github.com/gartstein/partners/internal/pkg/clock"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const (
	startupTimeout = 2 * time.Minute
	healthInterval = 15 * time.Second
)

func main() {
	logger := initLogger()
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	cfg, err := config.Load(configPath())
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	verifier, err := auth.NewVerifier(cfg.MasterPassword)
	if err != nil {
		logger.Fatal("Failed to initialize verifier", zap.Error(err))
	}

	repo, err := connectDatabase(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer repo.Close()

	clk := clock.RealClock{}
	producer, err := connectProducer(cfg, clk, logger)
	if err != nil {
		logger.Fatal("Failed to initialize Kafka producer", zap.Error(err))
	}
	defer producer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := storage.NewS3Store(ctx, storage.Config{
		Endpoint:      cfg.S3Endpoint,
		Region:        cfg.S3Region,
		Bucket:        cfg.S3Bucket,
		AccessKey:     cfg.S3AccessKey,
		SecretKey:     cfg.S3SecretKey,
		PublicBaseURL: cfg.S3PublicBaseURL,
	})
	cancel()
	if err != nil {
		logger.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	api := handlers.NewAPI(handlers.Services{
		Access:    controller.NewAccessService(verifier),
		Companies: controller.NewCompanyService(repo, verifier, producer, clk, logger),
		Banners:   controller.NewBannerService(repo, verifier, producer, clk, logger),
		Contents:  controller.NewContentService(repo, verifier, producer, clk, logger),
		Inquiries: controller.NewInquiryService(repo, verifier, events.NewInquiryNotifier(producer), producer, clk, logger),
		Uploads:   controller.NewUploadService(store, clk, logger),
	}, logger)

	server := handlers.NewServer(cfg.GRPCPort, cfg.HTTPPort, logger)
	if err := server.RegisterHTTPGateway(
		context.Background(),
		[]grpc.DialOption{
			grpc.WithTransportCredentials(insecure.NewCredentials()),
		},
		api); err != nil {
		logger.Fatal("Failed to register HTTP gateway", zap.Error(err))
	}

	healthCtx, stopHealth := context.WithCancel(context.Background())
	defer stopHealth()
	server.MonitorHealth(healthCtx, repo, healthInterval)

	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Failed to start servers", zap.Error(err))
		}
	}()

	waitForShutdown(server, logger)
}

// initLogger initializes a Zap production logger.
func initLogger() *zap.Logger {
	logger, _ := zap.NewProduction()
	return logger
}

func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return config.DefaultPath
}

func startupBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = startupTimeout
	return b
}

// connectDatabase retries until the database accepts connections.
func connectDatabase(cfg *config.Config, logger *zap.Logger) (*gorm.Repository, error) {
	dbConf := &gorm.Config{
		Driver:   cfg.DBDriver,
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
		Path:     cfg.DBPath,
	}
	var repo *gorm.Repository
	err := backoff.RetryNotify(func() error {
		var err error
		repo, err = gorm.NewRepository(dbConf)
		return err
	}, startupBackOff(), func(err error, wait time.Duration) {
		logger.Warn("Database not ready, retrying", zap.Error(err), zap.Duration("wait", wait))
	})
	return repo, err
}

func connectProducer(cfg *config.Config, clk clock.Clock, logger *zap.Logger) (*events.Producer, error) {
	var producer *events.Producer
	err := backoff.RetryNotify(func() error {
		var err error
		producer, err = events.NewProducer(cfg.KafkaBrokers, cfg.Topic, clk, logger)
		return err
	}, startupBackOff(), func(err error, wait time.Duration) {
		logger.Warn("Kafka not ready, retrying", zap.Error(err), zap.Duration("wait", wait))
	})
	return producer, err
}

// waitForShutdown blocks until an interrupt or SIGTERM is received, then shuts down servers.
func waitForShutdown(server *handlers.Server, logger *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	server.Stop()
	logger.Info("Servers stopped properly")
}
