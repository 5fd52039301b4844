// Command notifier consumes inquiry events and mails them to the administrators.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gartstein/partners/internal/directory/config"
	"github.com/gartstein/partners/internal/directory/events"
	"github.com/gartstein/partners/internal/directory/mailer"
	"go.uber.org/zap"
)

func main() {
	logger, _ := zap.NewProduction()
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = config.DefaultPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	if err := cfg.ValidateNotifier(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	m := mailer.New(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
		To:       cfg.AdminEmails,
	}, logger)

	consumer := events.NewConsumer(cfg.KafkaBrokers, cfg.NotifierGroupID, cfg.Topic, logger)
	consumer.RegisterHandler(events.InquiryCreated, m.HandleEvent)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer.Start(ctx)
	logger.Info("Notifier started", zap.String("topic", cfg.Topic), zap.Strings("recipients", cfg.AdminEmails))

	<-ctx.Done()
	consumer.Wait()
	consumer.Close()
	logger.Info("Notifier stopped")
}
