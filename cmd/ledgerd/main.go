// Command ledgerd runs the ledger core: it migrates the schema, seeds the
// supported currencies and keeps the account, transfer, balance and
// statement services wired behind the in-process event bus. Transport
// adapters attach on top of the service layer and are deliberately not
// part of this binary.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/fintrack/ledger/infra"
	infrarepo "github.com/fintrack/ledger/infra/repository"
	"github.com/fintrack/ledger/pkg/app"
	"github.com/fintrack/ledger/pkg/config"
	"github.com/fintrack/ledger/pkg/currency"
	"github.com/fintrack/ledger/pkg/eventbus"
	"github.com/fintrack/ledger/pkg/notification"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	logger := setupLogger(cfg.Log)

	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	ctx := context.Background()
	currencies := infrarepo.NewCurrencyRepository(db)
	if err := currencies.Seed(ctx, currency.Defaults()); err != nil {
		return fmt.Errorf("seed currencies: %w", err)
	}
	supported, err := currencies.List(ctx)
	if err != nil {
		return fmt.Errorf("list currencies: %w", err)
	}
	registry, err := currency.NewRegistry(supported)
	if err != nil {
		return fmt.Errorf("build currency registry: %w", err)
	}

	uow := infrarepo.NewUoW(db, registry)
	bus := eventbus.NewMemory(logger)

	application := app.New(&app.Deps{
		Uow:              uow,
		CurrencyRegistry: registry,
		EventBus:         bus,
		Logger:           logger,
	}, cfg)

	notifiers := []notification.Notifier{notification.NewLogNotifier(logger)}
	if cfg.SMTP.Host != "" && cfg.SMTP.Recipient != "" {
		recipient := cfg.SMTP.Recipient
		mailer := notification.NewMailer(notification.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Sender:   cfg.SMTP.Sender,
			Password: cfg.SMTP.Password,
		}, func(notification.Receipt) (string, bool) {
			return recipient, true
		})
		notifiers = append(notifiers, mailer)
	}
	if cfg.Notify.WebhookURL != "" {
		notifiers = append(notifiers, notification.NewWebhook(cfg.Notify.WebhookURL))
	}
	subscriber := notification.NewSubscriber(logger, notifiers...)
	subscriber.Register(bus)

	logger.Info("ledger core ready",
		"env", application.Config.Env,
		"currencies", registry.Count(),
	)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	subscriber.Wait()
	return nil
}
