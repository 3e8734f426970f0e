package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/healthxray/payment-backend/api"
	"github.com/healthxray/payment-backend/catalog"
	"github.com/healthxray/payment-backend/config"
	"github.com/healthxray/payment-backend/credits"
	"github.com/healthxray/payment-backend/db"
	"github.com/healthxray/payment-backend/keepalive"
	"github.com/healthxray/payment-backend/notifications"
	"github.com/healthxray/payment-backend/notifications/sendgrid"
	"github.com/healthxray/payment-backend/stripe"
	flag "github.com/spf13/pflag"
	"go.vocdoni.io/dvote/log"
)

func main() {
	conf, err := config.Load(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	logLevel := "info"
	if conf != nil && conf.LogLevel != "" {
		logLevel = conf.LogLevel
	}
	log.Init(logLevel, "stdout", nil)
	if err != nil {
		log.Fatal(err)
	}

	// initialize the MongoDB database
	database, err := db.New(conf.MongoURL, conf.MongoDB)
	if err != nil {
		log.Fatalf("could not create the MongoDB database: %v", err)
	}
	defer database.Close()

	// create the email service
	var mailService notifications.NotificationService
	if conf.SendGridAPIKey != "" {
		mailService = new(sendgrid.Email)
		if err := mailService.Init(&sendgrid.Config{
			FromName:    conf.MailFromName,
			FromAddress: conf.MailFromAddress,
			APIKey:      conf.SendGridAPIKey,
		}); err != nil {
			log.Fatalf("could not create the email service: %v", err)
		}
		log.Infow("email service created", "from", conf.MailFromAddress)
	} else {
		log.Warnw("SendGrid API key not set, emails are disabled")
	}

	if conf.StripeWebhookSecret == "" {
		log.Warnw("Stripe webhook secret not set, every webhook will be rejected")
	}
	stripeService, err := stripe.NewService(&stripe.Config{
		APIKey:        conf.StripeSecretKey,
		WebhookSecret: conf.StripeWebhookSecret,
		DefaultOrigin: conf.DefaultOrigin,
	}, nil, catalog.Default(), credits.NewLedger(database), mailService)
	if err != nil {
		log.Fatalf("could not create the Stripe service: %v", err)
	}

	// create the local API server
	srv := api.New(&api.Config{
		Host:           conf.Host,
		Port:           conf.Port,
		Stripe:         stripeService,
		MailService:    mailService,
		AllowedOrigins: conf.AllowedOrigins,
	}).Start()
	log.Infow("server started", "host", conf.Host, "port", conf.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if conf.KeepaliveURL != "" {
		pinger, err := keepalive.New(conf.KeepaliveURL, conf.KeepaliveInterval)
		if err != nil {
			log.Fatalf("could not create the keep-alive pinger: %v", err)
		}
		pinger.Start(ctx)
	}

	// wait for a termination signal, as the server is running in a goroutine
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
	log.Infow("shutting down")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warnw("failed to shutdown the API server", "error", err)
	}
	// let the running webhook side effects finish
	stripeService.Wait()
}
