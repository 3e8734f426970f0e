// Package config loads the service configuration from command line flags,
// environment variables and an optional dotenv file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ErrMissingStripeKey is returned when no Stripe secret key is configured.
var ErrMissingStripeKey = errors.New("stripe secret key is required (STRIPE_SECRET_KEY)")

const (
	DefaultPort              = 3000
	DefaultKeepaliveInterval = 14 * time.Minute
	DefaultMongoDB           = "healthxray"
	DefaultAllowedOrigins    = "http://localhost:5500,http://127.0.0.1:5500," +
		"https://healthxray.online,https://www.healthxray.online"
)

// Config is the service configuration.
type Config struct {
	Host     string
	Port     int
	LogLevel string

	StripeSecretKey     string
	StripeWebhookSecret string
	DefaultOrigin       string
	AllowedOrigins      []string

	SendGridAPIKey  string
	MailFromAddress string
	MailFromName    string

	MongoURL string
	MongoDB  string

	KeepaliveURL      string
	KeepaliveInterval time.Duration
}

// Load parses the command line arguments and reads the configuration. Every
// flag can also be provided as an environment variable named after the flag
// in upper case with underscores (--stripe-secret-key is STRIPE_SECRET_KEY).
// Flags set explicitly take precedence over the environment, and the
// variables in the dotenv file never override the environment.
func Load(args []string) (*Config, error) {
	flags := flag.NewFlagSet("payment-backend", flag.ContinueOnError)
	flags.String("env-file", ".env", "dotenv file to load, ignored if it does not exist")
	flags.String("host", "0.0.0.0", "listen address")
	flags.IntP("port", "p", DefaultPort, "listen port")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("stripe-secret-key", "", "Stripe secret API key")
	flags.String("stripe-webhook-secret", "", "Stripe webhook signing secret")
	flags.String("default-origin", "https://healthxray.online", "origin of the checkout redirects when the request has none")
	flags.String("allowed-origins", DefaultAllowedOrigins, "comma separated list of CORS allowed origins")
	flags.String("sendgrid-api-key", "", "SendGrid API key")
	flags.String("mail-from-address", "noreply@healthxray.online", "sender address of the emails")
	flags.String("mail-from-name", "HealthXRay", "sender name of the emails")
	flags.String("mongo-url", "", "the URL of the MongoDB server")
	flags.String("mongo-db", DefaultMongoDB, "the name of the MongoDB database")
	flags.String("keepalive-url", "", "public URL of the service to ping periodically, disabled if empty")
	flags.Duration("keepalive-interval", DefaultKeepaliveInterval, "interval between keep-alive pings")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	envFile, err := flags.GetString("env-file")
	if err != nil {
		return nil, err
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("could not load %s: %w", envFile, err)
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return nil, err
	}

	conf := &Config{
		Host:                v.GetString("host"),
		Port:                v.GetInt("port"),
		LogLevel:            v.GetString("log-level"),
		StripeSecretKey:     v.GetString("stripe-secret-key"),
		StripeWebhookSecret: v.GetString("stripe-webhook-secret"),
		DefaultOrigin:       v.GetString("default-origin"),
		AllowedOrigins:      splitList(v.GetString("allowed-origins")),
		SendGridAPIKey:      v.GetString("sendgrid-api-key"),
		MailFromAddress:     v.GetString("mail-from-address"),
		MailFromName:        v.GetString("mail-from-name"),
		MongoURL:            v.GetString("mongo-url"),
		MongoDB:             v.GetString("mongo-db"),
		KeepaliveURL:        v.GetString("keepalive-url"),
		KeepaliveInterval:   v.GetDuration("keepalive-interval"),
	}
	if conf.StripeSecretKey == "" {
		return conf, ErrMissingStripeKey
	}
	if conf.Port <= 0 || conf.Port > 65535 {
		return conf, fmt.Errorf("invalid port %d", conf.Port)
	}
	if conf.KeepaliveInterval <= 0 {
		conf.KeepaliveInterval = DefaultKeepaliveInterval
	}
	return conf, nil
}

// splitList splits a comma separated list, dropping the empty items.
func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
