package stripe

import "strings"

// DefaultOrigin is the front-end origin used to build the checkout redirect
// URLs when the request does not carry one.
const DefaultOrigin = "https://healthxray.online"

// PackageMetadataKey is the metadata key that carries the package id on the
// checkout sessions and their subscriptions.
const PackageMetadataKey = "package"

// Config holds the Stripe configuration
type Config struct {
	APIKey        string `yaml:"api_key" json:"api_key"`
	WebhookSecret string `yaml:"webhook_secret" json:"webhook_secret"`
	DefaultOrigin string `yaml:"default_origin" json:"default_origin"`
}

// origin returns the origin to redirect to, without trailing slash.
func (c *Config) origin(requested string) string {
	origin := strings.TrimSpace(requested)
	if origin == "" {
		origin = c.DefaultOrigin
	}
	if origin == "" {
		origin = DefaultOrigin
	}
	return strings.TrimRight(origin, "/")
}
