package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

// noEnvFile points the dotenv file to a path that does not exist.
func noEnvFile(c *qt.C) []string {
	return []string{"--env-file", filepath.Join(c.TempDir(), "missing.env")}
}

func TestLoadDefaults(t *testing.T) {
	c := qt.New(t)
	c.Setenv("STRIPE_SECRET_KEY", "sk_test_defaults")

	conf, err := Load(noEnvFile(c))
	c.Assert(err, qt.IsNil)
	c.Assert(conf.StripeSecretKey, qt.Equals, "sk_test_defaults")
	c.Assert(conf.Port, qt.Equals, DefaultPort)
	c.Assert(conf.KeepaliveInterval, qt.Equals, DefaultKeepaliveInterval)
	c.Assert(conf.DefaultOrigin, qt.Equals, "https://healthxray.online")
	c.Assert(conf.MongoDB, qt.Equals, DefaultMongoDB)
	c.Assert(conf.AllowedOrigins, qt.DeepEquals, []string{
		"http://localhost:5500",
		"http://127.0.0.1:5500",
		"https://healthxray.online",
		"https://www.healthxray.online",
	})
}

func TestLoadEnvironment(t *testing.T) {
	c := qt.New(t)
	c.Setenv("STRIPE_SECRET_KEY", "sk_test_env")
	c.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_env")
	c.Setenv("PORT", "8081")
	c.Setenv("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	c.Setenv("KEEPALIVE_INTERVAL", "5m")
	c.Setenv("MONGO_URL", "mongodb://localhost:27017")

	conf, err := Load(noEnvFile(c))
	c.Assert(err, qt.IsNil)
	c.Assert(conf.StripeWebhookSecret, qt.Equals, "whsec_env")
	c.Assert(conf.Port, qt.Equals, 8081)
	c.Assert(conf.AllowedOrigins, qt.DeepEquals, []string{"https://a.example", "https://b.example"})
	c.Assert(conf.KeepaliveInterval, qt.Equals, 5*time.Minute)
	c.Assert(conf.MongoURL, qt.Equals, "mongodb://localhost:27017")

	// explicit flags take precedence over the environment
	conf, err = Load(append(noEnvFile(c), "--port", "9000"))
	c.Assert(err, qt.IsNil)
	c.Assert(conf.Port, qt.Equals, 9000)
}

func TestLoadMissingStripeKey(t *testing.T) {
	c := qt.New(t)
	c.Setenv("STRIPE_SECRET_KEY", "")

	_, err := Load(noEnvFile(c))
	c.Assert(err, qt.Equals, ErrMissingStripeKey)
}

func TestLoadInvalidPort(t *testing.T) {
	c := qt.New(t)
	c.Setenv("STRIPE_SECRET_KEY", "sk_test")

	_, err := Load(append(noEnvFile(c), "--port", "70000"))
	c.Assert(err, qt.ErrorMatches, "invalid port 70000")
}

func TestLoadEnvFile(t *testing.T) {
	c := qt.New(t)
	// set by the dotenv file, restored afterwards
	for _, key := range []string{"MAIL_FROM_NAME", "SENDGRID_API_KEY"} {
		c.Setenv(key, "")
		c.Assert(os.Unsetenv(key), qt.IsNil)
	}
	c.Setenv("STRIPE_SECRET_KEY", "sk_test_env_wins")

	envFile := filepath.Join(c.TempDir(), "test.env")
	c.Assert(os.WriteFile(envFile, []byte(
		"STRIPE_SECRET_KEY=sk_test_file\nSENDGRID_API_KEY=SG.file\nMAIL_FROM_NAME=HealthXRay Team\n",
	), 0o600), qt.IsNil)

	conf, err := Load([]string{"--env-file", envFile})
	c.Assert(err, qt.IsNil)
	c.Assert(conf.SendGridAPIKey, qt.Equals, "SG.file")
	c.Assert(conf.MailFromName, qt.Equals, "HealthXRay Team")
	// the environment is not overridden by the file
	c.Assert(conf.StripeSecretKey, qt.Equals, "sk_test_env_wins")
}
