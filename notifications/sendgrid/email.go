// Package sendgrid provides a SendGrid-based implementation of the
// NotificationService interface for sending email notifications.
package sendgrid

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/healthxray/payment-backend/notifications"
	"github.com/sendgrid/rest"
	sendgridapi "github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	// DefaultHost is the SendGrid API host used when the configuration does
	// not provide one.
	DefaultHost = "https://api.sendgrid.com"
	sendPath    = "/v3/mail/send"
)

// Config represents the configuration for the SendGrid email service. Host
// is optional and only overridden in tests.
type Config struct {
	FromName    string
	FromAddress string
	APIKey      string
	Host        string
}

// Email is the implementation of the NotificationService interface for the
// SendGrid v3 mail send API.
type Email struct {
	config *Config
}

var _ notifications.NotificationService = &Email{}

// ProviderError is returned when SendGrid answers with a non 2xx status. Body
// contains the response of the provider verbatim.
type ProviderError struct {
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("sendgrid responded with status %d", e.StatusCode)
	}
	return e.Body
}

// Init initializes the SendGrid email service with the configuration. It
// returns an error if the configuration is invalid.
func (sg *Email) Init(rawConfig any) error {
	config, ok := rawConfig.(*Config)
	if !ok {
		return fmt.Errorf("invalid SendGrid configuration")
	}
	if config.APIKey == "" {
		return fmt.Errorf("SendGrid API key is required")
	}
	if _, err := mail.ParseAddress(config.FromAddress); err != nil {
		return fmt.Errorf("could not parse from email: %v", err)
	}
	if config.Host == "" {
		config.Host = DefaultHost
	}
	sg.config = config
	return nil
}

// SendNotification sends a single email with the notification data. The
// request succeeds only if SendGrid answers with a 2xx status, otherwise the
// provider response is returned as a *ProviderError. It does not retry.
func (sg *Email) SendNotification(ctx context.Context, notification *notifications.Notification) error {
	if sg.config == nil {
		return fmt.Errorf("SendGrid service not initialized")
	}
	if _, err := mail.ParseAddress(notification.ToAddress); err != nil {
		return fmt.Errorf("could not parse to email: %v", err)
	}
	from := sgmail.NewEmail(sg.config.FromName, sg.config.FromAddress)
	to := sgmail.NewEmail(notification.ToName, notification.ToAddress)
	plain := notification.PlainBody
	if plain == "" {
		plain = notification.Body
	}
	message := sgmail.NewSingleEmail(from, notification.Subject, to, plain, notification.Body)

	request := sendgridapi.GetRequest(sg.config.APIKey, sendPath, sg.config.Host)
	request.Method = rest.Post
	request.Body = sgmail.GetRequestBody(message)
	res, err := sendgridapi.MakeRequestWithContext(ctx, request)
	if err != nil {
		return fmt.Errorf("could not send email: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &ProviderError{StatusCode: res.StatusCode, Body: res.Body}
	}
	return nil
}
