// Package stripe provides integration with the Stripe payment service,
// handling checkout sessions and webhook events.
package stripe

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/healthxray/payment-backend/catalog"
	"github.com/healthxray/payment-backend/notifications"
	stripeapi "github.com/stripe/stripe-go/v81"
	"go.vocdoni.io/dvote/log"
)

// Granter adds purchased credits to a user balance.
type Granter interface {
	Grant(ctx context.Context, email string, amount int64, packageName string) bool
}

// SessionStatus is the payment state of a checkout session.
type SessionStatus struct {
	Status        string
	CustomerEmail string
	AmountTotal   int64
}

// Service provides the main business logic for Stripe operations
type Service struct {
	config  *Config
	client  *Client
	catalog *catalog.Catalog
	ledger  Granter
	mail    notifications.NotificationService
	// tasks tracks the webhook side effects still running
	tasks sync.WaitGroup
}

// NewService creates a new Stripe service. If client is nil, a client backed
// by the Stripe API is created from the configuration. A nil mail service
// disables the purchase confirmation emails.
func NewService(config *Config, client *Client, packages *catalog.Catalog,
	ledger Granter, mail notifications.NotificationService,
) (*Service, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if packages == nil {
		return nil, fmt.Errorf("package catalog is required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("credit ledger is required")
	}
	if client == nil {
		if config.APIKey == "" {
			return nil, NewStripeError(ErrInvalidConfiguration.Code, "stripe API key is required", nil)
		}
		client = NewClient(config, nil)
	}
	return &Service{
		config:  config,
		client:  client,
		catalog: packages,
		ledger:  ledger,
		mail:    mail,
	}, nil
}

// Catalog returns the packages offered by the service.
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// CreateCheckoutSession creates a checkout session for the package with the
// given id and returns the URL of the hosted checkout page. Unknown packages
// are rejected without contacting Stripe.
func (s *Service) CreateCheckoutSession(ctx context.Context, packageID, origin string) (string, error) {
	pkg, ok := s.catalog.Lookup(packageID)
	if !ok {
		return "", NewStripeError(ErrInvalidPackage.Code, fmt.Sprintf("invalid package type %q", packageID), nil)
	}
	session, err := s.client.CreateCheckoutSession(ctx, pkg, s.config.origin(origin))
	if err != nil {
		return "", err
	}
	log.Infow("checkout session created",
		"session", session.ID,
		"package", pkg.ID,
		"amount", pkg.Price)
	return session.URL, nil
}

// CheckoutSessionStatus returns the payment status, customer email and total
// amount of the checkout session with the given id.
func (s *Service) CheckoutSessionStatus(ctx context.Context, sessionID string) (*SessionStatus, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrSessionNotFound
	}
	session, err := s.client.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &SessionStatus{
		Status:        string(session.PaymentStatus),
		CustomerEmail: customerEmail(session),
		AmountTotal:   session.AmountTotal,
	}, nil
}

// Wait blocks until every webhook side effect started so far has finished.
func (s *Service) Wait() {
	s.tasks.Wait()
}

// customerEmail returns the email collected by the checkout page, falling
// back to the one provided when the session was created.
func customerEmail(session *stripeapi.CheckoutSession) string {
	if session.CustomerDetails != nil && session.CustomerDetails.Email != "" {
		return session.CustomerDetails.Email
	}
	return session.CustomerEmail
}

// customerName returns the name collected by the checkout page or the local
// part of the email.
func customerName(session *stripeapi.CheckoutSession, email string) string {
	if session.CustomerDetails != nil && strings.TrimSpace(session.CustomerDetails.Name) != "" {
		return strings.TrimSpace(session.CustomerDetails.Name)
	}
	name, _, _ := strings.Cut(email, "@")
	return name
}
