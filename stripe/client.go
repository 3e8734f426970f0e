package stripe

import (
	"context"
	"errors"
	"fmt"

	"github.com/healthxray/payment-backend/catalog"
	stripeapi "github.com/stripe/stripe-go/v81"
	stripecheckoutsession "github.com/stripe/stripe-go/v81/checkout/session"
	stripewebhook "github.com/stripe/stripe-go/v81/webhook"
)

// SessionsAPI is the subset of the Stripe checkout sessions API used by the
// client. It is implemented by the stripe-go checkout session client.
type SessionsAPI interface {
	New(params *stripeapi.CheckoutSessionParams) (*stripeapi.CheckoutSession, error)
	Get(id string, params *stripeapi.CheckoutSessionParams) (*stripeapi.CheckoutSession, error)
}

// Client wraps the Stripe API client with additional functionality
type Client struct {
	config   *Config
	sessions SessionsAPI
}

// NewClient creates a new Stripe client with the given configuration. If
// sessions is nil, the checkout sessions API of stripe-go is used with the
// configured key.
func NewClient(config *Config, sessions SessionsAPI) *Client {
	if sessions == nil {
		sessions = &stripecheckoutsession.Client{
			B:   stripeapi.GetBackend(stripeapi.APIBackend),
			Key: config.APIKey,
		}
	}
	return &Client{
		config:   config,
		sessions: sessions,
	}
}

// ValidateWebhookEvent validates and parses a webhook event
func (c *Client) ValidateWebhookEvent(payload []byte, signatureHeader string) (*stripeapi.Event, error) {
	if c.config.WebhookSecret == "" {
		return nil, NewStripeError(ErrWebhookValidation.Code, "webhook secret is not configured", nil)
	}
	event, err := stripewebhook.ConstructEventWithOptions(payload, signatureHeader, c.config.WebhookSecret,
		stripewebhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, NewStripeError(ErrWebhookValidation.Code, ErrWebhookValidation.Message, err)
	}
	return &event, nil
}

// CreateCheckoutSession creates a monthly subscription checkout session for
// the given package, redirecting back to origin once finished or cancelled.
func (c *Client) CreateCheckoutSession(ctx context.Context, pkg catalog.Package,
	origin string,
) (*stripeapi.CheckoutSession, error) {
	params := &stripeapi.CheckoutSessionParams{
		Mode:               stripeapi.String(string(stripeapi.CheckoutSessionModeSubscription)),
		PaymentMethodTypes: stripeapi.StringSlice([]string{"card"}),
		LineItems: []*stripeapi.CheckoutSessionLineItemParams{
			{
				PriceData: &stripeapi.CheckoutSessionLineItemPriceDataParams{
					Currency: stripeapi.String(string(stripeapi.CurrencyUSD)),
					ProductData: &stripeapi.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripeapi.String(pkg.Name),
						Description: stripeapi.String(fmt.Sprintf("%d credits per month", pkg.Credits)),
					},
					UnitAmount: stripeapi.Int64(pkg.Price),
					Recurring: &stripeapi.CheckoutSessionLineItemPriceDataRecurringParams{
						Interval: stripeapi.String(string(stripeapi.PriceRecurringIntervalMonth)),
					},
				},
				Quantity: stripeapi.Int64(1),
			},
		},
		SuccessURL: stripeapi.String(origin + "/success.html?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripeapi.String(origin + "/premium.html"),
		SubscriptionData: &stripeapi.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{PackageMetadataKey: pkg.ID},
		},
	}
	params.Context = ctx
	params.AddMetadata(PackageMetadataKey, pkg.ID)

	session, err := c.sessions.New(params)
	if err != nil {
		return nil, NewStripeError(ErrAPICallFailed.Code, providerMessage(err), err)
	}
	return session, nil
}

// GetCheckoutSession retrieves a checkout session by ID
func (c *Client) GetCheckoutSession(ctx context.Context, sessionID string) (*stripeapi.CheckoutSession, error) {
	params := &stripeapi.CheckoutSessionParams{}
	params.Context = ctx
	session, err := c.sessions.Get(sessionID, params)
	if err != nil {
		var apiErr *stripeapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == stripeapi.ErrorCodeResourceMissing {
			return nil, NewStripeError(ErrSessionNotFound.Code, providerMessage(err), err)
		}
		return nil, NewStripeError(ErrAPICallFailed.Code, providerMessage(err), err)
	}
	return session, nil
}

// providerMessage returns the message reported by Stripe for err, falling
// back to the error string for transport failures.
func providerMessage(err error) string {
	var apiErr *stripeapi.Error
	if errors.As(err, &apiErr) && apiErr.Msg != "" {
		return apiErr.Msg
	}
	return err.Error()
}
