package stripe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/google/go-cmp/cmp"
	"github.com/healthxray/payment-backend/catalog"
	stripeapi "github.com/stripe/stripe-go/v81"
	"go.vocdoni.io/dvote/log"
)

func TestEventKindOf(t *testing.T) {
	c := qt.New(t)
	c.Assert(EventKindOf(stripeapi.EventTypeCheckoutSessionCompleted), qt.Equals, EventSessionCompleted)
	c.Assert(EventKindOf(stripeapi.EventTypeCustomerSubscriptionCreated), qt.Equals, EventSubscriptionCreated)
	c.Assert(EventKindOf(stripeapi.EventTypeCustomerSubscriptionDeleted), qt.Equals, EventSubscriptionDeleted)
	c.Assert(EventKindOf(stripeapi.EventTypeInvoicePaymentSucceeded), qt.Equals, EventInvoiceSucceeded)
	c.Assert(EventKindOf(stripeapi.EventTypeInvoicePaymentFailed), qt.Equals, EventInvoiceFailed)
	c.Assert(EventKindOf(stripeapi.EventTypeCustomerCreated), qt.Equals, EventUnhandled)
	c.Assert(EventSessionCompleted.String(), qt.Equals, "session-completed")
	c.Assert(EventKind(99).String(), qt.Equals, "unhandled")

	// every kind must be routed
	for kind := range eventKindNames {
		c.Assert(eventHandlers[kind], qt.IsNotNil, qt.Commentf("kind %s", kind))
	}
}

func TestWebhookSessionCompleted(t *testing.T) {
	c := qt.New(t)
	ts := newTestService(c)
	payload, header := signedEvent(c, testWebhookSecret, stripeapi.EventTypeCheckoutSessionCompleted,
		completedSession("a@b.com", "Ana", "silver"))

	c.Assert(ts.HandleWebhookEvent(context.Background(), payload, header), qt.IsNil)
	ts.Wait()

	c.Assert(ts.ledger.Grants(), qt.CmpEquals(cmp.AllowUnexported(grant{})), []grant{{"a@b.com", 100, "Silver Package"}})
	sent := ts.mail.Sent()
	c.Assert(sent, qt.HasLen, 1)
	c.Assert(sent[0].ToAddress, qt.Equals, "a@b.com")
	c.Assert(sent[0].ToName, qt.Equals, "Ana")
	c.Assert(strings.Contains(sent[0].Subject, "Silver Package"), qt.IsTrue)
}

func TestWebhookDoesNotWaitForSideEffects(t *testing.T) {
	c := qt.New(t)
	ts := newTestService(c)
	hold := make(chan struct{})
	ts.ledger.hold = hold
	payload, header := signedEvent(c, testWebhookSecret, stripeapi.EventTypeCheckoutSessionCompleted,
		completedSession("a@b.com", "Ana", "vip"))

	handled := make(chan error, 1)
	go func() { handled <- ts.HandleWebhookEvent(context.Background(), payload, header) }()
	select {
	case err := <-handled:
		c.Assert(err, qt.IsNil)
	case <-time.After(2 * time.Second):
		close(hold)
		c.Fatal("webhook handling waited for the credit grant")
	}
	c.Assert(ts.ledger.Grants(), qt.HasLen, 0)

	close(hold)
	ts.Wait()
	c.Assert(ts.ledger.Grants(), qt.CmpEquals(cmp.AllowUnexported(grant{})), []grant{{"a@b.com", 500, "VIP Package"}})
	c.Assert(ts.mail.Sent(), qt.HasLen, 1)
}

func TestWebhookCustomerEmailFallback(t *testing.T) {
	c := qt.New(t)
	ts := newTestService(c)
	session := completedSession("", "", "gold")
	delete(session, "customer_details")
	session["customer_email"] = "buyer@healthxray.test"
	payload, header := signedEvent(c, testWebhookSecret, stripeapi.EventTypeCheckoutSessionCompleted, session)

	c.Assert(ts.HandleWebhookEvent(context.Background(), payload, header), qt.IsNil)
	ts.Wait()

	c.Assert(ts.ledger.Grants(), qt.CmpEquals(cmp.AllowUnexported(grant{})), []grant{{"buyer@healthxray.test", 200, "Gold Package"}})
	notification := ts.mail.FindNotification("buyer@healthxray.test")
	c.Assert(notification, qt.IsNotNil)
	c.Assert(notification.ToName, qt.Equals, "buyer")
}

func TestWebhookInvalidSignature(t *testing.T) {
	c := qt.New(t)
	ts := newTestService(c)
	ctx := context.Background()
	object := completedSession("a@b.com", "Ana", "silver")

	c.Run("wrong secret", func(c *qt.C) {
		payload, header := signedEvent(c, "whsec_other", stripeapi.EventTypeCheckoutSessionCompleted, object)
		err := ts.HandleWebhookEvent(ctx, payload, header)
		c.Assert(errors.Is(err, ErrWebhookValidation), qt.IsTrue)
	})

	c.Run("tampered payload", func(c *qt.C) {
		payload, header := signedEvent(c, testWebhookSecret, stripeapi.EventTypeCheckoutSessionCompleted, object)
		tampered := []byte(strings.Replace(string(payload), "silver", "vip", 1))
		err := ts.HandleWebhookEvent(ctx, tampered, header)
		c.Assert(errors.Is(err, ErrWebhookValidation), qt.IsTrue)
	})

	c.Run("missing header", func(c *qt.C) {
		payload, _ := signedEvent(c, testWebhookSecret, stripeapi.EventTypeCheckoutSessionCompleted, object)
		err := ts.HandleWebhookEvent(ctx, payload, "")
		c.Assert(errors.Is(err, ErrWebhookValidation), qt.IsTrue)
	})

	c.Run("no secret configured", func(c *qt.C) {
		ts.config.WebhookSecret = ""
		defer func() { ts.config.WebhookSecret = testWebhookSecret }()
		payload, header := signedEvent(c, testWebhookSecret, stripeapi.EventTypeCheckoutSessionCompleted, object)
		err := ts.HandleWebhookEvent(ctx, payload, header)
		c.Assert(errors.Is(err, ErrWebhookValidation), qt.IsTrue)
	})

	ts.Wait()
	c.Assert(ts.ledger.Grants(), qt.HasLen, 0)
	c.Assert(ts.mail.Sent(), qt.HasLen, 0)
}

func TestWebhookSideEffectFailures(t *testing.T) {
	c := qt.New(t)
	ts := newTestService(c)
	ts.ledger.result = false
	ts.mail.Err = fmt.Errorf("The from address does not match a verified Sender Identity")
	payload, header := signedEvent(c, testWebhookSecret, stripeapi.EventTypeCheckoutSessionCompleted,
		completedSession("a@b.com", "Ana", "platinum"))

	c.Assert(ts.HandleWebhookEvent(context.Background(), payload, header), qt.IsNil)
	ts.Wait()

	// both side effects were attempted exactly once
	c.Assert(ts.ledger.Grants(), qt.HasLen, 1)
	c.Assert(ts.mail.Sent(), qt.HasLen, 1)
}

func TestWebhookIgnoredEvents(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()

	for name, tc := range map[string]struct {
		eventType stripeapi.EventType
		object    any
	}{
		"missing package": {
			stripeapi.EventTypeCheckoutSessionCompleted,
			completedSession("a@b.com", "Ana", ""),
		},
		"missing email": {
			stripeapi.EventTypeCheckoutSessionCompleted,
			completedSession("", "Ana", "gold"),
		},
		"unknown package": {
			stripeapi.EventTypeCheckoutSessionCompleted,
			completedSession("a@b.com", "Ana", "diamond"),
		},
		"undecodable session": {
			stripeapi.EventTypeCheckoutSessionCompleted,
			map[string]any{"id": "cs_bad", "amount_total": "not a number"},
		},
		"subscription created": {
			stripeapi.EventTypeCustomerSubscriptionCreated,
			map[string]any{"id": "sub_1", "object": "subscription", "customer": "cus_1", "status": "active"},
		},
		"subscription deleted": {
			stripeapi.EventTypeCustomerSubscriptionDeleted,
			map[string]any{"id": "sub_1", "object": "subscription", "customer": "cus_1", "status": "canceled"},
		},
		"invoice succeeded": {
			stripeapi.EventTypeInvoicePaymentSucceeded,
			map[string]any{"id": "in_1", "object": "invoice", "customer_email": "a@b.com", "amount_paid": 1999},
		},
		"invoice failed": {
			stripeapi.EventTypeInvoicePaymentFailed,
			map[string]any{"id": "in_2", "object": "invoice", "customer_email": "a@b.com", "amount_due": 1999},
		},
		"unhandled": {
			stripeapi.EventTypeCustomerCreated,
			map[string]any{"id": "cus_1", "object": "customer"},
		},
	} {
		c.Run(name, func(c *qt.C) {
			ts := newTestService(c)
			payload, header := signedEvent(c, testWebhookSecret, tc.eventType, tc.object)
			c.Assert(ts.HandleWebhookEvent(ctx, payload, header), qt.IsNil)
			ts.Wait()
			c.Assert(ts.ledger.Grants(), qt.HasLen, 0)
			c.Assert(ts.mail.Sent(), qt.HasLen, 0)
		})
	}
}

func TestWebhookWithoutMailService(t *testing.T) {
	c := qt.New(t)
	ledger := &fakeLedger{result: true}
	config := &Config{APIKey: "sk_test", WebhookSecret: testWebhookSecret}
	service, err := NewService(config, NewClient(config, &fakeSessions{}), catalog.Default(), ledger, nil)
	c.Assert(err, qt.IsNil)
	payload, header := signedEvent(c, testWebhookSecret, stripeapi.EventTypeCheckoutSessionCompleted,
		completedSession("a@b.com", "Ana", "boost"))

	c.Assert(service.HandleWebhookEvent(context.Background(), payload, header), qt.IsNil)
	service.Wait()
	c.Assert(ledger.Grants(), qt.CmpEquals(cmp.AllowUnexported(grant{})), []grant{{"a@b.com", 250, "Boost Package"}})
}

func TestWebhookUnhandledEventLogged(t *testing.T) {
	c := qt.New(t)
	logFile := filepath.Join(c.TempDir(), "webhook.log")
	log.Init("info", logFile, nil)
	defer log.Init("info", "stdout", nil)

	ts := newTestService(c)
	payload, header := signedEvent(c, testWebhookSecret, stripeapi.EventTypeCustomerCreated,
		map[string]any{"id": "cus_test", "object": "customer"})
	c.Assert(ts.HandleWebhookEvent(context.Background(), payload, header), qt.IsNil)
	ts.Wait()

	output, err := os.ReadFile(logFile)
	c.Assert(err, qt.IsNil)
	c.Assert(string(output), qt.Contains, "unhandled event")
	c.Assert(string(output), qt.Contains, "customer.created")
	c.Assert(ts.ledger.Grants(), qt.HasLen, 0)
}
