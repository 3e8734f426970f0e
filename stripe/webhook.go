package stripe

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/healthxray/payment-backend/notifications/mailtemplates"
	stripeapi "github.com/stripe/stripe-go/v81"
	"go.vocdoni.io/dvote/log"
)

type eventHandler func(s *Service, ctx context.Context, event *stripeapi.Event)

// eventHandlers holds one handler per event kind.
var eventHandlers = map[EventKind]eventHandler{
	EventSessionCompleted:    (*Service).handleSessionCompleted,
	EventSubscriptionCreated: (*Service).handleSubscription,
	EventSubscriptionDeleted: (*Service).handleSubscription,
	EventInvoiceSucceeded:    (*Service).handleInvoice,
	EventInvoiceFailed:       (*Service).handleInvoice,
	EventUnhandled:           (*Service).handleUnhandled,
}

// HandleWebhookEvent verifies the signature of a webhook payload and routes
// the event to its handler. Once the signature is valid it always returns
// nil: the side effects of the event run in background and their failures
// are only logged.
func (s *Service) HandleWebhookEvent(ctx context.Context, payload []byte, signatureHeader string) error {
	event, err := s.client.ValidateWebhookEvent(payload, signatureHeader)
	if err != nil {
		return err
	}
	kind := EventKindOf(event.Type)
	log.Debugw("stripe webhook event received", "id", event.ID, "type", event.Type, "kind", kind.String())
	if event.Data == nil || len(event.Data.Raw) == 0 {
		log.Warnw("stripe webhook: event without data", "id", event.ID, "type", event.Type)
		return nil
	}
	eventHandlers[kind](s, context.WithoutCancel(ctx), event)
	return nil
}

// handleSessionCompleted grants the credits of the purchased package and
// sends the purchase confirmation email. Both run concurrently and neither
// is awaited.
func (s *Service) handleSessionCompleted(ctx context.Context, event *stripeapi.Event) {
	session := &stripeapi.CheckoutSession{}
	if err := json.Unmarshal(event.Data.Raw, session); err != nil {
		log.Warnw("stripe webhook: cannot decode checkout session", "id", event.ID, "error", err)
		return
	}
	email := customerEmail(session)
	packageID := session.Metadata[PackageMetadataKey]
	if email == "" || packageID == "" {
		log.Warnw("stripe webhook: completed session without customer email or package",
			"session", session.ID, "email", email, "package", packageID)
		return
	}
	pkg, ok := s.catalog.Lookup(packageID)
	if !ok {
		log.Warnw("stripe webhook: completed session with unknown package",
			"session", session.ID, "package", packageID)
		return
	}
	log.Infow("checkout session completed", "session", session.ID, "email", email, "package", pkg.ID)
	name := customerName(session, email)

	s.runTask(ctx, "purchase confirmation email", func(ctx context.Context) error {
		if s.mail == nil {
			return fmt.Errorf("mail service not configured")
		}
		notification, err := mailtemplates.PurchaseConfirmationNotification(email, name, pkg)
		if err != nil {
			return err
		}
		return s.mail.SendNotification(ctx, notification)
	})
	s.runTask(ctx, "credit grant", func(ctx context.Context) error {
		if !s.ledger.Grant(ctx, email, pkg.Credits, pkg.Name) {
			return fmt.Errorf("%d credits not granted to %s", pkg.Credits, email)
		}
		return nil
	})
}

func (*Service) handleSubscription(_ context.Context, event *stripeapi.Event) {
	subscription := &stripeapi.Subscription{}
	if err := json.Unmarshal(event.Data.Raw, subscription); err != nil {
		log.Warnw("stripe webhook: cannot decode subscription", "id", event.ID, "error", err)
		return
	}
	customer := ""
	if subscription.Customer != nil {
		customer = subscription.Customer.ID
	}
	log.Infow("stripe subscription event",
		"type", event.Type,
		"subscription", subscription.ID,
		"customer", customer,
		"status", subscription.Status,
		"package", subscription.Metadata[PackageMetadataKey])
}

func (*Service) handleInvoice(_ context.Context, event *stripeapi.Event) {
	invoice := &stripeapi.Invoice{}
	if err := json.Unmarshal(event.Data.Raw, invoice); err != nil {
		log.Warnw("stripe webhook: cannot decode invoice", "id", event.ID, "error", err)
		return
	}
	log.Infow("stripe invoice event",
		"type", event.Type,
		"invoice", invoice.ID,
		"email", invoice.CustomerEmail,
		"amountPaid", invoice.AmountPaid,
		"amountDue", invoice.AmountDue)
}

func (*Service) handleUnhandled(_ context.Context, event *stripeapi.Event) {
	log.Infow("stripe webhook: unhandled event", "type", event.Type, "id", event.ID)
}

// runTask runs fn in its own goroutine, tracked by the service wait group,
// and logs its outcome.
func (s *Service) runTask(ctx context.Context, name string, fn func(context.Context) error) {
	s.tasks.Add(1)
	go func() {
		defer s.tasks.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Errorw(fmt.Errorf("%v", r), "stripe webhook: "+name+" panicked")
			}
		}()
		if err := fn(ctx); err != nil {
			log.Warnw("stripe webhook: task failed", "task", name, "error", err)
			return
		}
		log.Infow("stripe webhook: task completed", "task", name)
	}()
}
