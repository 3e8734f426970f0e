package stripe

import stripeapi "github.com/stripe/stripe-go/v81"

// EventKind is the closed set of webhook events the service reacts to.
type EventKind int

const (
	EventUnhandled EventKind = iota
	EventSessionCompleted
	EventSubscriptionCreated
	EventSubscriptionDeleted
	EventInvoiceSucceeded
	EventInvoiceFailed
)

var eventKindNames = map[EventKind]string{
	EventUnhandled:           "unhandled",
	EventSessionCompleted:    "session-completed",
	EventSubscriptionCreated: "subscription-created",
	EventSubscriptionDeleted: "subscription-deleted",
	EventInvoiceSucceeded:    "invoice-succeeded",
	EventInvoiceFailed:       "invoice-failed",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return eventKindNames[EventUnhandled]
}

// EventKindOf maps a Stripe event type to its kind.
func EventKindOf(eventType stripeapi.EventType) EventKind {
	switch eventType {
	case stripeapi.EventTypeCheckoutSessionCompleted:
		return EventSessionCompleted
	case stripeapi.EventTypeCustomerSubscriptionCreated:
		return EventSubscriptionCreated
	case stripeapi.EventTypeCustomerSubscriptionDeleted:
		return EventSubscriptionDeleted
	case stripeapi.EventTypeInvoicePaymentSucceeded:
		return EventInvoiceSucceeded
	case stripeapi.EventTypeInvoicePaymentFailed:
		return EventInvoiceFailed
	default:
		return EventUnhandled
	}
}
