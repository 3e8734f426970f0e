// Package notifications defines the notification model and the service
// interface implemented by the email providers.
package notifications

import "context"

// Notification is a single message to deliver. Body holds the HTML content
// and PlainBody the text fallback for clients that do not render HTML.
type Notification struct {
	ToName    string
	ToAddress string
	Subject   string
	Body      string
	PlainBody string
}

// NotificationService is implemented by every notification provider. Init
// receives the provider specific configuration.
type NotificationService interface {
	Init(conf any) error
	SendNotification(context.Context, *Notification) error
}
