package apicommon

import "github.com/healthxray/payment-backend/catalog"

// CreateCheckoutSessionRequest is the request to start the checkout of a
// package.
type CreateCheckoutSessionRequest struct {
	PackageType string `json:"packageType" validate:"notblank"`
}

// CheckoutSessionResponse carries the URL of the hosted checkout page.
type CheckoutSessionResponse struct {
	URL string `json:"url"`
}

// VerifySessionResponse is the payment state of a checkout session.
type VerifySessionResponse struct {
	Status        string `json:"status"`
	CustomerEmail string `json:"customer_email"`
	AmountTotal   int64  `json:"amount_total"`
}

// WebhookResponse acknowledges a webhook delivery.
type WebhookResponse struct {
	Received bool `json:"received"`
}

// WelcomeEmailRequest is the request to send the welcome email to a new user.
type WelcomeEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"notblank,max=128"`
}

// SuccessResponse is returned by the operations without other output.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// StatusResponse describes the running service.
type StatusResponse struct {
	Status    string            `json:"status"`
	Message   string            `json:"message"`
	Endpoints []string          `json:"endpoints"`
	Packages  []catalog.Package `json:"packages,omitempty"`
}
