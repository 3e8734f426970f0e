// Package apicommon provides common types, constants, and helper functions for the API.
package apicommon

const (
	// MaxBodyBytes bounds the size of the webhook payloads accepted.
	MaxBodyBytes = int64(65536)
	// StripeSignatureHeader is the header carrying the webhook signature.
	StripeSignatureHeader = "Stripe-Signature"
)
