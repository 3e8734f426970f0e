package api

const (
	// GET / to get the service status and the available endpoints
	statusEndpoint = "/"
	// GET /ping to check the server is alive
	pingEndpoint = "/ping"

	// checkout routes
	// POST /create-checkout-session to start the checkout of a package
	createCheckoutSessionEndpoint = "/create-checkout-session"
	// GET /verify-session/{sessionId} to get the payment state of a checkout session
	verifySessionEndpoint = "/verify-session/{sessionId}"
	// POST /webhook to receive the Stripe events
	webhookEndpoint = "/webhook"

	// notification routes
	// POST /send-welcome-email to send the welcome email to a new user
	sendWelcomeEmailEndpoint = "/send-welcome-email"
)
