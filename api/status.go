package api

import (
	"net/http"

	"github.com/healthxray/payment-backend/api/apicommon"
)

var endpoints = []string{
	createCheckoutSessionEndpoint,
	"/verify-session/:sessionId",
	webhookEndpoint,
	sendWelcomeEmailEndpoint,
}

func (a *API) statusHandler(w http.ResponseWriter, _ *http.Request) {
	apicommon.HTTPWriteJSON(w, &apicommon.StatusResponse{
		Status:    "running",
		Message:   "HealthXRay payment server is running",
		Endpoints: endpoints,
		Packages:  a.stripe.Catalog().Packages(),
	})
}
