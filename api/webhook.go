package api

import (
	"io"
	"net/http"

	"github.com/healthxray/payment-backend/api/apicommon"
	"github.com/healthxray/payment-backend/errors"
	"go.vocdoni.io/dvote/log"
)

// webhookHandler receives the Stripe events. Events with a valid signature are
// always acknowledged, whatever the outcome of their side effects.
func (a *API) webhookHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, apicommon.MaxBodyBytes)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		log.Warnw("stripe webhook: error reading request body", "error", err)
		errors.ErrMalformedBody.WithErr(err).Write(w)
		return
	}
	signatureHeader := r.Header.Get(apicommon.StripeSignatureHeader)
	if signatureHeader == "" {
		errors.ErrSignatureInvalid.With("missing " + apicommon.StripeSignatureHeader + " header").Write(w)
		return
	}
	if err := a.stripe.HandleWebhookEvent(r.Context(), payload, signatureHeader); err != nil {
		log.Warnw("stripe webhook: rejected event", "error", err)
		stripeErrorResponse(err).Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, &apicommon.WebhookResponse{Received: true})
}
