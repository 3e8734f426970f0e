package api

import (
	stderrors "errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/healthxray/payment-backend/api/apicommon"
	"github.com/healthxray/payment-backend/errors"
	"github.com/healthxray/payment-backend/stripe"
	"github.com/healthxray/payment-backend/validator"
)

// createCheckoutSessionHandler starts the checkout of the requested package
// and returns the URL of the hosted checkout page. The redirect URLs point to
// the origin of the request.
func (a *API) createCheckoutSessionHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := validator.ValidatedModel[apicommon.CreateCheckoutSessionRequest](r.Context())
	if !ok {
		errors.ErrMalformedBody.Write(w)
		return
	}
	url, err := a.stripe.CreateCheckoutSession(r.Context(), req.PackageType, r.Header.Get("Origin"))
	if err != nil {
		stripeErrorResponse(err).Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, &apicommon.CheckoutSessionResponse{URL: url})
}

// verifySessionHandler returns the payment state of a checkout session.
func (a *API) verifySessionHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")
	if sessionID == "" {
		errors.ErrMalformedURLParam.With("missing session id").Write(w)
		return
	}
	status, err := a.stripe.CheckoutSessionStatus(r.Context(), sessionID)
	if err != nil {
		stripeErrorResponse(err).Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, &apicommon.VerifySessionResponse{
		Status:        status.Status,
		CustomerEmail: status.CustomerEmail,
		AmountTotal:   status.AmountTotal,
	})
}

// stripeErrorResponse maps the errors of the stripe service to API errors,
// passing the message of the provider through.
func stripeErrorResponse(err error) errors.Error {
	var stripeErr *stripe.StripeError
	if !stderrors.As(err, &stripeErr) {
		return errors.ErrGenericInternalServerError.WithErr(err)
	}
	switch {
	case stderrors.Is(err, stripe.ErrInvalidPackage):
		return errors.ErrInvalidPackage.Message(stripeErr.Message)
	case stderrors.Is(err, stripe.ErrWebhookValidation):
		return errors.ErrSignatureInvalid
	case stderrors.Is(err, stripe.ErrSessionNotFound):
		return errors.ErrSessionNotFound.Message(stripeErr.Message)
	default:
		return errors.ErrStripeError.Message(stripeErr.Message)
	}
}
