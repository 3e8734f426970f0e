package api

import (
	"net/http"

	"github.com/healthxray/payment-backend/api/apicommon"
	"github.com/healthxray/payment-backend/errors"
	"github.com/healthxray/payment-backend/notifications/mailtemplates"
	"github.com/healthxray/payment-backend/validator"
	"go.vocdoni.io/dvote/log"
)

// sendWelcomeEmailHandler sends the welcome email to the address provided.
func (a *API) sendWelcomeEmailHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := validator.ValidatedModel[apicommon.WelcomeEmailRequest](r.Context())
	if !ok {
		errors.ErrMalformedBody.Write(w)
		return
	}
	if a.mail == nil {
		errors.ErrSendEmailFailed.With("mail service not configured").Write(w)
		return
	}
	notification, err := mailtemplates.WelcomeNotification(req.Email, req.Name)
	if err != nil {
		errors.ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	if err := a.mail.SendNotification(r.Context(), notification); err != nil {
		errors.ErrSendEmailFailed.WithErr(err).Write(w)
		return
	}
	log.Infow("welcome email sent", "email", req.Email)
	apicommon.HTTPWriteJSON(w, &apicommon.SuccessResponse{Success: true})
}
