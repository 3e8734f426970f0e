package validator

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/healthxray/payment-backend/errors"
	"go.vocdoni.io/dvote/log"
)

// MaxBodyBytes bounds the size of the JSON bodies decoded by the middleware.
const MaxBodyBytes = int64(65536)

// ValidatedModelKey is the context key of the validated request body.
type ValidatedModelKey struct{}

// ValidationError represents an individual validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is a slice of ValidationError.
type ValidationErrors []ValidationError

// Error returns a string representation of the validation errors.
func (ve ValidationErrors) Error() string {
	var sb strings.Builder
	for i, err := range ve {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return sb.String()
}

// ValidateMiddleware decodes the JSON request body into a new instance of the
// model type and validates it. Bodies that are not valid JSON are rejected
// with ErrMalformedBody, bodies that fail validation with onInvalid. The
// validated instance is stored in the request context, see ValidatedModel.
func (v *Validator) ValidateMiddleware(model any, onInvalid errors.Error) func(next http.Handler) http.Handler {
	modelType := reflect.TypeOf(model)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Create a new instance of the model.
			instance := reflect.New(modelType).Interface()
			r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
			if err := json.NewDecoder(r.Body).Decode(instance); err != nil {
				errors.ErrMalformedBody.WithErr(err).Write(w)
				return
			}
			if err := v.validator.Struct(instance); err != nil {
				var fieldErrs validator.ValidationErrors
				if !stderrors.As(err, &fieldErrs) {
					errors.ErrGenericInternalServerError.WithErr(err).Write(w)
					return
				}
				var validationErrors ValidationErrors
				for _, fieldErr := range fieldErrs {
					validationErrors = append(validationErrors, ValidationError{
						Field:   fieldErr.Field(),
						Message: getErrorMessage(fieldErr),
					})
				}
				log.Debugw("validation errors", "errors", validationErrors)
				onInvalid.WithErr(validationErrors).Write(w)
				return
			}
			ctx := context.WithValue(r.Context(), ValidatedModelKey{}, instance)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ValidatedModel retrieves the validated request body of type T from the
// context.
func ValidatedModel[T any](ctx context.Context) (*T, bool) {
	model, ok := ctx.Value(ValidatedModelKey{}).(*T)
	return model, ok
}

// getErrorMessage returns a human-readable error message for a validation error.
func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required", "notblank":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		return fmt.Sprintf("Must be at least %s characters long", err.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters long", err.Param())
	default:
		return fmt.Sprintf("Invalid value: %s", err.Tag())
	}
}
