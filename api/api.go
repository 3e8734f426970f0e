// Package api provides the HTTP API of the HealthXRay payment backend.
package api

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/healthxray/payment-backend/api/apicommon"
	"github.com/healthxray/payment-backend/errors"
	"github.com/healthxray/payment-backend/notifications"
	"github.com/healthxray/payment-backend/stripe"
	"github.com/healthxray/payment-backend/validator"
	"go.vocdoni.io/dvote/log"
)

// DefaultAllowedOrigins are the front-end origins allowed by CORS when none
// are configured.
var DefaultAllowedOrigins = []string{
	"http://localhost:5500",
	"http://127.0.0.1:5500",
	"https://healthxray.online",
	"https://www.healthxray.online",
}

type Config struct {
	Host           string
	Port           int
	Stripe         *stripe.Service
	MailService    notifications.NotificationService
	AllowedOrigins []string
}

// API type represents the API HTTP server.
type API struct {
	host           string
	port           int
	router         *chi.Mux
	stripe         *stripe.Service
	mail           notifications.NotificationService
	validator      *validator.Validator
	allowedOrigins []string
}

// New creates a new API HTTP server. It does not start the server. Use Start() for that.
func New(conf *Config) *API {
	if conf == nil {
		return nil
	}
	origins := conf.AllowedOrigins
	if len(origins) == 0 {
		origins = DefaultAllowedOrigins
	}
	a := &API{
		host:           conf.Host,
		port:           conf.Port,
		stripe:         conf.Stripe,
		mail:           conf.MailService,
		validator:      validator.New(),
		allowedOrigins: origins,
	}
	a.initRouter()
	return a
}

// Router returns the HTTP handler serving the API.
func (a *API) Router() http.Handler {
	return a.router
}

// Start starts the API HTTP server (non blocking). The returned server can be
// used to shut it down.
func (a *API) Start() *http.Server {
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.host, a.port),
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Infow("starting API server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start the API server: %v", err)
		}
	}()
	return srv
}

// initRouter creates the router with all the routes and middleware.
func (a *API) initRouter() {
	// Create the router with a basic middleware stack
	r := chi.NewRouter()
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   a.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", apicommon.StripeSignatureHeader},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}).Handler)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Throttle(100))
	r.Use(middleware.ThrottleBacklog(5000, 40000, 60*time.Second))
	r.Use(middleware.Timeout(45 * time.Second))

	// service status
	log.Infow("new route", "method", "GET", "path", statusEndpoint)
	r.Get(statusEndpoint, a.statusHandler)
	// ping
	log.Infow("new route", "method", "GET", "path", pingEndpoint)
	r.Get(pingEndpoint, func(w http.ResponseWriter, _ *http.Request) {
		apicommon.HTTPWriteText(w, ".")
	})
	// create a checkout session
	log.Infow("new route", "method", "POST", "path", createCheckoutSessionEndpoint)
	r.With(a.validator.ValidateMiddleware(apicommon.CreateCheckoutSessionRequest{}, errors.ErrInvalidPackage)).
		Post(createCheckoutSessionEndpoint, a.createCheckoutSessionHandler)
	// get the payment state of a checkout session
	log.Infow("new route", "method", "GET", "path", verifySessionEndpoint)
	r.Get(verifySessionEndpoint, a.verifySessionHandler)
	// receive Stripe events
	log.Infow("new route", "method", "POST", "path", webhookEndpoint)
	r.Post(webhookEndpoint, a.webhookHandler)
	// send the welcome email
	log.Infow("new route", "method", "POST", "path", sendWelcomeEmailEndpoint)
	r.With(a.validator.ValidateMiddleware(apicommon.WelcomeEmailRequest{}, errors.ErrInvalidEmailRequest)).
		Post(sendWelcomeEmailEndpoint, a.sendWelcomeEmailHandler)
	a.router = r
}
