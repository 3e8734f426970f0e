package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/healthxray/payment-backend/catalog"
	"github.com/healthxray/payment-backend/notifications/testmail"
	stripeapi "github.com/stripe/stripe-go/v81"
	stripewebhook "github.com/stripe/stripe-go/v81/webhook"
)

const testWebhookSecret = "whsec_test_secret"

// fakeSessions implements SessionsAPI recording the requests.
type fakeSessions struct {
	mtx      sync.Mutex
	created  []*stripeapi.CheckoutSessionParams
	sessions map[string]*stripeapi.CheckoutSession
	err      error
}

func (f *fakeSessions) New(params *stripeapi.CheckoutSessionParams) (*stripeapi.CheckoutSession, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.created = append(f.created, params)
	if f.err != nil {
		return nil, f.err
	}
	id := fmt.Sprintf("cs_test_%d", len(f.created))
	return &stripeapi.CheckoutSession{ID: id, URL: "https://checkout.stripe.com/c/pay/" + id}, nil
}

func (f *fakeSessions) Get(id string, _ *stripeapi.CheckoutSessionParams) (*stripeapi.CheckoutSession, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	session, ok := f.sessions[id]
	if !ok {
		return nil, &stripeapi.Error{
			Code:           stripeapi.ErrorCodeResourceMissing,
			HTTPStatusCode: 404,
			Msg:            "No such checkout.session: '" + id + "'",
		}
	}
	return session, nil
}

type grant struct {
	email   string
	amount  int64
	pkgName string
}

// fakeLedger implements Granter recording the grants. If hold is set, every
// grant waits until it is closed.
type fakeLedger struct {
	mtx    sync.Mutex
	grants []grant
	result bool
	hold   chan struct{}
}

func (l *fakeLedger) Grant(_ context.Context, email string, amount int64, packageName string) bool {
	if l.hold != nil {
		<-l.hold
	}
	l.mtx.Lock()
	defer l.mtx.Unlock()
	l.grants = append(l.grants, grant{email, amount, packageName})
	return l.result
}

func (l *fakeLedger) Grants() []grant {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return append([]grant{}, l.grants...)
}

type testService struct {
	*Service
	sessions *fakeSessions
	ledger   *fakeLedger
	mail     *testmail.Mock
}

func newTestService(c *qt.C) *testService {
	sessions := &fakeSessions{sessions: map[string]*stripeapi.CheckoutSession{}}
	ledger := &fakeLedger{result: true}
	mail := &testmail.Mock{}
	config := &Config{APIKey: "sk_test", WebhookSecret: testWebhookSecret}
	service, err := NewService(config, NewClient(config, sessions), catalog.Default(), ledger, mail)
	c.Assert(err, qt.IsNil)
	return &testService{Service: service, sessions: sessions, ledger: ledger, mail: mail}
}

// signedEvent builds a webhook payload wrapping object and its signature
// header.
func signedEvent(c *qt.C, secret string, eventType stripeapi.EventType, object any) ([]byte, string) {
	payload, err := json.Marshal(map[string]any{
		"id":          "evt_test",
		"object":      "event",
		"type":        eventType,
		"api_version": stripeapi.APIVersion,
		"data":        map[string]any{"object": object},
	})
	c.Assert(err, qt.IsNil)
	signed := stripewebhook.GenerateTestSignedPayload(&stripewebhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: time.Now(),
		Scheme:    "v1",
	})
	return signed.Payload, signed.Header
}

func completedSession(email, name, packageID string) map[string]any {
	return map[string]any{
		"id":     "cs_test_completed",
		"object": "checkout.session",
		"customer_details": map[string]any{
			"email": email,
			"name":  name,
		},
		"metadata":       map[string]any{PackageMetadataKey: packageID},
		"payment_status": "paid",
		"amount_total":   1999,
	}
}
