// Package credits grants purchased credits to the users stored in the
// credit store.
package credits

import (
	"context"
	"errors"
	"time"

	"github.com/healthxray/payment-backend/db"
	"go.vocdoni.io/dvote/log"
)

// Store is the subset of the credit store used by the ledger.
type Store interface {
	AddUserCredits(ctx context.Context, email string, amount int64, packageName string, at time.Time) (*db.User, error)
}

var _ Store = (*db.MongoStorage)(nil)

// Ledger adds credits to existing user records. It never creates users.
type Ledger struct {
	store Store
	now   func() time.Time
}

// NewLedger returns a ledger backed by the given store.
func NewLedger(store Store) *Ledger {
	return &Ledger{store: store, now: time.Now}
}

// Grant adds amount credits to the balance of the first user with the given
// email and records packageName as the last purchase. It reports whether the
// balance was updated; a missing user or a store failure leave it untouched.
func (l *Ledger) Grant(ctx context.Context, email string, amount int64, packageName string) bool {
	if amount <= 0 {
		log.Warnw("refusing to grant non positive credits", "email", email, "amount", amount)
		return false
	}
	user, err := l.store.AddUserCredits(ctx, email, amount, packageName, l.now())
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			log.Warnw("no user found to grant credits", "email", email, "package", packageName)
			return false
		}
		log.Errorw(err, "could not grant credits to "+email)
		return false
	}
	log.Infow("credits granted",
		"email", email,
		"amount", amount,
		"package", packageName,
		"balance", user.Credits)
	return true
}
