// Package testmail provides an in-memory NotificationService for tests.
package testmail

import (
	"context"
	"sync"

	"github.com/healthxray/payment-backend/notifications"
)

// Mock is a NotificationService that stores the notifications instead of
// sending them. If Err is set, SendNotification records the attempt and
// returns it.
type Mock struct {
	Err error

	mtx  sync.Mutex
	sent []*notifications.Notification
}

var _ notifications.NotificationService = &Mock{}

// Init does nothing.
func (*Mock) Init(any) error { return nil }

// SendNotification records the notification.
func (m *Mock) SendNotification(_ context.Context, n *notifications.Notification) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.sent = append(m.sent, n)
	return m.Err
}

// Sent returns a copy of every notification received so far.
func (m *Mock) Sent() []*notifications.Notification {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return append([]*notifications.Notification(nil), m.sent...)
}

// FindNotification returns the last notification sent to the address, or nil.
func (m *Mock) FindNotification(toAddress string) *notifications.Notification {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	for i := len(m.sent) - 1; i >= 0; i-- {
		if m.sent[i].ToAddress == toAddress {
			return m.sent[i]
		}
	}
	return nil
}
