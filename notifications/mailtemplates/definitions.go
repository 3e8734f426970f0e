// Package mailtemplates provides the transactional email templates sent by
// the service (welcome and purchase confirmation) and the helpers to render
// them into notifications.
package mailtemplates

import (
	"github.com/healthxray/payment-backend/catalog"
	"github.com/healthxray/payment-backend/notifications"
	"github.com/shopspring/decimal"
)

// WelcomeTemplate is sent when a user signs up.
var WelcomeTemplate = MailTemplate{
	File: "welcome",
	Placeholder: notifications.Notification{
		Subject: "Welcome to HealthXRay, {{.Name}}!",
		PlainBody: `Hi {{.Name}},

Thanks for creating your HealthXRay account. You can now run scans and keep
track of your results from your dashboard.

The HealthXRay Team`,
	},
}

// PurchaseConfirmationTemplate is sent once a checkout session completes.
var PurchaseConfirmationTemplate = MailTemplate{
	File: "purchase_confirmation",
	Placeholder: notifications.Notification{
		Subject: "Your {{.PackageName}} purchase is confirmed",
		PlainBody: `Hi {{.Name}},

Your {{.PackageName}} subscription is now active.

Amount: ${{.Amount}} / month
Credits added: {{.Credits}}

The HealthXRay Team`,
	},
}

// WelcomeData is the data used to render WelcomeTemplate.
type WelcomeData struct {
	Name string
}

// PurchaseData is the data used to render PurchaseConfirmationTemplate.
type PurchaseData struct {
	Name        string
	PackageName string
	Amount      string
	Credits     int64
}

// FormatAmount formats an amount in cents as a major currency value with two
// decimals, e.g. 2999 is formatted as "29.99".
func FormatAmount(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

// WelcomeNotification renders the welcome email for the recipient.
func WelcomeNotification(toAddress, name string) (*notifications.Notification, error) {
	n, err := WelcomeTemplate.ExecTemplate(WelcomeData{Name: name})
	if err != nil {
		return nil, err
	}
	n.ToName = name
	n.ToAddress = toAddress
	return n, nil
}

// PurchaseConfirmationNotification renders the purchase confirmation email
// of the package for the recipient.
func PurchaseConfirmationNotification(toAddress, name string, pkg catalog.Package) (*notifications.Notification, error) {
	n, err := PurchaseConfirmationTemplate.ExecTemplate(PurchaseData{
		Name:        name,
		PackageName: pkg.Name,
		Amount:      FormatAmount(pkg.Price),
		Credits:     pkg.Credits,
	})
	if err != nil {
		return nil, err
	}
	n.ToName = name
	n.ToAddress = toAddress
	return n, nil
}
