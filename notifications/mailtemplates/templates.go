package mailtemplates

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/healthxray/payment-backend/notifications"
)

//go:embed templates/*.html
var files embed.FS

// TemplateFile represents an email template key, which is the filename of
// the embedded template without the extension.
type TemplateFile string

// MailTemplate struct represents an email template. It includes the file key
// and the notification placeholder. The placeholder subject and plain body
// are text templates executed with the same data as the HTML file.
type MailTemplate struct {
	File        TemplateFile
	Placeholder notifications.Notification
}

// ExecTemplate executes the HTML file and the placeholder templates with the
// data provided and returns the resulting notification, without recipient.
func (mt MailTemplate) ExecTemplate(data any) (*notifications.Notification, error) {
	tmpl, err := htmltemplate.ParseFS(files, fmt.Sprintf("templates/%s.html", mt.File))
	if err != nil {
		return nil, fmt.Errorf("template %s not found: %w", mt.File, err)
	}
	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, data); err != nil {
		return nil, err
	}
	subject, err := execText("subject", mt.Placeholder.Subject, data)
	if err != nil {
		return nil, err
	}
	plain, err := execText("plain", mt.Placeholder.PlainBody, data)
	if err != nil {
		return nil, err
	}
	return &notifications.Notification{
		Subject:   subject,
		Body:      buf.String(),
		PlainBody: plain,
	}, nil
}

func execText(name, text string, data any) (string, error) {
	if text == "" {
		return "", nil
	}
	tmpl, err := texttemplate.New(name).Parse(text)
	if err != nil {
		return "", err
	}
	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
