// Package email defines the outgoing message model and its MIME rendering.
package email

import (
	"io"

	mail "gopkg.in/mail.v2"
)

// Email represents a fully assembled outgoing message. It is built once by
// Build and consumed once by a delivery provider.
type Email struct {
	From     string
	FromName string
	To       string
	Cc       []string
	Bcc      []string
	Subject  string
	TextBody string
	HtmlBody string

	Attachments []Attachment
}

// Attachment represents a file embedded in the message as a binary part.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// EnvelopeRecipients returns the SMTP-level delivery list: the To address
// first, then CC, then BCC, in order. BCC addresses appear here and nowhere
// in the rendered headers.
func (e *Email) EnvelopeRecipients() []string {
	recipients := make([]string, 0, 1+len(e.Cc)+len(e.Bcc))
	recipients = append(recipients, e.To)
	recipients = append(recipients, e.Cc...)
	recipients = append(recipients, e.Bcc...)
	return recipients
}

// Compose renders the message as a MIME document. The Cc header is written
// only when there are CC recipients and Bcc is never written; exactly one
// body part is attached, HTML taking precedence when present.
func (e *Email) Compose() *mail.Message {
	m := mail.NewMessage()

	if e.FromName != "" {
		m.SetAddressHeader("From", e.From, e.FromName)
	} else {
		m.SetHeader("From", e.From)
	}
	m.SetHeader("To", e.To)
	if len(e.Cc) > 0 {
		m.SetHeader("Cc", e.Cc...)
	}
	m.SetHeader("Subject", e.Subject)

	if e.HtmlBody != "" {
		m.SetBody("text/html", e.HtmlBody)
	} else {
		m.SetBody("text/plain", e.TextBody)
	}

	for _, att := range e.Attachments {
		content := att.Content
		m.Attach(att.Filename, mail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(content)
			return err
		}))
	}

	return m
}
