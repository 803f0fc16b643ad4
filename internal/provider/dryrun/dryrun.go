// Package dryrun implements a Provider that records the intent to send
// without any network activity.
package dryrun

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/shineum/smtp-send-lite/internal/email"
)

// Provider logs the intended delivery and prints a human-readable preview of
// the message. It never opens a connection and always succeeds.
type Provider struct {
	// writer is the preview destination, defaulting to os.Stdout.
	writer io.Writer
}

// New creates a new dry-run Provider that writes its preview to os.Stdout.
func New() *Provider {
	return &Provider{writer: os.Stdout}
}

// NewWithWriter creates a new dry-run Provider that writes the preview to
// the given writer. This is useful for testing.
func NewWithWriter(w io.Writer) *Provider {
	return &Provider{writer: w}
}

// Send records the intended receiver and prints the message preview.
// It always returns nil.
func (p *Provider) Send(_ context.Context, msg *email.Email) error {
	slog.Info("dry run enabled, email not sent", "receiver", msg.To)

	var b strings.Builder

	b.WriteString("========================================\n")
	b.WriteString(fmt.Sprintf("From: %s\n", msg.From))
	b.WriteString(fmt.Sprintf("To: %s\n", msg.To))

	if len(msg.Cc) > 0 {
		b.WriteString(fmt.Sprintf("Cc: %s\n", strings.Join(msg.Cc, ", ")))
	}
	if len(msg.Bcc) > 0 {
		b.WriteString(fmt.Sprintf("Bcc: %s\n", strings.Join(msg.Bcc, ", ")))
	}

	b.WriteString(fmt.Sprintf("Subject: %s\n", msg.Subject))
	b.WriteString("Body:\n")

	body := msg.TextBody
	if body == "" {
		body = msg.HtmlBody
	}
	b.WriteString(body + "\n")

	if len(msg.Attachments) > 0 {
		attachments := make([]string, 0, len(msg.Attachments))
		for _, att := range msg.Attachments {
			attachments = append(attachments, fmt.Sprintf("%s (%s)", att.Filename, formatSize(len(att.Content))))
		}
		b.WriteString(fmt.Sprintf("Attachments: %s\n", strings.Join(attachments, ", ")))
	}

	b.WriteString("========================================\n")

	fmt.Fprint(p.writer, b.String())
	return nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "dryrun"
}

// formatSize formats a byte count into a human-readable string.
func formatSize(bytes int) string {
	const (
		kb = 1024
		mb = kb * 1024
	)

	switch {
	case bytes >= mb:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(mb))
	case bytes >= kb:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(kb))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
