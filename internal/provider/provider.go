// Package provider defines the interface for email delivery backends.
package provider

import (
	"context"

	"github.com/shineum/smtp-send-lite/internal/email"
)

// Provider is the interface that email delivery backends must implement.
// Each provider handles the actual dispatch of an assembled message to the
// target service (SMTP relay, AWS SES, or the dry-run sink).
type Provider interface {
	// Send delivers an email message through this provider.
	// It returns an error if the delivery fails.
	Send(ctx context.Context, msg *email.Email) error

	// Name returns the human-readable name of this provider.
	Name() string
}
