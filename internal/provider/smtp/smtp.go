// Package smtp implements a Provider that dispatches mail through an
// authenticated STARTTLS SMTP relay.
package smtp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/textproto"
	"syscall"

	mail "gopkg.in/mail.v2"

	"github.com/shineum/smtp-send-lite/internal/email"
	smtptls "github.com/shineum/smtp-send-lite/internal/tls"
)

// Sentinel errors classifying the stage at which a transmission failed.
var (
	// ErrConnect indicates the relay could not be reached.
	ErrConnect = errors.New("smtp connection failed")

	// ErrAuth indicates the relay rejected the credentials.
	ErrAuth = errors.New("smtp authentication failed")

	// ErrDisconnected indicates the relay dropped the session unexpectedly.
	ErrDisconnected = errors.New("smtp server disconnected")
)

// Config holds the relay connection and authentication settings.
type Config struct {
	Host          string
	Port          int
	Username      string
	Password      string
	TLSSkipVerify bool
}

// Provider sends email through a single SMTP session per call: dial,
// STARTTLS, authenticate, send, close on every path.
type Provider struct {
	config Config
	dial   func() (mail.SendCloser, error)
}

// New creates a new SMTP provider. The STARTTLS upgrade is mandatory; a
// relay that does not offer it fails the session.
func New(cfg Config) *Provider {
	d := mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.StartTLSPolicy = mail.MandatoryStartTLS
	d.TLSConfig = smtptls.ClientConfig(cfg.Host, cfg.TLSSkipVerify)

	return &Provider{config: cfg, dial: d.Dial}
}

// NewWithDialFunc creates a Provider with a custom dial function, used for
// testing.
func NewWithDialFunc(cfg Config, dial func() (mail.SendCloser, error)) *Provider {
	return &Provider{config: cfg, dial: dial}
}

// Send delivers msg through the relay. The envelope recipient set is the To
// address followed by CC and BCC, while the rendered message never carries a
// Bcc header. The session is closed before Send returns, whether or not the
// dispatch succeeded.
func (p *Provider) Send(ctx context.Context, msg *email.Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sc, err := p.dial()
	if err != nil {
		return classify(err)
	}
	defer sc.Close()

	if err := sc.Send(msg.From, msg.EnvelopeRecipients(), msg.Compose()); err != nil {
		return classify(err)
	}

	return nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "smtp"
}

// classify maps a transport error onto the sentinel taxonomy so callers can
// log connection, authentication, and disconnection failures distinctly.
func classify(err error) error {
	var protoErr *textproto.Error
	if errors.As(err, &protoErr) {
		switch protoErr.Code {
		case 530, 534, 535:
			return fmt.Errorf("%w: %w", ErrAuth, err)
		}
		return fmt.Errorf("smtp send failed: %w", err)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Op == "dial" {
			return fmt.Errorf("%w: %w", ErrConnect, err)
		}
		return fmt.Errorf("%w: %w", ErrDisconnected, err)
	}

	if errors.Is(err, io.EOF) || errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE) {
		return fmt.Errorf("%w: %w", ErrDisconnected, err)
	}

	return fmt.Errorf("smtp send failed: %w", err)
}
