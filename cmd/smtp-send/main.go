// Package main is the entry point for the smtp-send CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/shineum/smtp-send-lite/internal/config"
	"github.com/shineum/smtp-send-lite/internal/email"
	"github.com/shineum/smtp-send-lite/internal/logging"
	"github.com/shineum/smtp-send-lite/internal/provider"
	"github.com/shineum/smtp-send-lite/internal/provider/dryrun"
	"github.com/shineum/smtp-send-lite/internal/provider/ses"
	"github.com/shineum/smtp-send-lite/internal/provider/smtp"
)

func main() {
	configPath := pflag.String("config", "config.ini", "path to INI configuration file")
	receiver := pflag.String("receiver", "", "email address of the receiver (required)")
	subject := pflag.String("subject", "", "subject of the email (required)")
	body := pflag.String("body", "", "plain text body of the email (required)")
	html := pflag.String("html", "", "HTML body, replaces the plain text body when set")
	attachments := pflag.StringArray("attachments", nil, "file path to attach, repeatable")
	cc := pflag.StringSlice("cc", nil, "CC recipients")
	bcc := pflag.StringSlice("bcc", nil, "BCC recipients")
	dryRun := pflag.Bool("dry_run", false, "build the message but skip transmission")
	pflag.Parse()

	if *receiver == "" || *subject == "" || *body == "" {
		fmt.Fprintln(os.Stderr, "smtp-send: --receiver, --subject and --body are required")
		pflag.Usage()
		os.Exit(2)
	}

	if err := logging.Setup("logs"); err != nil {
		fmt.Fprintf(os.Stderr, "smtp-send: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Send failures are logged, never surfaced as a non-zero exit code.
	run(ctx, *configPath, email.BuildInput{
		Receiver:        *receiver,
		Subject:         *subject,
		TextBody:        *body,
		HTMLBody:        *html,
		AttachmentPaths: *attachments,
		Cc:              *cc,
		Bcc:             *bcc,
	}, *dryRun)
}

// run performs one send attempt: load config, build the message, pick the
// delivery backend, dispatch, log the outcome.
func run(ctx context.Context, configPath string, in email.BuildInput, dryRun bool) {
	cfg, err := config.Load(configPath)
	if err != nil {
		logConfigError(err)
		return
	}
	logging.SetLevel(cfg.Logging.Level)
	if cfg.Logging.Dir != "logs" {
		if err := logging.Setup(cfg.Logging.Dir); err != nil {
			slog.Error("failed to set up logging", "error", err)
			return
		}
	}

	in.Sender = cfg.SMTP.Username
	in.FromName = cfg.SMTP.FromName
	msg := email.Build(in)

	// Dry run is terminal: record the intent, never touch the network.
	if dryRun {
		dryrun.New().Send(ctx, msg)
		return
	}

	prov := selectProvider(ctx, cfg)
	if prov == nil {
		return
	}

	if err := prov.Send(ctx, msg); err != nil {
		logSendError(err)
		return
	}

	slog.Info("email sent successfully",
		"provider", prov.Name(),
		"recipients", strings.Join(msg.EnvelopeRecipients(), ", "),
	)
}

// selectProvider chooses the delivery backend between the SMTP relay and
// SES. A nil return means the run ends without a send attempt.
func selectProvider(ctx context.Context, cfg *config.Config) provider.Provider {
	switch cfg.Provider {
	case "smtp", "":
		return smtp.New(smtp.Config{
			Host:          cfg.SMTP.Server,
			Port:          cfg.SMTP.Port,
			Username:      cfg.SMTP.Username,
			Password:      cfg.SMTP.Password,
			TLSSkipVerify: cfg.SMTP.TLSSkipVerify,
		})

	case "ses":
		if !cfg.SESConfigured() {
			slog.Error("SES provider selected but [SES] REGION and SENDER are required")
			return nil
		}
		p, err := ses.New(ctx, ses.Config{
			Region:          cfg.SES.Region,
			AccessKeyID:     cfg.SES.AccessKeyID,
			SecretAccessKey: cfg.SES.SecretAccessKey,
			Sender:          cfg.SES.Sender,
		})
		if err != nil {
			slog.Error("failed to create SES provider", "error", err)
			return nil
		}
		return p

	default:
		slog.Error("unknown provider", "provider", cfg.Provider)
		return nil
	}
}

// logConfigError logs a configuration failure with a message matching its
// cause.
func logConfigError(err error) {
	var missing *config.MissingFieldError
	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		slog.Error("configuration file not found", "error", err)
	case errors.As(err, &missing):
		slog.Error("configuration is incomplete", "section", missing.Section, "key", missing.Key)
	default:
		slog.Error("failed to load configuration", "error", err)
	}
}

// logSendError logs a transmission failure with a message matching the stage
// at which it occurred.
func logSendError(err error) {
	switch {
	case errors.Is(err, smtp.ErrConnect):
		slog.Error("smtp server connection failed", "error", err)
	case errors.Is(err, smtp.ErrAuth):
		slog.Error("authentication failed", "error", err)
	case errors.Is(err, smtp.ErrDisconnected):
		slog.Error("server disconnected unexpectedly", "error", err)
	default:
		slog.Error("failed to send email", "error", err)
	}
}
