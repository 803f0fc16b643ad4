// Package ses implements a Provider that sends emails via AWS SES v2.
package ses

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	sesv2 "github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/shineum/smtp-send-lite/internal/email"
)

// Config holds the settings for creating a Provider.
type Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Sender          string
}

// Provider sends emails via the AWS SES v2 API. Each call is a single
// attempt; the tool makes exactly one delivery attempt per run.
type Provider struct {
	sender string
	client SendEmailAPI
}

// SendEmailAPI is the interface for the SES v2 SendEmail operation.
// Used for testing with mock implementations.
type SendEmailAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// New creates a new Provider with the given configuration.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	var opts []func(*awsconfig.LoadOptions) error

	opts = append(opts, awsconfig.WithRegion(cfg.Region))

	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Provider{
		sender: cfg.Sender,
		client: sesv2.NewFromConfig(awsCfg),
	}, nil
}

// NewWithClient creates a Provider with a custom client, used for testing.
func NewWithClient(sender string, client SendEmailAPI) *Provider {
	return &Provider{
		sender: sender,
		client: client,
	}
}

// Send delivers an email message via AWS SES v2. Messages with attachments
// are rendered to raw MIME; simple messages use the SES structured format.
// The destination always names To, CC, and BCC explicitly so BCC recipients
// are delivered without ever appearing in the message headers.
func (p *Provider) Send(ctx context.Context, msg *email.Email) error {
	var input *sesv2.SendEmailInput

	if len(msg.Attachments) > 0 {
		raw, err := renderRaw(msg)
		if err != nil {
			return fmt.Errorf("failed to build raw message: %w", err)
		}
		input = &sesv2.SendEmailInput{
			FromEmailAddress: aws.String(p.sender),
			Destination:      destination(msg),
			Content: &types.EmailContent{
				Raw: &types.RawMessage{Data: raw},
			},
		}
	} else {
		input = buildSimpleInput(p.sender, msg)
	}

	if _, err := p.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("SES API request failed: %w", err)
	}

	return nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "ses"
}

// destination builds the SES destination from the envelope recipient sets.
func destination(msg *email.Email) *types.Destination {
	return &types.Destination{
		ToAddresses:  []string{msg.To},
		CcAddresses:  msg.Cc,
		BccAddresses: msg.Bcc,
	}
}

// buildSimpleInput creates a SES SendEmailInput for emails without attachments.
func buildSimpleInput(sender string, msg *email.Email) *sesv2.SendEmailInput {
	body := &types.Body{}

	if msg.HtmlBody != "" {
		body.Html = &types.Content{
			Data:    aws.String(msg.HtmlBody),
			Charset: aws.String("UTF-8"),
		}
	} else {
		body.Text = &types.Content{
			Data:    aws.String(msg.TextBody),
			Charset: aws.String("UTF-8"),
		}
	}

	return &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(sender),
		Destination:      destination(msg),
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(msg.Subject),
					Charset: aws.String("UTF-8"),
				},
				Body: body,
			},
		},
	}
}

// renderRaw renders msg to its full MIME form for the SES raw content path.
func renderRaw(msg *email.Email) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := msg.Compose().WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
