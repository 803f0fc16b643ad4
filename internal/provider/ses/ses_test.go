package ses

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	sesv2 "github.com/aws/aws-sdk-go-v2/service/sesv2"

	"github.com/shineum/smtp-send-lite/internal/email"
)

// mockSESClient implements SendEmailAPI for testing.
type mockSESClient struct {
	sendFn    func(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
	callCount int
	lastInput *sesv2.SendEmailInput
}

func (m *mockSESClient) SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	m.callCount++
	m.lastInput = params
	if m.sendFn != nil {
		return m.sendFn(ctx, params, optFns...)
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("test-message-id")}, nil
}

func TestName(t *testing.T) {
	t.Parallel()
	p := NewWithClient("sender@example.com", &mockSESClient{})
	if got := p.Name(); got != "ses" {
		t.Errorf("Name(): got %q, want %q", got, "ses")
	}
}

func TestSend_SimpleTextEmail(t *testing.T) {
	t.Parallel()

	mock := &mockSESClient{}
	p := NewWithClient("sender@example.com", mock)

	msg := &email.Email{
		From:     "sender@example.com",
		To:       "to@example.com",
		Subject:  "Test Subject",
		TextBody: "Hello, World!",
	}

	if err := p.Send(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if mock.callCount != 1 {
		t.Errorf("call count: got %d, want 1", mock.callCount)
	}

	input := mock.lastInput
	if input.Content.Simple == nil {
		t.Fatal("expected simple email content, got nil")
	}
	if got := *input.FromEmailAddress; got != "sender@example.com" {
		t.Errorf("FromEmailAddress: got %q, want %q", got, "sender@example.com")
	}
	if got := *input.Content.Simple.Subject.Data; got != "Test Subject" {
		t.Errorf("Subject: got %q, want %q", got, "Test Subject")
	}
	if got := *input.Content.Simple.Body.Text.Data; got != "Hello, World!" {
		t.Errorf("TextBody: got %q, want %q", got, "Hello, World!")
	}
	if input.Content.Simple.Body.Html != nil {
		t.Error("expected no HTML body")
	}
}

func TestSend_SimpleHtmlEmail(t *testing.T) {
	t.Parallel()

	mock := &mockSESClient{}
	p := NewWithClient("sender@example.com", mock)

	msg := &email.Email{
		From:     "sender@example.com",
		To:       "to@example.com",
		Subject:  "HTML Test",
		HtmlBody: "<h1>Hello</h1>",
	}

	if err := p.Send(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	input := mock.lastInput
	if got := *input.Content.Simple.Body.Html.Data; got != "<h1>Hello</h1>" {
		t.Errorf("HtmlBody: got %q, want %q", got, "<h1>Hello</h1>")
	}
	if input.Content.Simple.Body.Text != nil {
		t.Error("expected no text body when HTML is set")
	}
}

func TestSend_DestinationCarriesAllRecipients(t *testing.T) {
	t.Parallel()

	mock := &mockSESClient{}
	p := NewWithClient("sender@example.com", mock)

	msg := &email.Email{
		From:     "sender@example.com",
		To:       "to@example.com",
		Cc:       []string{"cc@example.com"},
		Bcc:      []string{"bcc@example.com"},
		Subject:  "Multi-recipient",
		TextBody: "Hello",
	}

	if err := p.Send(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dest := mock.lastInput.Destination
	if len(dest.ToAddresses) != 1 || dest.ToAddresses[0] != "to@example.com" {
		t.Errorf("ToAddresses: got %v, want [to@example.com]", dest.ToAddresses)
	}
	if len(dest.CcAddresses) != 1 {
		t.Errorf("CcAddresses: got %d, want 1", len(dest.CcAddresses))
	}
	if len(dest.BccAddresses) != 1 {
		t.Errorf("BccAddresses: got %d, want 1", len(dest.BccAddresses))
	}
}

func TestSend_WithAttachments(t *testing.T) {
	t.Parallel()

	mock := &mockSESClient{}
	p := NewWithClient("sender@example.com", mock)

	msg := &email.Email{
		From:     "sender@example.com",
		To:       "to@example.com",
		Bcc:      []string{"bcc@example.com"},
		Subject:  "With Attachment",
		TextBody: "See attachment",
		Attachments: []email.Attachment{
			{
				Filename:    "test.txt",
				ContentType: "text/plain",
				Content:     []byte("file content"),
			},
		},
	}

	if err := p.Send(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	input := mock.lastInput
	if input.Content.Raw == nil {
		t.Fatal("expected raw email content for attachment, got nil")
	}
	if input.Content.Simple != nil {
		t.Error("expected no simple content when using raw message")
	}
	if input.Destination == nil || len(input.Destination.BccAddresses) != 1 {
		t.Error("raw path must still carry BCC in the destination")
	}

	rawStr := string(input.Content.Raw.Data)
	if !strings.Contains(rawStr, "To: to@example.com") {
		t.Error("raw message missing To header")
	}
	if !strings.Contains(rawStr, "Subject: With Attachment") {
		t.Error("raw message missing Subject header")
	}
	if !strings.Contains(rawStr, "multipart/mixed") {
		t.Error("raw message missing multipart/mixed content type")
	}
	if !strings.Contains(rawStr, "test.txt") {
		t.Error("raw message missing attachment filename")
	}
	if strings.Contains(rawStr, "bcc@example.com") {
		t.Error("BCC address must not appear in the raw message headers")
	}
}

func TestSend_APIErrorSingleAttempt(t *testing.T) {
	t.Parallel()

	mock := &mockSESClient{
		sendFn: func(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
			return nil, errors.New("throttled")
		},
	}
	p := NewWithClient("sender@example.com", mock)

	msg := &email.Email{
		From:     "sender@example.com",
		To:       "to@example.com",
		Subject:  "Fail Test",
		TextBody: "Hello",
	}

	err := p.Send(context.Background(), msg)
	if err == nil {
		t.Fatal("expected error from the API")
	}
	if mock.callCount != 1 {
		t.Errorf("call count: got %d, want 1 (single attempt per run)", mock.callCount)
	}
}

// Verify Provider implements the delivery backend interface.
func TestProviderInterface(t *testing.T) {
	t.Parallel()

	var _ interface {
		Send(ctx context.Context, msg *email.Email) error
		Name() string
	} = (*Provider)(nil)
}
