package email

import (
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// BuildInput carries everything needed to assemble an outgoing message.
type BuildInput struct {
	Sender   string
	FromName string
	Receiver string
	Subject  string
	TextBody string
	HTMLBody string

	AttachmentPaths []string
	Cc              []string
	Bcc             []string
}

// Build assembles an Email from in. A non-empty HTML body replaces the plain
// text body entirely. Attachment paths that cannot be read are logged and
// skipped; a failed attachment never aborts the build, so the returned
// message is always sendable.
func Build(in BuildInput) *Email {
	e := &Email{
		From:     in.Sender,
		FromName: in.FromName,
		To:       in.Receiver,
		Cc:       in.Cc,
		Bcc:      in.Bcc,
		Subject:  in.Subject,
	}

	if in.HTMLBody != "" {
		e.HtmlBody = in.HTMLBody
	} else {
		e.TextBody = in.TextBody
	}

	for _, path := range in.AttachmentPaths {
		content, err := os.ReadFile(path)
		if err != nil {
			slog.Error("failed to attach file", "path", path, "error", err)
			continue
		}
		name := filepath.Base(path)
		e.Attachments = append(e.Attachments, Attachment{
			Filename:    name,
			ContentType: detectContentType(name),
			Content:     content,
		})
	}

	return e
}

// detectContentType resolves a MIME type from the filename extension,
// falling back to application/octet-stream.
func detectContentType(filename string) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); t != "" {
		return t
	}
	return "application/octet-stream"
}
