// Package mail sends customer email over SMTP and renders the welcome,
// document and follow-up templates.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// PDFContentType is the content type for generated documents.
const PDFContentType = "application/pdf"

// Attachment is a file sent with a message.
type Attachment struct {
	Filename    string
	Content     []byte
	ContentType string
}

// Message is a rendered email. HTML is optional and sent as an alternative part.
type Message struct {
	To          string
	Subject     string
	Text        string
	HTML        string
	Attachments []Attachment
}

// Sender delivers messages. Send never returns an error: the outcome is the
// boolean and a details map suitable for an audit trail.
type Sender interface {
	Send(ctx context.Context, msg Message) (bool, map[string]any)
}

type smtpSender struct {
	cfg    Config
	logger *slog.Logger
	now    func() time.Time
}

// New creates an SMTP sender. A disabled config yields a sender whose every
// send reports ErrNotConfigured.
func New(cfg *Config, logger *slog.Logger) Sender {
	return &smtpSender{
		cfg:    *cfg,
		logger: logger.With("system", "mail"),
		now:    time.Now,
	}
}

func (s *smtpSender) Send(ctx context.Context, msg Message) (bool, map[string]any) {
	if err := s.send(ctx, msg); err != nil {
		s.logger.WarnContext(ctx, "email not sent", "subject", msg.Subject, "error", err)
		return false, map[string]any{"error": err.Error()}
	}

	s.logger.InfoContext(ctx, "email sent", "subject", msg.Subject, "attachments", len(msg.Attachments))
	return true, map[string]any{"email_sent_at": s.now().UTC().Format(time.RFC3339)}
}

func (s *smtpSender) send(ctx context.Context, msg Message) error {
	if !s.cfg.Enabled() {
		return ErrNotConfigured
	}

	m, err := s.build(msg)
	if err != nil {
		return err
	}

	client, err := gomail.NewClient(s.cfg.Host,
		gomail.WithPort(s.cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.cfg.Username),
		gomail.WithPassword(s.cfg.Password),
		gomail.WithTLSPolicy(tlsPolicy(s.cfg.TLS)),
		gomail.WithTimeout(s.cfg.TimeoutDuration()),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (s *smtpSender) build(msg Message) (*gomail.Msg, error) {
	if msg.To == "" {
		return nil, ErrNoRecipient
	}

	m := gomail.NewMsg()
	if err := m.FromFormat(s.cfg.Company, s.cfg.FromAddress); err != nil {
		return nil, fmt.Errorf("from address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("recipient: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextPlain, msg.Text)
	if msg.HTML != "" {
		m.AddAlternativeString(gomail.TypeTextHTML, msg.HTML)
	}

	for _, a := range msg.Attachments {
		ct := a.ContentType
		if ct == "" {
			ct = PDFContentType
		}
		err := m.AttachReader(a.Filename, bytes.NewReader(a.Content),
			gomail.WithFileContentType(gomail.ContentType(ct)))
		if err != nil {
			return nil, fmt.Errorf("attach %s: %w", a.Filename, err)
		}
	}
	return m, nil
}

func tlsPolicy(name string) gomail.TLSPolicy {
	switch name {
	case TLSOpportunistic:
		return gomail.TLSOpportunistic
	case TLSNone:
		return gomail.NoTLS
	default:
		return gomail.TLSMandatory
	}
}
