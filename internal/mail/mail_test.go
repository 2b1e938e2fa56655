package mail_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/JaimeStill/concierge/internal/mail"
)

var brand = mail.Brand{
	Company:      "Luxury Automotive",
	Tagline:      "Excellence in Every Detail",
	ContactEmail: "sales@example.com",
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWelcome(t *testing.T) {
	c, err := mail.Welcome(brand, mail.TierStandard, "Rajesh Sharma", "Rolls-Royce Phantom")
	if err != nil {
		t.Fatalf("Welcome() error = %v", err)
	}
	if c.Subject != "Welcome to Luxury Automotive - Rajesh Sharma" {
		t.Errorf("Subject = %q", c.Subject)
	}
	for _, want := range []string{"Dear Rajesh Sharma,", "We note your interest in Rolls-Royce Phantom", "sales@example.com"} {
		if !strings.Contains(c.Text, want) {
			t.Errorf("Text missing %q", want)
		}
	}
	if c.HTML != "" {
		t.Error("welcome email should be plain text only")
	}

	c, _ = mail.Welcome(brand, mail.TierStandard, "Asha", "")
	if !strings.Contains(c.Text, "understand your preferences") {
		t.Error("Text without interest should use the generic paragraph")
	}
}

func TestWelcomeTiers(t *testing.T) {
	tests := []struct {
		tier    mail.Tier
		subject string
		want    string
		absent  string
	}{
		{mail.TierVIP, "An Exclusive Welcome to Luxury Automotive - Rajesh Sharma", "dedicated concierge will contact you within 4 hours", "valued prospect"},
		{mail.TierHot, "Your Premium Experience Awaits at Luxury Automotive - Rajesh Sharma", "senior luxury vehicle specialist", "dedicated concierge"},
		{mail.TierStandard, "Welcome to Luxury Automotive - Rajesh Sharma", "valued prospect", "senior luxury vehicle specialist"},
		{mail.Tier("unknown"), "Welcome to Luxury Automotive - Rajesh Sharma", "valued prospect", "dedicated concierge"},
	}

	for _, tt := range tests {
		t.Run(string(tt.tier), func(t *testing.T) {
			c, err := mail.Welcome(brand, tt.tier, "Rajesh Sharma", "Rolls-Royce Phantom")
			if err != nil {
				t.Fatalf("Welcome() error = %v", err)
			}
			if c.Subject != tt.subject {
				t.Errorf("Subject = %q, want %q", c.Subject, tt.subject)
			}
			if !strings.Contains(c.Text, tt.want) {
				t.Errorf("Text missing %q:\n%s", tt.want, c.Text)
			}
			if strings.Contains(c.Text, tt.absent) {
				t.Errorf("Text should not contain %q", tt.absent)
			}
		})
	}
}

func TestDocuments(t *testing.T) {
	c, err := mail.Documents(brand, "Rajesh Sharma", []string{"quotation", "contract"}, "Rolls-Royce Phantom")
	if err != nil {
		t.Fatalf("Documents() error = %v", err)
	}
	if c.Subject != "Your Quotation and Contract - Luxury Automotive Experience" {
		t.Errorf("Subject = %q", c.Subject)
	}
	for _, want := range []string{
		"requested quotation and contract",
		"- Quotation: Detailed pricing",
		"- Contract: Purchase agreement",
		"Vehicle Information: Rolls-Royce Phantom",
	} {
		if !strings.Contains(c.Text, want) {
			t.Errorf("Text missing %q", want)
		}
	}
	if !strings.Contains(c.HTML, "<strong>Quotation:</strong>") {
		t.Error("HTML missing quotation entry")
	}
}

func TestDocumentsEscapesHTML(t *testing.T) {
	c, err := mail.Documents(brand, "<b>Eve</b>", []string{"quotation"}, "")
	if err != nil {
		t.Fatalf("Documents() error = %v", err)
	}
	if strings.Contains(c.HTML, "<b>Eve</b>") {
		t.Error("HTML body should escape the customer name")
	}
}

func TestFollowUp(t *testing.T) {
	c, err := mail.FollowUp(brand, "Rajesh Sharma", "Your quotation is ready for review.")
	if err != nil {
		t.Fatalf("FollowUp() error = %v", err)
	}
	if c.Subject != "Following Up on Your Luxury Vehicle Inquiry - Rajesh Sharma" {
		t.Errorf("Subject = %q", c.Subject)
	}
	if !strings.Contains(c.Text, "Your quotation is ready for review.") {
		t.Error("Text missing context paragraph")
	}
}

func TestDescribeDocuments(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{nil, ""},
		{[]string{"quotation"}, "Quotation"},
		{[]string{"quotation", "contract"}, "Quotation and Contract"},
		{[]string{"quotation", "contract", "invoice"}, "Quotation, Contract, and Invoice"},
	}
	for _, tt := range tests {
		if got := mail.DescribeDocuments(tt.in); got != tt.want {
			t.Errorf("DescribeDocuments(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestContentMessage(t *testing.T) {
	att := mail.Attachment{Filename: "quotation.pdf", Content: []byte("%PDF")}
	msg := mail.Content{Subject: "s", Text: "t"}.Message("a@example.com", att)
	if msg.To != "a@example.com" || len(msg.Attachments) != 1 {
		t.Errorf("Message() = %+v", msg)
	}
}

func TestConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		var cfg mail.Config
		if err := cfg.Finalize(nil); err != nil {
			t.Fatalf("Finalize() error = %v", err)
		}
		if cfg.Enabled() {
			t.Error("Enabled() = true without credentials")
		}
		if cfg.Host != "smtp.gmail.com" || cfg.Port != 587 || cfg.TLS != mail.TLSMandatory {
			t.Errorf("defaults = %+v", cfg)
		}
		if cfg.Brand().Company != "Luxury Automotive" {
			t.Errorf("Brand() = %+v", cfg.Brand())
		}
	})

	t.Run("env", func(t *testing.T) {
		t.Setenv("TEST_MAIL_USER", "crm@example.com")
		t.Setenv("TEST_MAIL_PASSWORD", "app-password")
		t.Setenv("TEST_MAIL_PORT", "2525")

		var cfg mail.Config
		err := cfg.Finalize(&mail.Env{Username: "TEST_MAIL_USER", Password: "TEST_MAIL_PASSWORD", Port: "TEST_MAIL_PORT"})
		if err != nil {
			t.Fatalf("Finalize() error = %v", err)
		}
		if !cfg.Enabled() || cfg.Port != 2525 {
			t.Errorf("cfg = %+v", cfg)
		}
		if cfg.FromAddress != "crm@example.com" || cfg.ContactEmail != "crm@example.com" {
			t.Errorf("from/contact = %q/%q", cfg.FromAddress, cfg.ContactEmail)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		for _, cfg := range []mail.Config{{TLS: "starttls-maybe"}, {Timeout: "soon"}, {Port: 70000}} {
			if err := cfg.Finalize(nil); err == nil {
				t.Errorf("Finalize(%+v) expected error", cfg)
			}
		}
	})
}

func TestSendNotConfigured(t *testing.T) {
	cfg := mail.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatal(err)
	}
	s := mail.New(&cfg, discard())

	ok, info := s.Send(context.Background(), mail.Message{To: "a@example.com", Subject: "hi", Text: "hello"})
	if ok {
		t.Fatal("Send() = true without credentials")
	}
	if info["error"] != mail.ErrNotConfigured.Error() {
		t.Errorf("info = %v", info)
	}
}

func TestSendUnreachableRelay(t *testing.T) {
	cfg := mail.Config{Host: "127.0.0.1", Port: 1, Username: "u", Password: "p", TLS: mail.TLSNone, Timeout: "2s"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatal(err)
	}
	s := mail.New(&cfg, discard())

	ok, info := s.Send(context.Background(), mail.Message{To: "a@example.com", Subject: "hi", Text: "hello"})
	if ok {
		t.Fatal("Send() = true against a closed port")
	}
	if _, has := info["error"]; !has {
		t.Errorf("info = %v, want error", info)
	}
}
