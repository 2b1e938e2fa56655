package mail

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var funcs = map[string]any{"lower": strings.ToLower}

var (
	textTemplates = template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.txt.tmpl"))
	htmlTemplates = htmltemplate.Must(htmltemplate.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html.tmpl"))
)

var documentSummaries = map[string]string{
	"quotation": "Detailed pricing and specifications for your selected vehicle",
	"invoice":   "Official invoice with payment terms and conditions",
	"contract":  "Purchase agreement with terms and conditions",
}

// Brand is the sender identity shown in every template.
type Brand struct {
	Company      string
	Tagline      string
	ContactEmail string
}

// Content is a rendered subject and body pair. HTML is empty for plain-text templates.
type Content struct {
	Subject string
	Text    string
	HTML    string
}

// Message addresses the content to a recipient.
func (c Content) Message(to string, attachments ...Attachment) Message {
	return Message{
		To:          to,
		Subject:     c.Subject,
		Text:        c.Text,
		HTML:        c.HTML,
		Attachments: attachments,
	}
}

type documentEntry struct {
	Title   string
	Summary string
}

// Tier selects the welcome email variant.
type Tier string

const (
	TierVIP      Tier = "luxury_welcome_vip"
	TierHot      Tier = "premium_welcome_hot"
	TierStandard Tier = "standard_welcome"
)

var welcomeSubjects = map[Tier]string{
	TierVIP:      "An Exclusive Welcome to %s - %s",
	TierHot:      "Your Premium Experience Awaits at %s - %s",
	TierStandard: "Welcome to %s - %s",
}

// Welcome renders the first-contact email for a tier. Unknown tiers render
// as TierStandard.
func Welcome(b Brand, tier Tier, name, interest string) (Content, error) {
	subject, ok := welcomeSubjects[tier]
	if !ok {
		tier, subject = TierStandard, welcomeSubjects[TierStandard]
	}

	text, err := renderText("welcome.txt.tmpl", map[string]any{
		"Brand":    b,
		"Tier":     string(tier),
		"Name":     name,
		"Interest": interest,
	})
	if err != nil {
		return Content{}, err
	}
	return Content{
		Subject: fmt.Sprintf(subject, b.Company, name),
		Text:    text,
	}, nil
}

// Documents renders the cover email for generated documents, in plain text and HTML.
func Documents(b Brand, name string, docTypes []string, vehicle string) (Content, error) {
	description := DescribeDocuments(docTypes)

	entries := make([]documentEntry, len(docTypes))
	for i, d := range docTypes {
		summary, ok := documentSummaries[strings.ToLower(d)]
		if !ok {
			summary = "Important documentation for your reference"
		}
		entries[i] = documentEntry{Title: title(d), Summary: summary}
	}

	data := map[string]any{
		"Brand":       b,
		"Name":        name,
		"Description": description,
		"Documents":   entries,
		"Vehicle":     vehicle,
	}

	text, err := renderText("documents.txt.tmpl", data)
	if err != nil {
		return Content{}, err
	}

	var html bytes.Buffer
	if err := htmlTemplates.ExecuteTemplate(&html, "documents.html.tmpl", data); err != nil {
		return Content{}, fmt.Errorf("render documents.html.tmpl: %w", err)
	}

	return Content{
		Subject: fmt.Sprintf("Your %s - %s Experience", description, b.Company),
		Text:    text,
		HTML:    html.String(),
	}, nil
}

// FollowUp renders a follow-up email. An empty context uses the standard paragraph.
func FollowUp(b Brand, name, context string) (Content, error) {
	text, err := renderText("followup.txt.tmpl", map[string]any{
		"Brand":   b,
		"Name":    name,
		"Context": context,
	})
	if err != nil {
		return Content{}, err
	}
	return Content{
		Subject: fmt.Sprintf("Following Up on Your Luxury Vehicle Inquiry - %s", name),
		Text:    text,
	}, nil
}

// DescribeDocuments joins title-cased document types: "Quotation",
// "Quotation and Contract", "Quotation, Contract, and Invoice".
func DescribeDocuments(docTypes []string) string {
	titles := make([]string, len(docTypes))
	for i, d := range docTypes {
		titles[i] = title(d)
	}

	switch len(titles) {
	case 0:
		return ""
	case 1:
		return titles[0]
	case 2:
		return titles[0] + " and " + titles[1]
	default:
		return strings.Join(titles[:len(titles)-1], ", ") + ", and " + titles[len(titles)-1]
	}
}

func renderText(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := textTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// Casers carry state, so one is built per call.
func title(s string) string {
	return cases.Title(language.English).String(s)
}
