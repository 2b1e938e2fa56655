package workflow

import (
	"context"
	"maps"
	"time"

	"github.com/JaimeStill/concierge/internal/documents"
	"github.com/JaimeStill/concierge/internal/leads"
	"github.com/JaimeStill/concierge/internal/mail"
)

const (
	documentRetryHours = 6
	documentTemplate   = "professional_document_email"
)

// DocumentKinds selects the PDFs produced for a classification. Warm
// prospects get a brochure follow-up that is not rendered here, so they and
// cold leads receive nothing.
func DocumentKinds(class leads.Classification) []documents.Kind {
	switch class {
	case leads.ClassHot, leads.ClassVIP:
		return []documents.Kind{documents.KindQuotation, documents.KindContract}
	default:
		return nil
	}
}

func generateDocuments(ctx context.Context, rt *Runtime, _ string, s State) (State, outcome, error) {
	d := s.LeadData
	customer := documents.Customer{
		Name:     d.Name,
		Email:    d.Email,
		Phone:    d.Phone,
		Interest: d.Interest,
	}

	rendered, err := rt.Documents.Render(ctx, customer, DocumentKinds(s.Classification))
	if err != nil {
		return s, outcome{}, err
	}

	generated := make([]string, 0, len(rendered))
	details := map[string]any{"generated": generated}
	var status string

	if len(rendered) > 0 {
		docTypes := make([]string, len(rendered))
		attachments := make([]mail.Attachment, len(rendered))
		for i, r := range rendered {
			generated = append(generated, r.Filename())
			docTypes[i] = string(r.Kind)
			attachments[i] = mail.Attachment{
				Filename:    r.Filename(),
				Content:     r.Data,
				ContentType: mail.PDFContentType,
			}
		}
		details["generated"] = generated

		if rt.Documents.ArchiveEnabled() {
			archive(ctx, rt, s, rendered, details)
		}

		content, err := mail.Documents(rt.Brand, customerName(d), docTypes, d.Interest)
		if err != nil {
			return s, outcome{}, err
		}

		ok, info := rt.Mailer.Send(ctx, content.Message(d.Email, attachments...))
		details["email_sent"] = ok
		details["email_template"] = documentTemplate
		details["document_types"] = docTypes
		maps.Copy(details, info)
		status = sentStatus(ok)
	} else {
		eta := rt.after(documentRetryHours)
		if err := rt.Leads.ScheduleAction(ctx, s.LeadID, "document_generation", eta); err != nil {
			return s, outcome{}, err
		}
		details["eta"] = eta.Format(time.RFC3339)
		status = StatusPending
	}

	snapshot := map[string]any{"status": status}
	maps.Copy(snapshot, details)
	s.DocumentStatus = snapshot

	return s, outcome{status: status, details: snapshot}, nil
}

// archive stores each rendered document. Archive failures are noted in
// details and do not fail the stage.
func archive(ctx context.Context, rt *Runtime, s State, rendered []documents.Rendered, details map[string]any) {
	keys := make([]string, 0, len(rendered))
	for _, r := range rendered {
		key, err := rt.Documents.Archive(ctx, s.LeadID, r.Filename(), r.Data)
		if err != nil {
			rt.Logger.WarnContext(ctx, "document archive failed", "lead_id", s.LeadID, "document", r.Filename(), "error", err)
			details["archive_error"] = err.Error()
			continue
		}
		keys = append(keys, key)
	}
	details["archived"] = keys
}
