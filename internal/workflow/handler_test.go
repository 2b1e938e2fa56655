package workflow_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/concierge/internal/leads"
	"github.com/JaimeStill/concierge/internal/workflow"
	"github.com/JaimeStill/concierge/pkg/routes"
)

func newServer(h *harness, maxBody int64) *http.ServeMux {
	mux := http.NewServeMux()
	handler := workflow.NewHandler(h.rt, slog.New(slog.NewTextHandler(io.Discard, nil)), maxBody)
	routes.Register(mux, handler.Routes())
	return mux
}

func post(mux *http.ServeMux, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestNewWorkflowID(t *testing.T) {
	at := time.Date(2026, 3, 14, 10, 0, 5, 123456000, time.FixedZone("IST", 5*3600+1800))
	id := workflow.NewWorkflowID(at)

	pattern := regexp.MustCompile(`^wf_20260314043005123456_[a-z0-9]{6}$`)
	if !pattern.MatchString(id) {
		t.Errorf("NewWorkflowID() = %q", id)
	}
	if workflow.NewWorkflowID(at) == id {
		t.Error("consecutive ids share a random suffix")
	}
}

func TestHandlerRun(t *testing.T) {
	h := newHarness(fixedScorer(80))
	mux := newServer(h, 1<<20)

	body := `{"trigger":"new_lead","lead_data":{"name":"Rajesh Sharma","phone":"+919876543210","email":"rajesh@example.com","source":"website_form","interest":"Rolls-Royce Phantom","budget_range":"8-10 crore"}}`
	rec := post(mux, "/workflows/run", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var result workflow.WorkflowResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(result.WorkflowID, "wf_") {
		t.Errorf("WorkflowID = %q", result.WorkflowID)
	}
	if result.Classification != leads.ClassHot {
		t.Errorf("Classification = %q, want hot_lead", result.Classification)
	}
	if len(result.ExecutedAgents) != 6 {
		t.Errorf("executed %d agents, want 6", len(result.ExecutedAgents))
	}
	if len(h.store.inserted) != 1 {
		t.Errorf("inserted %d leads, want 1", len(h.store.inserted))
	}
}

func TestHandlerRunRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"invalid json", `{"trigger":`, http.StatusBadRequest},
		{"empty body", ``, http.StatusBadRequest},
		{"unknown trigger", `{"trigger":"cold_call","lead_data":{}}`, http.StatusBadRequest},
		{"missing fields", `{"trigger":"new_lead","lead_data":{"name":"Asha"}}`, http.StatusBadRequest},
		{"markup only name", `{"trigger":"new_lead","lead_data":{"name":"<b></b>","phone":"1","email":"a@b.c","source":"walk_in","interest":"Cullinan","budget_range":"5+ crores"}}`, http.StatusBadRequest},
		{"body too large", `{"trigger":"new_lead","lead_data":{"name":"` + strings.Repeat("x", 1024) + `"}}`, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(fixedScorer(80))
			mux := newServer(h, 512)

			rec := post(mux, "/workflows/run", tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
			if len(h.store.inserted) != 0 {
				t.Error("rejected request reached the lead store")
			}
		})
	}
}

func TestHandlerTest(t *testing.T) {
	t.Run("sample lead", func(t *testing.T) {
		h := newHarness(fixedScorer(60))
		rec := post(newServer(h, 1<<20), "/workflows/test", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		var result workflow.WorkflowResult
		if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if result.Trigger != workflow.TriggerNewLead {
			t.Errorf("Trigger = %q, want new_lead", result.Trigger)
		}
		if result.Classification != leads.ClassWarm {
			t.Errorf("Classification = %q, want warm_prospect", result.Classification)
		}
	})

	t.Run("payload overrides sample", func(t *testing.T) {
		h := newHarness(fixedScorer(60))
		body := `{"trigger":"follow_up","lead_data":{"name":"Priya Nair","existing_customer":true}}`
		rec := post(newServer(h, 1<<20), "/workflows/test", body)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		var result workflow.WorkflowResult
		if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if result.Trigger != workflow.TriggerFollowUp {
			t.Errorf("Trigger = %q, want follow_up", result.Trigger)
		}
		if result.Classification != leads.ClassVIP {
			t.Errorf("Classification = %q, want vip_client", result.Classification)
		}
	})
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{workflow.ErrInvalidTrigger, http.StatusBadRequest},
		{workflow.ErrInvalidRequest, http.StatusBadRequest},
		{leads.ErrMissingField, http.StatusBadRequest},
		{&http.MaxBytesError{Limit: 1}, http.StatusRequestEntityTooLarge},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := workflow.MapHTTPStatus(tt.err); got != tt.want {
			t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
