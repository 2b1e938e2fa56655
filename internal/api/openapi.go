package api

import (
	"fmt"

	"github.com/JaimeStill/concierge/internal/config"
	"github.com/JaimeStill/concierge/internal/leads"
	"github.com/JaimeStill/concierge/internal/workflow"
	"github.com/JaimeStill/concierge/pkg/openapi"
)

const specPath = "/openapi.json"

func str(desc string) *openapi.Schema {
	return &openapi.Schema{Type: "string", Description: desc}
}

func enum[T ~string](values []T) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

var freeform = &openapi.Schema{Type: "object", Additional: &openapi.Schema{}}

func schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"LeadData": {
			Type:     "object",
			Required: []string{"name", "phone", "email", "source", "interest", "budget_range"},
			Properties: map[string]*openapi.Schema{
				"name":              str("Prospect name"),
				"phone":             str("E.164 phone number"),
				"email":             {Type: "string", Format: "email"},
				"source":            {Type: "string", Example: "website_form"},
				"interest":          {Type: "string", Example: "Rolls-Royce Phantom"},
				"budget_range":      {Type: "string", Example: "8-10 crore"},
				"existing_customer": {Type: "boolean", Description: "Existing customers are promoted to vip_client"},
			},
		},
		"WorkflowRequest": {
			Type:     "object",
			Required: []string{"trigger", "lead_data"},
			Properties: map[string]*openapi.Schema{
				"trigger":   {Type: "string", Enum: enum(workflow.Triggers)},
				"lead_data": openapi.SchemaRef("LeadData"),
			},
		},
		"LogEntry": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"stage":     str("Stage name"),
				"agent":     str("Agent label"),
				"action":    str("Action performed"),
				"status":    {Type: "string", Enum: []any{workflow.StatusExecuted, workflow.StatusScheduled, workflow.StatusPending, workflow.StatusFailed}},
				"timestamp": {Type: "string", Format: "date-time"},
				"details":   freeform,
			},
		},
		"WorkflowResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"workflow_id":     {Type: "string", Example: "wf_20260314043005123456_k3x9qa"},
				"trigger":         {Type: "string", Enum: enum(workflow.Triggers)},
				"status":          {Type: "string", Enum: []any{workflow.RunCompleted, workflow.RunInProgress, workflow.RunFailed}},
				"lead_id":         {Type: "string", Format: "uuid"},
				"executed_agents": openapi.ArrayOf("LogEntry"),
				"lead_stage":      {Type: "string", Enum: enum(leads.Stages)},
				"lead_score":      {Type: "integer"},
				"classification":  {Type: "string", Enum: enum([]leads.Classification{leads.ClassCold, leads.ClassWarm, leads.ClassHot, leads.ClassVIP})},
				"next_actions":    {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"estimated_conversion_probability": {Type: "number", Format: "double"},
			},
		},
		"Lead": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":                {Type: "string", Format: "uuid"},
				"workflow_id":       str("Workflow that captured the lead"),
				"name":              str(""),
				"phone":             str(""),
				"email":             str(""),
				"source":            str(""),
				"interest":          str(""),
				"budget_range":      str(""),
				"existing_customer": {Type: "boolean"},
				"score":             {Type: "integer"},
				"classification":    str(""),
				"stage":             {Type: "string", Enum: enum(leads.Stages)},
				"created_at":        {Type: "string", Format: "date-time"},
				"updated_at":        {Type: "string", Format: "date-time"},
			},
		},
		"LeadPage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        openapi.ArrayOf("Lead"),
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
		"Interaction": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":         {Type: "string", Format: "uuid"},
				"lead_id":    {Type: "string", Format: "uuid"},
				"agent":      str(""),
				"action":     str(""),
				"status":     str(""),
				"details":    freeform,
				"created_at": {Type: "string", Format: "date-time"},
			},
		},
		"StageRequest": {
			Type:     "object",
			Required: []string{"stage"},
			Properties: map[string]*openapi.Schema{
				"stage":  {Type: "string", Enum: enum(leads.Stages)},
				"action": str("Label recorded as stage_update_<action>"),
				"notes":  str(""),
			},
		},
		"ActionRequest": {
			Type:     "object",
			Required: []string{"action"},
			Properties: map[string]*openapi.Schema{
				"action": {Type: "string", Enum: []any{"hold", "qualify", "opportunity", "close_won", "close_lost", "reopen"}},
				"notes":  str(""),
			},
		},
		"StageChange": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"lead_id":   {Type: "string", Format: "uuid"},
				"action":    str(""),
				"new_stage": {Type: "string", Enum: enum(leads.Stages)},
				"notes":     str(""),
			},
		},
		"Metrics": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"stats":            freeform,
				"pipeline_counts":  {Type: "object", Additional: &openapi.Schema{Type: "integer"}},
				"forecast_revenue": freeform,
			},
		},
		"ManualCall": {
			Type:     "object",
			Required: []string{"to_phone"},
			Properties: map[string]*openapi.Schema{
				"to_phone":  str("Number to dial"),
				"variables": freeform,
			},
		},
		"CallResponse": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"provider": str(""),
				"ok":       {Type: "boolean"},
				"info":     freeform,
			},
		},
	}
}

func ok(desc, schema string) map[int]*openapi.Response {
	return map[int]*openapi.Response{200: openapi.ResponseJSON(desc, schema)}
}

// buildSpec describes the routes registered by registerRoutes and registerVoiceRoutes.
func buildSpec(cfg *config.Config) ([]byte, error) {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.UseBearerAuth()
	spec.Components.AddSchemas(schemas())

	base := cfg.API.BasePath
	leadID := openapi.PathParam("id", "Lead ID")

	runResponses := ok("Aggregate workflow result", "WorkflowResult")
	runResponses[400] = openapi.ResponseRef("BadRequest")
	runResponses[413] = openapi.ResponseRef("PayloadTooLarge")

	spec.Add("POST", base+"/workflows/run", (&openapi.Operation{
		Summary:     "Run the lead workflow",
		Tags:        []string{"Workflows"},
		RequestBody: openapi.RequestBodyJSON("WorkflowRequest", true),
		Responses:   runResponses,
	}).Bearer())
	spec.Add("POST", base+"/workflows/test", (&openapi.Operation{
		Summary:     "Run the lead workflow for the sample lead",
		Description: "Fields present in the body override the sample request.",
		Tags:        []string{"Workflows"},
		RequestBody: openapi.RequestBodyJSON("WorkflowRequest", false),
		Responses:   runResponses,
	}).Bearer())

	spec.Add("GET", base+"/leads", (&openapi.Operation{
		Summary: "List leads",
		Tags:    []string{"Leads"},
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
			openapi.QueryParam("search", "string", "Search name, email, phone, interest", false),
			openapi.QueryParam("sort", "string", "Sort fields", false),
			openapi.QueryParam("stage", "string", "Filter by stage", false),
			openapi.QueryParam("classification", "string", "Filter by classification", false),
			openapi.QueryParam("source", "string", "Filter by source", false),
		},
		Responses: ok("Page of leads", "LeadPage"),
	}).Bearer())

	found := ok("Lead", "Lead")
	found[404] = openapi.ResponseRef("NotFound")
	spec.Add("GET", base+"/leads/{id}", (&openapi.Operation{
		Summary:    "Find a lead",
		Tags:       []string{"Leads"},
		Parameters: []*openapi.Parameter{leadID},
		Responses:  found,
	}).Bearer())

	spec.Add("GET", base+"/leads/{id}/interactions", (&openapi.Operation{
		Summary: "Lead interaction history",
		Tags:    []string{"Leads"},
		Parameters: []*openapi.Parameter{
			leadID,
			openapi.QueryParam("limit", "integer", "Maximum entries", false),
		},
		Responses: map[int]*openapi.Response{200: {
			Description: "Interactions, newest first",
			Content:     map[string]*openapi.MediaType{"application/json": {Schema: openapi.ArrayOf("Interaction")}},
		}},
	}).Bearer())

	changed := ok("Stage changed", "StageChange")
	changed[400] = openapi.ResponseRef("BadRequest")
	changed[404] = openapi.ResponseRef("NotFound")
	changed[413] = openapi.ResponseRef("PayloadTooLarge")
	spec.Add("PUT", base+"/leads/{id}/stage", (&openapi.Operation{
		Summary:     "Set a lead's pipeline stage",
		Tags:        []string{"Sales manager"},
		Parameters:  []*openapi.Parameter{leadID},
		RequestBody: openapi.RequestBodyJSON("StageRequest", true),
		Responses:   changed,
	}).Bearer())
	spec.Add("POST", base+"/leads/{id}/actions", (&openapi.Operation{
		Summary:     "Apply a sales manager action",
		Tags:        []string{"Sales manager"},
		Parameters:  []*openapi.Parameter{leadID},
		RequestBody: openapi.RequestBodyJSON("ActionRequest", true),
		Responses:   changed,
	}).Bearer())

	spec.Add("GET", base+"/metrics", (&openapi.Operation{
		Summary:   "Dashboard metrics",
		Tags:      []string{"Dashboard"},
		Responses: ok("Stats, pipeline counts, and revenue forecast", "Metrics"),
	}).Bearer())
	spec.Add("GET", base+"/kanban", (&openapi.Operation{
		Summary: "Pipeline board",
		Tags:    []string{"Dashboard"},
		Responses: map[int]*openapi.Response{200: {
			Description: "Most recent leads",
			Content:     map[string]*openapi.MediaType{"application/json": {Schema: openapi.ArrayOf("Lead")}},
		}},
	}).Bearer())

	spec.Add("GET", base+"/documents/{key}", (&openapi.Operation{
		Summary:    "Download an archived document",
		Tags:       []string{"Documents"},
		Parameters: []*openapi.Parameter{openapi.StringPathParam("key", "Blob key, may contain slashes")},
		Responses: map[int]*openapi.Response{
			200: {Description: "PDF", Content: map[string]*openapi.MediaType{"application/pdf": {}}},
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	}).Bearer())

	callResponses := ok("Provider response", "CallResponse")
	callResponses[400] = openapi.ResponseRef("BadRequest")
	callResponses[413] = openapi.ResponseRef("PayloadTooLarge")
	callResponses[502] = openapi.ResponseRef("BadGateway")
	spec.Add("POST", VoicePrefix+"/call", (&openapi.Operation{
		Summary:     "Place a manual qualification call",
		Tags:        []string{"Voice"},
		RequestBody: openapi.RequestBodyJSON("ManualCall", true),
		Responses:   callResponses,
	}).Bearer())
	spec.Add("POST", VoicePrefix+"/webhook/{provider}", &openapi.Operation{
		Summary:     "Receive a call provider event",
		Description: "Unauthenticated. Pass ?lead_id= to attach the event to a stored lead; unknown ids are kept in the event details.",
		Tags:        []string{"Voice"},
		Parameters: []*openapi.Parameter{
			openapi.StringPathParam("provider", "vapi or ai_sensy"),
			openapi.QueryParam("lead_id", "string", "Lead ID", false),
		},
		RequestBody: &openapi.RequestBody{Content: map[string]*openapi.MediaType{"application/json": {Schema: freeform}}},
		Responses: map[int]*openapi.Response{
			200: {Description: "Event recorded"},
			413: openapi.ResponseRef("PayloadTooLarge"),
		},
	})

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		return nil, fmt.Errorf("marshal openapi: %w", err)
	}
	return data, nil
}
