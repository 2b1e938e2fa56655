package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/concierge/internal/workflow"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the lead workflow for a lead described in a JSON file",
		Long: `Run the six-stage lead workflow once and print the result as JSON.

The file holds either a full request ({"trigger": ..., "lead_data": {...}})
or a bare lead object; --trigger applies when the file names none.`,
		Args: cobra.NoArgs,
		RunE: runWorkflow,
	}

	cmd.Flags().StringP("file", "f", "", "path to the lead JSON file")
	cmd.Flags().String("trigger", string(workflow.TriggerNewLead), "workflow trigger")
	cmd.MarkFlagRequired("file")

	return cmd
}

func runWorkflow(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("file")
	fallback, _ := cmd.Flags().GetString("trigger")

	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	req, err := parseRequest(raw, fallback)
	if err != nil {
		return err
	}

	trigger, err := workflow.ParseTrigger(req.Trigger)
	if err != nil {
		return fmt.Errorf("%w: %q", err, req.Trigger)
	}
	data := req.LeadData.Sanitize()
	if err := data.Validate(); err != nil {
		return err
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	result := workflow.Execute(cmd.Context(), s.domain.Workflow, workflow.NewWorkflowID(time.Now()), trigger, data)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// parseRequest accepts a workflow request or a bare lead object.
func parseRequest(raw []byte, fallback string) (workflow.Request, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return workflow.Request{}, fmt.Errorf("%w: %w", workflow.ErrInvalidRequest, err)
	}

	var req workflow.Request
	if _, wrapped := probe["lead_data"]; wrapped {
		if err := json.Unmarshal(raw, &req); err != nil {
			return workflow.Request{}, fmt.Errorf("%w: %w", workflow.ErrInvalidRequest, err)
		}
	} else if err := json.Unmarshal(raw, &req.LeadData); err != nil {
		return workflow.Request{}, fmt.Errorf("%w: %w", workflow.ErrInvalidRequest, err)
	}

	if req.Trigger == "" {
		req.Trigger = fallback
	}
	if req.Trigger == "" {
		return workflow.Request{}, errors.New("no trigger given")
	}
	return req, nil
}
