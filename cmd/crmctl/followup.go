package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/JaimeStill/concierge/internal/mail"
)

func newFollowUpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "followup",
		Short: "Preview the follow-up email for a lead without sending it",
		Args:  cobra.NoArgs,
		RunE:  runFollowUp,
	}

	cmd.Flags().String("lead", "", "lead id")
	cmd.Flags().String("context", "", "custom paragraph replacing the standard one")
	cmd.MarkFlagRequired("lead")

	return cmd
}

func runFollowUp(cmd *cobra.Command, _ []string) error {
	raw, _ := cmd.Flags().GetString("lead")
	note, _ := cmd.Flags().GetString("context")

	id, err := uuid.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid lead id %q: %w", raw, err)
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	lead, err := s.domain.Leads.Find(cmd.Context(), id)
	if err != nil {
		return err
	}

	content, err := mail.FollowUp(s.cfg.Mail.Brand(), lead.Name, note)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "To:      %s\n", lead.Email)
	fmt.Fprintf(out, "Subject: %s\n\n", content.Subject)
	fmt.Fprint(out, content.Text)
	return nil
}
