package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/JaimeStill/concierge/internal/leads"
	"github.com/JaimeStill/concierge/pkg/pagination"
)

const (
	recentLeads        = 5
	recentActions      = 5
	recentInteractions = 10
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Summarize leads, follow-ups, interactions and the pipeline",
		Args:  cobra.NoArgs,
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	store := s.domain.Leads

	stats, err := store.DashboardStats(ctx)
	if err != nil {
		return err
	}
	page, err := store.List(ctx, pagination.PageRequest{Page: 1, PageSize: recentLeads}, leads.Filters{})
	if err != nil {
		return err
	}
	actions, err := store.ScheduledActions(ctx, recentActions)
	if err != nil {
		return err
	}
	interactions, err := store.RecentInteractions(ctx, recentInteractions)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Total leads:  %d\n", stats.TotalLeads)
	fmt.Fprintf(out, "Hot leads:    %d\n", stats.HotLeads)
	fmt.Fprintf(out, "Qualified:    %d\n", stats.StageCounts[string(leads.StageQualified)])

	section(out, "Recent leads")
	if len(page.Data) == 0 {
		fmt.Fprintln(out, "  (none)")
	} else {
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tPHONE\tSCORE\tCLASS\tSTAGE")
		for _, l := range page.Data {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n", l.ID, l.Name, l.Phone, l.Score, l.Classification, l.Stage)
		}
		tw.Flush()
	}

	section(out, "Scheduled actions")
	if len(actions) == 0 {
		fmt.Fprintln(out, "  (no scheduled actions yet)")
	} else {
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ACTION\tLEAD\tSCHEDULED\tSTATUS")
		for _, a := range actions {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.ActionName, leadLabel(a.LeadID, a.LeadName), a.ScheduledFor.Format(time.RFC3339), a.Status)
		}
		tw.Flush()
	}

	section(out, "Recent interactions")
	if len(interactions) == 0 {
		fmt.Fprintln(out, "  (none)")
	} else {
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "TIME\tLEAD\tAGENT\tACTION\tSTATUS")
		for _, i := range interactions {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", i.CreatedAt.Format(time.RFC3339), leadLabel(i.LeadID, i.LeadName), i.Agent, i.Action, i.Status)
		}
		tw.Flush()
	}

	section(out, "Pipeline")
	for _, stage := range leads.Stages {
		if n := stats.StageCounts[string(stage)]; n > 0 {
			fmt.Fprintf(out, "  %-12s %d\n", strings.ToUpper(string(stage)), n)
		}
	}

	return nil
}

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n%s\n", title, strings.Repeat("-", len(title)))
}

func leadLabel(id *uuid.UUID, name *string) string {
	switch {
	case name != nil:
		return *name
	case id != nil:
		return id.String()
	default:
		return "-"
	}
}
