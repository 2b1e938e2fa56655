package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/concierge/internal/leads"
)

// engine builds the state graph for a run. It is a variable so tests can
// simulate an engine fault.
var engine = buildGraph

// Execute runs the six stages for one lead and reports the aggregate result.
// The trigger is carried for correlation only. A run is never cancelled once
// started: every stage runs to completion even if ctx is done.
//
// If the state graph cannot be built or refuses to start, the stages run
// directly in order from a fresh state; a stage that records nothing then
// counts as an additional failure. If the graph stops part way, the stages it
// did not reach run directly from the state it had produced.
func Execute(ctx context.Context, rt *Runtime, workflowID string, trigger Trigger, data leads.LeadData) *WorkflowResult {
	ctx = context.WithoutCancel(ctx)
	logger := rt.Logger.With("workflow_id", workflowID, "trigger", trigger)

	final, silent := run(ctx, rt, logger, workflowID, State{LeadData: data})

	failures := final.Failed() + silent
	result := &WorkflowResult{
		WorkflowID:                     workflowID,
		Trigger:                        trigger,
		Status:                         AggregateStatus(failures),
		LeadID:                         final.LeadID,
		ExecutedAgents:                 final.ExecutedAgents,
		LeadStage:                      final.LeadStage,
		LeadScore:                      final.LeadScore,
		Classification:                 final.Classification,
		NextActions:                    final.NextActions(),
		EstimatedConversionProbability: final.EstimatedConversionProbability,
	}

	logger.InfoContext(
		ctx, "workflow complete",
		"status", result.Status,
		"failures", failures,
		"lead_id", result.LeadID,
	)
	return result
}

// run executes the graph and returns the final state plus the number of
// stages that ran directly without recording an outcome.
func run(ctx context.Context, rt *Runtime, logger *slog.Logger, workflowID string, initial State) (State, int) {
	graph, err := engine(rt, workflowID)
	if err != nil {
		logger.WarnContext(ctx, "state graph unavailable, running stages directly", "error", err)
		return runDirect(ctx, rt, workflowID, initial, stages)
	}

	out, err := graph.Execute(ctx, state.New(nil).Set(KeyState, initial))
	if err == nil {
		final, err := extractState(out)
		if err != nil {
			logger.ErrorContext(ctx, "state graph lost run state", "error", err)
			return initial, len(stages)
		}
		return final, 0
	}

	var execErr *state.ExecutionError
	if !errors.As(err, &execErr) {
		logger.WarnContext(ctx, "state graph failed to start, running stages directly", "error", err)
		return runDirect(ctx, rt, workflowID, initial, stages)
	}

	next := stageIndex(execErr.NodeName)
	partial, xerr := extractState(execErr.State)
	switch {
	case next >= 0 && xerr == nil:
		logger.WarnContext(ctx, "state graph interrupted, resuming stages directly", "stage", execErr.NodeName, "error", err)
		return runDirect(ctx, rt, workflowID, partial, stages[next:])
	case next == 0:
		logger.WarnContext(ctx, "state graph failed before the first stage, running stages directly", "error", err)
		return runDirect(ctx, rt, workflowID, initial, stages)
	default:
		logger.ErrorContext(ctx, "state graph lost run state", "stage", execErr.NodeName, "error", err)
		return initial, len(stages)
	}
}

// runDirect calls each of the given stages in order and counts stages that
// appended no log entry.
func runDirect(ctx context.Context, rt *Runtime, workflowID string, s State, pending []node) (State, int) {
	silent := 0
	for _, n := range pending {
		before := len(s.ExecutedAgents)
		s = n.run(ctx, rt, workflowID, s)
		if len(s.ExecutedAgents) == before {
			rt.Logger.WarnContext(ctx, "stage recorded no outcome", "stage", n.name, "workflow_id", workflowID)
			silent++
		}
	}
	return s, silent
}

func stageIndex(name string) int {
	for i, n := range stages {
		if n.name == name {
			return i
		}
	}
	return -1
}

func buildGraph(rt *Runtime, workflowID string) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("concierge-lead")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	for _, n := range stages {
		if err := graph.AddNode(n.name, stageNode(rt, workflowID, n)); err != nil {
			return nil, err
		}
	}

	for i := 1; i < len(stages); i++ {
		if err := graph.AddEdge(stages[i-1].name, stages[i].name, nil); err != nil {
			return nil, err
		}
	}

	if err := graph.SetEntryPoint(stages[0].name); err != nil {
		return nil, err
	}

	if err := graph.SetExitPoint(stages[len(stages)-1].name); err != nil {
		return nil, err
	}

	return graph, nil
}

// stageNode adapts a Stage to a graph node that reads and writes the
// workflow State under KeyState.
func stageNode(rt *Runtime, workflowID string, n node) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		current, err := extractState(s)
		if err != nil {
			return s, fmt.Errorf("%s: %w", n.name, err)
		}

		return s.Set(KeyState, n.run(ctx, rt, workflowID, current)), nil
	})
}

func extractState(s state.State) (State, error) {
	val, ok := s.Get(KeyState)
	if !ok {
		return State{}, ErrMissingState
	}

	ws, ok := val.(State)
	if !ok {
		return State{}, fmt.Errorf("%w: %s is %T", ErrMissingState, KeyState, val)
	}

	return ws, nil
}
