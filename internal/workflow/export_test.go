package workflow

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// BreakEngine makes the state graph unavailable for the duration of the test.
func BreakEngine(t testing.TB) {
	t.Helper()
	prev := engine
	engine = func(*Runtime, string) (state.StateGraph, error) {
		return nil, errors.New("engine offline")
	}
	t.Cleanup(func() { engine = prev })
}

// SilenceStage replaces the named stage with one that records nothing.
func SilenceStage(t testing.TB, name string) {
	t.Helper()
	prev := stages
	stages = slices.Clone(stages)
	for i, n := range stages {
		if n.name == name {
			stages[i].run = func(_ context.Context, _ *Runtime, _ string, s State) State { return s }
		}
	}
	t.Cleanup(func() { stages = prev })
}

// InterruptGraphAfter cancels the state graph's execution context once the
// named stage completes, so the graph stops before the next stage.
func InterruptGraphAfter(t testing.TB, name string) {
	t.Helper()
	prevEngine, prevStages := engine, stages

	var cancel context.CancelFunc
	stages = slices.Clone(stages)
	for i, n := range stages {
		if n.name == name {
			inner := n.run
			stages[i].run = func(ctx context.Context, rt *Runtime, id string, s State) State {
				s = inner(ctx, rt, id, s)
				cancel()
				return s
			}
		}
	}

	engine = func(rt *Runtime, id string) (state.StateGraph, error) {
		g, err := buildGraph(rt, id)
		if err != nil {
			return nil, err
		}
		return interruptible{StateGraph: g, bind: func(c context.CancelFunc) { cancel = c }}, nil
	}

	t.Cleanup(func() { engine, stages = prevEngine, prevStages })
}

type interruptible struct {
	state.StateGraph
	bind func(context.CancelFunc)
}

func (g interruptible) Execute(ctx context.Context, initial state.State) (state.State, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g.bind(cancel)
	return g.StateGraph.Execute(ctx, initial)
}
