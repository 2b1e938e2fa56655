package scoring

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"time"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/JaimeStill/concierge/pkg/formatting"
)

const promptTemplate = "Score this automotive lead from 0-100 based on budget %s, interest in %s, source %s. Return only the numeric score."

var scorePattern = regexp.MustCompile(`(\d{1,3})`)

type scoreReply struct {
	Score int `json:"score"`
}

// Model scores leads with a go-agents chat model. Any agent, transport or
// parse failure falls back to Heuristic.
type Model struct {
	agent    gaconfig.AgentConfig
	timeout  time.Duration
	fallback Scorer
	logger   *slog.Logger
}

// New returns a model-backed scorer when agentCfg is non-nil, otherwise the heuristic.
func New(agentCfg *gaconfig.AgentConfig, timeout time.Duration, logger *slog.Logger) Scorer {
	if agentCfg == nil {
		return Heuristic{}
	}
	return &Model{
		agent:    *agentCfg,
		timeout:  timeout,
		fallback: Heuristic{},
		logger:   logger.With("system", "scoring", "model", modelName(agentCfg)),
	}
}

func (m *Model) Score(ctx context.Context, budgetRange, interest, source string) int {
	score, err := m.ask(ctx, budgetRange, interest, source)
	if err != nil {
		m.logger.WarnContext(ctx, "model scoring failed, using heuristic", "error", err)
		return m.fallback.Score(ctx, budgetRange, interest, source)
	}
	return score
}

func (m *Model) ask(ctx context.Context, budgetRange, interest, source string) (int, error) {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	a, err := agent.New(&m.agent)
	if err != nil {
		return 0, fmt.Errorf("create agent: %w", err)
	}

	resp, err := a.Chat(ctx, fmt.Sprintf(promptTemplate, budgetRange, interest, source))
	if err != nil {
		return 0, fmt.Errorf("chat: %w", err)
	}

	return ParseScore(resp.Content())
}

// ParseScore reads a score from a model reply: a {"score": n} object, or
// else the first run of up to three digits. The result is clamped.
func ParseScore(content string) (int, error) {
	if reply, err := formatting.Parse[scoreReply](content); err == nil {
		return Clamp(reply.Score), nil
	}

	match := scorePattern.FindString(content)
	if match == "" {
		return 0, fmt.Errorf("%w: no score in %q", ErrNoScore, content)
	}

	n, err := strconv.Atoi(match)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrNoScore, err)
	}
	return Clamp(n), nil
}

func modelName(cfg *gaconfig.AgentConfig) string {
	if cfg.Model == nil {
		return ""
	}
	return cfg.Model.Name
}
