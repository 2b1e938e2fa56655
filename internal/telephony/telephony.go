// Package telephony places outbound qualification calls through Vapi or
// AiSensy and normalises their webhook callbacks.
package telephony

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

const (
	ProviderVapi  = "vapi"
	ProviderSensy = "sensy"
)

const maxErrorBody = 4 << 10

// Caller places outbound calls. InitiateCall never returns an error: the
// outcome is the boolean and the provider response, or {"error": ...}.
type Caller interface {
	Provider() string
	InitiateCall(ctx context.Context, toPhone string, payload map[string]any) (bool, map[string]any)
}

// ResolveProvider canonicalises a provider name. sensy, ai_sensy and aisensy
// all resolve to ProviderSensy.
func ResolveProvider(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ProviderVapi:
		return ProviderVapi, nil
	case ProviderSensy, "ai_sensy", "aisensy":
		return ProviderSensy, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
}

// callRequest is a provider-specific outbound call.
type callRequest struct {
	url  string
	body map[string]any
}

type dialer interface {
	label() string
	request(toPhone, webhookURL string, payload map[string]any) (req callRequest, missing string)
}

type client struct {
	provider   string
	dialer     dialer
	apiKey     string
	webhookURL string
	http       *http.Client
	logger     *slog.Logger
}

// New builds the configured Caller. It returns nil when no provider is selected.
func New(cfg *Config, logger *slog.Logger) (Caller, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	provider, err := ResolveProvider(cfg.Provider)
	if err != nil {
		return nil, err
	}

	c := &client{
		provider:   provider,
		webhookURL: cfg.WebhookURL,
		http:       &http.Client{Timeout: cfg.TimeoutDuration()},
		logger:     logger.With("system", "telephony", "provider", provider),
	}

	switch provider {
	case ProviderVapi:
		c.dialer = vapi(cfg.Vapi)
		c.apiKey = cfg.Vapi.APIKey
	case ProviderSensy:
		c.dialer = sensy(cfg.Sensy)
		c.apiKey = cfg.Sensy.APIKey
	}

	return c, nil
}

func (c *client) Provider() string {
	return c.provider
}

func (c *client) InitiateCall(ctx context.Context, toPhone string, payload map[string]any) (bool, map[string]any) {
	if payload == nil {
		payload = map[string]any{}
	}

	data, err := c.call(ctx, toPhone, payload)
	if err != nil {
		c.logger.WarnContext(ctx, "outbound call failed", "error", err)
		info := map[string]any{"error": err.Error()}
		var he *httpError
		if errors.As(err, &he) {
			info["body"] = he.body
		}
		return false, info
	}

	c.logger.InfoContext(ctx, "outbound call initiated")
	return true, data
}

type httpError struct {
	label  string
	status int
	body   string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("%s HTTP %d", e.label, e.status)
}

func (c *client) call(ctx context.Context, toPhone string, payload map[string]any) (map[string]any, error) {
	cr, missing := c.dialer.request(toPhone, c.webhookURL, payload)
	if missing != "" {
		return nil, fmt.Errorf("%w: missing %s", ErrNotConfigured, missing)
	}

	body, err := json.Marshal(cr.body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cr.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &httpError{label: c.dialer.label(), status: resp.StatusCode, body: string(text)}
	}

	var data map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", c.dialer.label(), err)
	}
	return data, nil
}
