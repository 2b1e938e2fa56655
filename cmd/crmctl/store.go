package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/concierge/internal/api"
	"github.com/JaimeStill/concierge/internal/config"
	"github.com/JaimeStill/concierge/internal/infrastructure"
)

const shutdownTimeout = 5 * time.Second

// session is a started infrastructure and domain for the span of one command.
type session struct {
	cfg    *config.Config
	infra  *infrastructure.Infrastructure
	domain *api.Domain
}

func openSession(cmd *cobra.Command) (*session, error) {
	path, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, err
	}

	var out io.Writer = io.Discard
	if verbose {
		out = os.Stderr
	}

	infra, err := infrastructure.NewWithLogger(cfg, slog.New(slog.NewTextHandler(out, nil)))
	if err != nil {
		return nil, err
	}

	domain, err := api.NewDomain(cfg, api.NewRuntime(cfg, infra))
	if err != nil {
		return nil, err
	}

	if err := infra.Start(); err != nil {
		return nil, err
	}
	if err := domain.Start(infra.Lifecycle); err != nil {
		return nil, err
	}
	infra.Lifecycle.WaitForStartup()

	if err := infra.Database.Connection().PingContext(cmd.Context()); err != nil {
		infra.Lifecycle.Shutdown(shutdownTimeout)
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &session{cfg: cfg, infra: infra, domain: domain}, nil
}

func (s *session) Close() error {
	return s.infra.Lifecycle.Shutdown(shutdownTimeout)
}
