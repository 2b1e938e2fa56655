package documents

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/concierge/pkg/storage"
)

type generator struct {
	cfg    Config
	store  storage.System
	now    Clock
	logger *slog.Logger
}

// New creates the document system. store may be nil, in which case Archive
// and Open report ErrArchiveDisabled.
func New(cfg *Config, store storage.System, logger *slog.Logger) System {
	api.DisableConfigDir()
	return &generator{
		cfg:    *cfg,
		store:  store,
		now:    time.Now,
		logger: logger.With("system", "documents"),
	}
}

// NewWithClock is New with a fixed document date source.
func NewWithClock(cfg *Config, store storage.System, logger *slog.Logger, now Clock) System {
	g := New(cfg, store, logger).(*generator)
	g.now = now
	return g
}

func (g *generator) Handler() *Handler {
	return NewHandler(g, g.logger)
}

func (g *generator) Quotation(c Customer, q QuotationConfig) ([]byte, error) {
	data, err := renderQuotation(g.cfg.Company, c, q, g.now())
	if err != nil {
		return nil, err
	}
	if _, err := validate(data); err != nil {
		return nil, err
	}
	return data, nil
}

func (g *generator) Contract(c Customer, cfg ContractConfig) ([]byte, error) {
	data, err := renderContract(g.cfg.Company, c, cfg, g.now())
	if err != nil {
		return nil, err
	}
	if _, err := validate(data); err != nil {
		return nil, err
	}
	return data, nil
}

func (g *generator) Render(ctx context.Context, c Customer, kinds []Kind) ([]Rendered, error) {
	out := make([]Rendered, len(kinds))
	at := g.now()

	eg, ectx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		eg.Go(func() error {
			if ectx.Err() != nil {
				return ectx.Err()
			}

			var (
				data []byte
				err  error
			)
			switch kind {
			case KindQuotation:
				data, err = renderQuotation(g.cfg.Company, c, g.cfg.Quotation(), at)
			case KindContract:
				data, err = renderContract(g.cfg.Company, c, g.cfg.Contract(), at)
			default:
				return fmt.Errorf("%w: unknown kind %q", ErrRenderFailed, kind)
			}
			if err != nil {
				return fmt.Errorf("%s: %w", kind, err)
			}

			pages, err := validate(data)
			if err != nil {
				return fmt.Errorf("%s: %w", kind, err)
			}

			out[i] = Rendered{Kind: kind, Data: data, Pages: pages}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	g.logger.InfoContext(ctx, "documents rendered", "count", len(out))
	return out, nil
}

func (g *generator) ArchiveEnabled() bool {
	return g.store != nil
}

func (g *generator) Archive(ctx context.Context, leadID uuid.UUID, name string, data []byte) (string, error) {
	if g.store == nil {
		return "", ErrArchiveDisabled
	}

	key := g.store.Key(leadID.String(), name)
	if err := g.store.Upload(ctx, key, bytes.NewReader(data), "application/pdf"); err != nil {
		return "", fmt.Errorf("archive %s: %w", name, err)
	}

	g.logger.InfoContext(ctx, "document archived", "lead_id", leadID, "key", key)
	return key, nil
}

func (g *generator) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if g.store == nil {
		return nil, ErrArchiveDisabled
	}
	if err := storage.ValidateKey(key); err != nil {
		return nil, err
	}
	if !g.archived(key) {
		return nil, fmt.Errorf("%w: %s is not an archived lead document", storage.ErrInvalidKey, key)
	}
	return g.store.Download(ctx, key)
}

// archived reports whether key has the shape Archive produces:
// <prefix>/<lead id>/<kind>.pdf.
func (g *generator) archived(key string) bool {
	rest, ok := strings.CutPrefix(key, g.store.Key()+"/")
	if !ok {
		return false
	}

	lead, name, ok := strings.Cut(rest, "/")
	if !ok {
		return false
	}
	if _, err := uuid.Parse(lead); err != nil {
		return false
	}

	for _, k := range Kinds {
		if name == k.Filename() {
			return true
		}
	}
	return false
}

// validate parses the document with pdfcpu and returns its page count.
func validate(data []byte) (int, error) {
	pages, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidPDF, err)
	}
	if pages < 1 {
		return 0, fmt.Errorf("%w: no pages", ErrInvalidPDF)
	}
	return pages, nil
}
