package documents

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// Rendered is a generated, validated document.
type Rendered struct {
	Kind  Kind
	Data  []byte
	Pages int
}

// Filename returns the attachment name of the document.
func (r Rendered) Filename() string {
	return r.Kind.Filename()
}

// System generates and archives lead documents.
type System interface {
	Handler() *Handler

	// Quotation renders a quotation with explicit pricing.
	Quotation(c Customer, q QuotationConfig) ([]byte, error)
	// Contract renders a purchase contract with explicit terms.
	Contract(c Customer, cfg ContractConfig) ([]byte, error)
	// Render generates the requested kinds concurrently using the configured
	// pricing and terms. Results keep the order of kinds.
	Render(ctx context.Context, c Customer, kinds []Kind) ([]Rendered, error)

	// ArchiveEnabled reports whether blob storage is configured.
	ArchiveEnabled() bool
	// Archive stores a document under the lead and returns its key.
	Archive(ctx context.Context, leadID uuid.UUID, name string, data []byte) (string, error)
	// Open streams an archived document. The caller closes the reader.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// Clock supplies the document date.
type Clock func() time.Time
