package render

import (
	"context"

	"github.com/goliatone/go-sigform/pkg/proposal"
)

// Renderer converts a proposal form into an artifact (print HTML, plain
// text, ...).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, state proposal.FormState, options RenderOptions) ([]byte, error)
}
