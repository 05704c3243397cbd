package sigform

import (
	"io/fs"

	"github.com/goliatone/go-sigform/pkg/renderers/document"
)

// EmbeddedTemplates exposes the built-in print templates so callers can copy
// them into a directory and point WithTemplatesDir at the result.
func EmbeddedTemplates() fs.FS {
	return document.TemplatesFS()
}
