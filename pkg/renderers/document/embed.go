package document

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// PageTemplate is the template rendered when the theme does not override
// it.
const PageTemplate = "templates/proposal.tmpl"

// TemplatesFS exposes the embedded print templates so callers can copy and
// customize them.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
