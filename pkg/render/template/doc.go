// Package template defines the template renderer contract the export
// renderers depend on. The gotemplate subpackage provides the pongo2
// implementation.
package template
