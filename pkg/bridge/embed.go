package bridge

import (
	"embed"
	"io/fs"
)

//go:embed templates/document.html
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded document template so callers can serve or
// override it.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
