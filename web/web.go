// Package web embeds the HTML templates and static assets.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates
var Templates embed.FS

//go:embed static
var staticFiles embed.FS

// Static is the static asset tree rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
