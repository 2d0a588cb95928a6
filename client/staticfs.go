package client

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed web/public web/templates
var staticFS embed.FS

// StaticHandler serves stylesheets and images under /static/.
func StaticHandler() http.Handler {
	fsys, err := fs.Sub(staticFS, "web/public")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static", http.FileServer(http.FS(fsys)))
}

// Templates holds the server-rendered pages.
func Templates() fs.FS {
	fsys, err := fs.Sub(staticFS, "web/templates")
	if err != nil {
		panic(err)
	}
	return fsys
}
