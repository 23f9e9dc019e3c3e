// Package web serves the browser pages: the landing page with the search
// entry form and the login/register page.
package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
)

//go:embed assets
var assets embed.FS

// Mount registers the pages and their static assets on r.
func Mount(r chi.Router) {
	root, err := fs.Sub(assets, "assets")
	if err != nil {
		// the embed pattern above guarantees the directory
		panic(err)
	}
	static, err := fs.Sub(root, "static")
	if err != nil {
		panic(err)
	}

	r.Get("/", page(root, "index.html"))
	r.Get("/login", page(root, "login.html"))
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(static)))
}

func page(root fs.FS, name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		http.ServeFileFS(w, r, root, name)
	}
}
