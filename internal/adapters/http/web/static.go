package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static/*
var staticFS embed.FS

// StaticPrefix is where the embedded assets are served.
const StaticPrefix = "/static/"

// assets returns the embedded stylesheet directory as an http.FileSystem.
func assets() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return http.FS(staticFS)
	}
	return http.FS(sub)
}
