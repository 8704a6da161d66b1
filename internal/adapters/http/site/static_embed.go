package site

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
)

//go:embed static/*
var staticFS embed.FS

// FS returns an http.FileSystem rooted at the embedded static directory.
func FS() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return http.FS(staticFS)
	}
	return http.FS(sub)
}

func indexPage() ([]byte, error) {
	b, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		return nil, fmt.Errorf("read index page: %w", err)
	}
	return b, nil
}
