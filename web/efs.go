package web

import (
	"embed"
	"io/fs"
	"os"
)

//go:embed static/*
var staticFS embed.FS

// GetFileSystem returns the scanner page assets.
func GetFileSystem() (fs.FS, error) {
	// Dev mode: serve from disk
	if dir := os.Getenv("FRONTEND_DIR"); dir != "" {
		return os.DirFS(dir), nil
	}
	return fs.Sub(staticFS, "static")
}
