package site

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var embedded embed.FS

// FS returns the landing page files with the static/ prefix removed.
func FS() http.FileSystem {
	sub, err := fs.Sub(embedded, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
