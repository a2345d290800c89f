package api

import (
	"embed"
	"io/fs"
)

//go:embed static/dashboard.html
var apiStaticFS embed.FS

// dashboardFS is rooted at static/.
var dashboardFS = mustSub(apiStaticFS, "static")

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
