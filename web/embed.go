// Package web holds the page templates and static assets served by the
// application. Both are embedded into the binary.
package web

import (
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"io/fs"
	"strings"
	"sync"
)

//go:embed templates/*.html static
var content embed.FS

// TemplatesDir is the directory of Files holding the page templates.
const TemplatesDir = "templates"

var (
	versionsOnce sync.Once
	versions     map[string]string
)

// Files returns the embedded templates and static assets.
func Files() fs.FS {
	return content
}

// Static returns the embedded static assets rooted at the static directory.
func Static() fs.FS {
	sub, err := fs.Sub(content, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// AssetVersion returns a content fingerprint for a /static/ URL path, or an
// empty string when no such asset is embedded.
func AssetVersion(urlPath string) string {
	versionsOnce.Do(func() {
		versions = make(map[string]string)
		_ = fs.WalkDir(content, "static", func(p string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			data, err := fs.ReadFile(content, p)
			if err != nil {
				return err
			}
			sum := sha256.Sum256(data)
			versions["/"+p] = hex.EncodeToString(sum[:])[:10]
			return nil
		})
	})

	if i := strings.IndexAny(urlPath, "?#"); i >= 0 {
		urlPath = urlPath[:i]
	}
	return versions[urlPath]
}
