package utils

import (
	"fmt"
	"html/template"
	"net/url"
	"path"
	"strings"
)

// AssetVersionFunc returns a short fingerprint for a static asset path, or an
// empty string when the asset is unknown.
type AssetVersionFunc func(path string) string

func GetTemplateFuncs(assetVersion AssetVersionFunc) template.FuncMap {
	return template.FuncMap{
		"percent": func(value float64) string {
			return fmt.Sprintf("%.2f%%", value*100)
		},
		"asset": func(p string) string {
			if p == "" {
				return ""
			}
			lower := strings.ToLower(p)
			if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") || strings.HasPrefix(p, "//") {
				return p
			}
			version := ""
			if assetVersion != nil {
				version = assetVersion(p)
			}
			if version == "" {
				return p
			}
			separator := "?"
			if strings.Contains(p, "?") {
				separator = "&"
			}
			return p + separator + "v=" + version
		},
	}
}

// NormalizePath reduces a request path or URL to a clean absolute path
// without a trailing slash. The root path stays "/".
func NormalizePath(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "/"
	}

	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		if parsed, err := url.Parse(trimmed); err == nil {
			if parsed.Path != "" {
				trimmed = parsed.Path
			} else {
				trimmed = "/"
			}
		}
	}

	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}

	cleaned := path.Clean(trimmed)
	if cleaned == "." || cleaned == "" {
		return "/"
	}

	if cleaned != "/" && strings.HasSuffix(cleaned, "/") {
		cleaned = strings.TrimSuffix(cleaned, "/")
	}

	return cleaned
}
