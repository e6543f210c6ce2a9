package sqlite

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

const memoryDSN = ":memory:"

// parseDSN turns sqlite://path[?query] into a driver DSN. Relative paths are
// anchored at the working directory.
func parseDSN(dsn string) (string, error) {
	rest, ok := strings.CutPrefix(dsn, "sqlite://")
	if !ok {
		return "", fmt.Errorf("invalid sqlite DSN scheme, expected sqlite://")
	}
	if rest == "" {
		return "", fmt.Errorf("sqlite DSN has no path")
	}
	if rest == memoryDSN {
		return memoryDSN, nil
	}

	path, query, hasQuery := strings.Cut(rest, "?")
	unescaped, err := url.PathUnescape(path)
	if err != nil {
		return "", fmt.Errorf("unescaping path: %w", err)
	}
	path = unescaped

	if !filepath.IsAbs(path) && !strings.HasPrefix(path, "./") {
		path = "./" + path
	}
	if hasQuery {
		return path + "?" + query, nil
	}
	return path, nil
}
