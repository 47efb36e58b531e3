package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DSNPath extracts the file path from a SQLite DSN. In-memory databases
// have no path and yield "".
func DSNPath(dsn string) string {
	p := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	if p == "" || p == ":memory:" || strings.Contains(dsn, "mode=memory") {
		return ""
	}
	return p
}

// EnsureParentDir creates the directory that will hold path. The current
// directory always exists and is left alone.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}
