// Package fileutil holds filesystem helpers for stored media files.
package fileutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// WriteAtomic streams src into target via a temporary file in the same
// directory, renaming it into place once fully written. A partially written
// upload never becomes visible under the target name.
func WriteAtomic(target string, src io.Reader) error {
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create target dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(target)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, src); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// unsafeChars removes characters that would escape or confuse the upload dir.
var unsafeChars = strings.NewReplacer(
	"/", "",
	"\\", "",
	":", "-",
	"*", "",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
	"\x00", "",
	" ", "-",
)

// SanitizeName reduces a client supplied filename to a single safe path
// component. Path prefixes are stripped, spaces become dashes and
// filesystem-unsafe characters are dropped. Degenerate input yields fallback.
func SanitizeName(name, fallback string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == string(filepath.Separator) || name == "" {
		return fallback
	}
	name = strings.TrimSpace(unsafeChars.Replace(name))
	if name == "" || name == "." {
		return fallback
	}
	return name
}
