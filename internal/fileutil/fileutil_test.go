package fileutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteAtomicWritesContent(t *testing.T) {
	target := filepath.Join(t.TempDir(), "uploads", "opname.webm")
	if err := WriteAtomic(target, strings.NewReader("webm-bytes")); err != nil {
		t.Fatalf("WriteAtomic failed: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read target: %v", err)
	}
	if string(data) != "webm-bytes" {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestWriteAtomicLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "opname.webm")
	if err := WriteAtomic(target, strings.NewReader("x")); err != nil {
		t.Fatalf("WriteAtomic failed: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "opname.webm" {
		t.Fatalf("unexpected directory contents: %v", entries)
	}
}

func TestWriteAtomicOverwritesExisting(t *testing.T) {
	target := filepath.Join(t.TempDir(), "opname.webm")
	if err := os.WriteFile(target, []byte("old"), 0o644); err != nil {
		t.Fatalf("seed target: %v", err)
	}
	if err := WriteAtomic(target, strings.NewReader("new")); err != nil {
		t.Fatalf("WriteAtomic failed: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read target: %v", err)
	}
	if string(data) != "new" {
		t.Fatalf("expected overwrite, got %q", data)
	}
}

func TestSanitizeName(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain name kept", "opname.webm", "opname.webm"},
		{"path prefix stripped", "../../etc/passwd", "passwd"},
		{"spaces become dashes", "mijn opname.webm", "mijn-opname.webm"},
		{"unsafe characters dropped", "op<na>me?.webm", "opname.webm"},
		{"empty falls back", "", "opname.webm"},
		{"dot falls back", ".", "opname.webm"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeName(tc.in, "opname.webm"); got != tc.want {
				t.Fatalf("SanitizeName(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
