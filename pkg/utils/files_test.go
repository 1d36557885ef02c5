package utils

import (
	"path/filepath"
	"testing"
)

func TestGetPathInfo(t *testing.T) {
	full, dir, err := GetPathInfo("testdata/../main.dg")
	if err != nil {
		t.Fatalf("GetPathInfo: %v", err)
	}
	if !filepath.IsAbs(full) {
		t.Errorf("fullPath %q is not absolute", full)
	}
	if filepath.Base(full) != "main.dg" {
		t.Errorf("fullPath %q, want base main.dg", full)
	}
	if dir != filepath.Dir(full) {
		t.Errorf("parentDir = %q, want %q", dir, filepath.Dir(full))
	}
}

func TestFileStem(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"math.dg", "math"},
		{"lib/math.dg", "math"},
		{`lib\math.dg`, "math"},
		{"a/b/c", "c"},
		{"archive.tar.gz", "archive.tar"},
		{".hidden", ".hidden"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := FileStem(tt.path); got != tt.want {
			t.Errorf("FileStem(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestReplaceExt(t *testing.T) {
	tests := []struct {
		path, ext, want string
	}{
		{"main.dg", ".asm", "main.asm"},
		{"dir/main.dg", ".asm", "dir/main.asm"},
		{"main", ".asm", "main.asm"},
	}
	for _, tt := range tests {
		if got := ReplaceExt(tt.path, tt.ext); got != tt.want {
			t.Errorf("ReplaceExt(%q, %q) = %q, want %q", tt.path, tt.ext, got, tt.want)
		}
	}
}
