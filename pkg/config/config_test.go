package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "dig.cue", `
output: "build/main.asm"
log: level: "debug"
dump: {
	ast: true
}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want := Config{
		Output: "build/main.asm",
		Log:    Log{Level: "debug"},
		Dump:   Dump{AST: true},
	}
	if cfg != want {
		t.Errorf("Load = %+v, want %+v", cfg, want)
	}
}

func TestLoadFirstFileWins(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "a.cue", `output: "a.asm"`)
	second := writeFile(t, dir, "b.cue", `
output: "b.asm"
log: file: "dig.log"
`)

	cfg, err := Load(first, second)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Output != "a.asm" {
		t.Errorf("Output = %q, want a.asm", cfg.Output)
	}
	if cfg.Log.File != "dig.log" {
		t.Errorf("Log.File = %q, want dig.log from the second file", cfg.Log.File)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"Unknown Field", `optimize: true`},
		{"Unknown Nested Field", `dump: symbols: true`},
		{"Bad Level", `log: level: "trace"`},
		{"Wrong Type", `output: 3`},
		{"Syntax", `output: "x`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "dig.cue", tt.content)
			if cfg, err := Load(path); err == nil {
				t.Fatalf("Load = %+v, want error", cfg)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.cue")
	if _, err := Load(missing); err == nil {
		t.Error("Load of a missing file succeeded")
	}
	cfg, err := LoadOptional(missing)
	if err != nil {
		t.Fatalf("LoadOptional: %v", err)
	}
	if cfg != (Config{}) {
		t.Errorf("LoadOptional = %+v, want zero Config", cfg)
	}
}
