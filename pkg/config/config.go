// Package config loads dig project settings from CUE files.
package config

import (
	"errors"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// DefaultFile is looked up next to the source file when no -config flag is
// given.
const DefaultFile = "dig.cue"

const schemaSrc = `
output?: string
log?: close({
	level?: "debug" | "info" | "warn" | "error"
	file?:  string
})
dump?: close({
	tokens?: bool
	ast?:    bool
})
`

var ErrValueNotFound = errors.New("value not found")

type Log struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

type Dump struct {
	Tokens bool `json:"tokens"`
	AST    bool `json:"ast"`
}

type Config struct {
	Output string `json:"output"`
	Log    Log    `json:"log"`
	Dump   Dump   `json:"dump"`
}

type root struct {
	value cue.Value
	path  string
}

// Loader holds the validated contents of one or more CUE files. Earlier
// files take precedence over later ones.
type Loader struct {
	roots []root
}

// NewLoader compiles every file and validates it against the schema. Any
// missing file is an error.
func NewLoader(paths ...string) (*Loader, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileString("close({" + schemaSrc + "})")
	if err := schema.Err(); err != nil {
		return nil, err
	}

	l := &Loader{}
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		value := ctx.CompileBytes(content, cue.Filename(path))
		if err := value.Err(); err != nil {
			return nil, err
		}
		if err := schema.Unify(value).Validate(cue.Concrete(true)); err != nil {
			return nil, err
		}
		l.roots = append(l.roots, root{value: value, path: path})
	}
	return l, nil
}

// AssignFirst decodes the value at path from the first file that defines
// it into target.
func (l *Loader) AssignFirst(path string, target any) error {
	cuePath := cue.ParsePath(path)
	for _, r := range l.roots {
		value := r.value.LookupPath(cuePath)
		if !value.Exists() {
			continue
		}
		return value.Decode(target)
	}
	return ErrValueNotFound
}

// Config assembles a Config from the loaded files. Settings no file
// defines keep their zero value.
func (l *Loader) Config() (Config, error) {
	var cfg Config
	fields := []struct {
		path   string
		target any
	}{
		{"output", &cfg.Output},
		{"log.level", &cfg.Log.Level},
		{"log.file", &cfg.Log.File},
		{"dump.tokens", &cfg.Dump.Tokens},
		{"dump.ast", &cfg.Dump.AST},
	}
	for _, f := range fields {
		if err := l.AssignFirst(f.path, f.target); err != nil && !errors.Is(err, ErrValueNotFound) {
			return Config{}, err
		}
	}
	return cfg, nil
}

// Load reads the given files and returns the merged Config.
func Load(paths ...string) (Config, error) {
	l, err := NewLoader(paths...)
	if err != nil {
		return Config{}, err
	}
	return l.Config()
}

// LoadOptional is Load for a single file that may not exist. A missing file
// yields the zero Config.
func LoadOptional(path string) (Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Config{}, nil
	}
	return Load(path)
}
