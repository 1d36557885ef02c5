package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"dig/pkg/codegen"
	"dig/pkg/compiler"
	"dig/pkg/config"
	"dig/pkg/logs"
	"dig/pkg/utils"
)

const usage = `Usage: dig filepath [options]

Compiles a dig source file to assembly.

Options:
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	output   string
	cfgPath  string
	tokens   bool
	ast      bool
	logLevel string
	set      map[string]bool // flags given on the command line
}

// parseArgs accepts flags before and after the source path.
func parseArgs(args []string, stderr io.Writer) (string, options, error) {
	var opts options
	fs := flag.NewFlagSet("dig", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	fs.StringVar(&opts.output, "o", "", "write assembly to `file` (default: source path with .asm)")
	fs.StringVar(&opts.cfgPath, "config", "", "read settings from this CUE `file` (default: dig.cue next to the source)")
	fs.BoolVar(&opts.tokens, "tokens", false, "print the token stream")
	fs.BoolVar(&opts.ast, "ast", false, "print the parsed program")
	fs.StringVar(&opts.logLevel, "log-level", "", "log `level`: debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return "", opts, err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return "", opts, errors.New("missing source file")
	}
	path := fs.Arg(0)
	if err := fs.Parse(fs.Args()[1:]); err != nil {
		return "", opts, err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return "", opts, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}

	opts.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
	return path, opts, nil
}

// settings merges the config file with the command line; flags win.
func settings(path, dir string, opts options) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if opts.cfgPath != "" {
		cfg, err = config.Load(opts.cfgPath)
	} else {
		cfg, err = config.LoadOptional(filepath.Join(dir, config.DefaultFile))
	}
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}

	if opts.set["o"] {
		cfg.Output = opts.output
	}
	if opts.set["log-level"] {
		cfg.Log.Level = opts.logLevel
	}
	if opts.set["tokens"] {
		cfg.Dump.Tokens = opts.tokens
	}
	if opts.set["ast"] {
		cfg.Dump.AST = opts.ast
	}
	if cfg.Output == "" {
		cfg.Output = utils.ReplaceExt(path, ".asm")
	}
	return cfg, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	path, opts, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, "error:", err)
		return 2
	}

	_, dir, err := utils.GetPathInfo(path)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	cfg, err := settings(path, dir, opts)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	logger, closeLog, err := logs.New(logs.Options{
		Level:  cfg.Log.Level,
		Writer: stderr,
		File:   cfg.Log.File,
	})
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	defer closeLog()

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(stderr, "read error:", err)
		return 1
	}

	res, err := compiler.Compile(compiler.Source{Path: path, Text: string(data)}, logger)
	if err != nil {
		var d *compiler.Diagnostic
		if errors.As(err, &d) {
			fmt.Fprintln(stderr, d.Colored())
		} else {
			fmt.Fprintln(stderr, "error:", err)
		}
		return 1
	}

	if cfg.Dump.Tokens {
		fmt.Fprintf(stdout, "Tokens (%d)\n", res.Stream.Len())
		for _, tok := range res.Stream.Tokens {
			fmt.Fprintln(stdout, " ", tok)
		}
		fmt.Fprintln(stdout)
	}
	if cfg.Dump.AST {
		fmt.Fprintln(stdout, "AST")
		for _, s := range res.Program.Stmts {
			fmt.Fprintln(stdout, " ", s)
		}
		fmt.Fprintln(stdout)
	}

	start := time.Now()
	asm, err := codegen.Generate(res.Program)
	if err != nil {
		fmt.Fprintln(stderr, "codegen error:", err)
		return 1
	}
	logger.Debug("codegen", "bytes", len(asm), "took", time.Since(start))

	if dir := filepath.Dir(cfg.Output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Fprintln(stderr, "write error:", err)
			return 1
		}
	}
	if err := os.WriteFile(cfg.Output, []byte(asm), 0o644); err != nil {
		fmt.Fprintln(stderr, "write error:", err)
		return 1
	}
	logger.Info("wrote output", "path", cfg.Output)
	return 0
}
