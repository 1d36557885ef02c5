package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"dig/pkg/compiler"
)

const (
	historyFile = ".dig_history"
	promptMain  = "dig> "
	promptCont  = "...> "
	banner      = "dig REPL\nEach input is parsed and printed as a tree. Ctrl+D or :quit exits."
)

func red(s string) string { return "\x1b[31m" + s + "\x1b[0m" }

// prompter is the part of *liner.State the loop needs.
type prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

func main() {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	repl(ln, os.Stdout, os.Stderr)
}

// repl reads inputs until EOF or :quit and prints the statements of each.
func repl(ln prompter, stdout, stderr io.Writer) {
	for {
		src, res, ok, err := readStatements(ln)
		if !ok {
			fmt.Fprintln(stdout)
			return
		}

		cmd := strings.TrimSpace(src)
		switch {
		case cmd == ":quit":
			return
		case strings.HasPrefix(cmd, ":"):
			fmt.Fprintln(stderr, "unknown command. Type :quit to exit.")
			continue
		}

		if err != nil {
			var d *compiler.Diagnostic
			if errors.As(err, &d) {
				fmt.Fprintln(stderr, d.Colored())
			} else {
				fmt.Fprintln(stderr, red(err.Error()))
			}
			ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
			continue
		}
		if res == nil {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		for _, s := range res.Program.Stmts {
			switch s.(type) {
			case *compiler.RootStmt, *compiler.EOFStmt:
				continue
			}
			fmt.Fprintln(stdout, s)
		}
	}
}

// readStatements prompts until the accumulated lines parse or fail with an
// error that more input cannot fix. ok is false at end of input.
func readStatements(ln prompter) (src string, res *compiler.Result, ok bool, err error) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, perr := ln.Prompt(prompt)
		if errors.Is(perr, io.EOF) {
			return "", nil, false, nil
		}
		if errors.Is(perr, liner.ErrPromptAborted) {
			// Ctrl+C drops the pending input.
			b.Reset()
			continue
		}
		if perr != nil {
			return "", nil, true, perr
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		src = b.String()

		if b.Len() == len(line) && strings.HasPrefix(strings.TrimSpace(line), ":") {
			return src, nil, true, nil
		}
		if strings.TrimSpace(src) == "" {
			return src, nil, true, nil
		}

		res, err = compiler.Compile(compiler.Source{Path: "<repl>", Text: src}, nil)
		if compiler.IsIncomplete(err) {
			continue
		}
		return src, res, true, err
	}
}
