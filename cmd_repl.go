package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"

	"rinha/compiler"
	"rinha/parser"
	"rinha/vm"
)

// replCmd runs a line-at-a-time REPL: each accepted input is parsed,
// compiled, and run as its own standalone program, since Rinha has no
// notion of a persistent top-level environment across statements.
type replCmd struct{}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "start an interactive Rinha session" }
func (*replCmd) Usage() string {
	return "repl\n  Read-eval-print loop over Rinha surface syntax.\n"
}
func (*replCmd) SetFlags(*flag.FlagSet) {}

func (*replCmd) Execute(context.Context, *flag.FlagSet, ...any) subcommands.ExitStatus {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "rinha> ",
		HistoryFile:     "",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "error: could not start readline:", err)
		return subcommands.ExitFailure
	}
	defer rl.Close()

	var buffer strings.Builder
	for {
		prompt := "rinha> "
		if buffer.Len() > 0 {
			prompt = "    -> "
		}
		rl.SetPrompt(prompt)

		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			buffer.Reset()
			continue
		}
		if err == io.EOF {
			return subcommands.ExitSuccess
		}
		if err != nil {
			reportError(err)
			return subcommands.ExitFailure
		}

		if buffer.Len() > 0 {
			buffer.WriteString("\n")
		}
		buffer.WriteString(line)

		if !balanced(buffer.String()) {
			continue
		}

		source := buffer.String()
		buffer.Reset()
		if strings.TrimSpace(source) == "" {
			continue
		}

		runLine(source)
	}
}

func runLine(source string) {
	file, err := parser.Parse(source, "<repl>")
	if err != nil {
		reportError(err)
		return
	}
	chunks, err := compiler.New().CompileFile(file)
	if err != nil {
		reportError(err)
		return
	}
	if _, err := vm.New(chunks, os.Stdout).Run(); err != nil {
		reportError(err)
	}
}

// balanced reports whether every brace and parenthesis opened in src has
// been closed, used to decide whether the REPL should keep reading lines
// before attempting to parse.
func balanced(src string) bool {
	depth := 0
	for _, r := range src {
		switch r {
		case '{', '(':
			depth++
		case '}', ')':
			depth--
		}
	}
	return depth <= 0
}
