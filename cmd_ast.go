package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"rinha/printer"
)

type astCmd struct{}

func (*astCmd) Name() string     { return "ast" }
func (*astCmd) Synopsis() string { return "parse a program and pretty-print its AST" }
func (*astCmd) Usage() string {
	return "ast <file.rinha|file.json>\n  Print the parsed/loaded AST back as Rinha source text.\n"
}
func (*astCmd) SetFlags(*flag.FlagSet) {}

func (*astCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: rinha ast <file>")
		return subcommands.ExitUsageError
	}

	file, err := loadSource(f.Arg(0))
	if err != nil {
		reportError(err)
		return subcommands.ExitFailure
	}

	fmt.Println(printer.Print(file.Expression))
	return subcommands.ExitSuccess
}
