package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"rinha/compiler"
	"rinha/vm"
)

type runCmd struct{}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "compile and execute a Rinha program" }
func (*runCmd) Usage() string {
	return "run <file.rinha|file.json>\n  Execute a Rinha program and print its Print output.\n"
}
func (*runCmd) SetFlags(*flag.FlagSet) {}

func (*runCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: rinha run <file>")
		return subcommands.ExitUsageError
	}

	file, err := loadSource(f.Arg(0))
	if err != nil {
		reportError(err)
		return subcommands.ExitFailure
	}

	chunks, err := compiler.New().CompileFile(file)
	if err != nil {
		reportError(err)
		return subcommands.ExitFailure
	}

	result, err := vm.New(chunks, os.Stdout).Run()
	if err != nil {
		reportError(err)
		return subcommands.ExitFailure
	}
	_ = result

	return subcommands.ExitSuccess
}
