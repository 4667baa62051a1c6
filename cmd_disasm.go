package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"rinha/bytecode"
	"rinha/compiler"
)

type disasmCmd struct{}

func (*disasmCmd) Name() string     { return "disasm" }
func (*disasmCmd) Synopsis() string { return "compile a program and print its bytecode chunks" }
func (*disasmCmd) Usage() string {
	return "disasm <file.rinha|file.json>\n  Print the compiled chunk listing without executing it.\n"
}
func (*disasmCmd) SetFlags(*flag.FlagSet) {}

func (*disasmCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: rinha disasm <file>")
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

	if err := bytecode.Disassemble(os.Stdout, chunks); err != nil {
		reportError(err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
