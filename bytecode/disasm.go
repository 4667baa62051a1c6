package bytecode

import (
	"fmt"
	"io"
)

// Disassemble writes a human-readable rendering of every chunk to w, in
// compiled order. It's the "disasm" CLI verb's entire implementation.
func Disassemble(w io.Writer, chunks []*Chunk) error {
	for _, chunk := range chunks {
		if _, err := fmt.Fprintf(w, "chunk #%d\n", chunk.Index); err != nil {
			return err
		}
		for i, instr := range chunk.Instructions {
			if _, err := fmt.Fprintf(w, "  %04d  %s\n", i, instr); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}
