package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"rinha/ast"
	"rinha/loader"
	"rinha/parser"
)

// loadSource reads path and parses it into an ast.File, dispatching on
// extension: ".json" goes through the wire-format loader, anything else
// (".rinha" or no extension) through the text parser.
func loadSource(path string) (*ast.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		file, err := loader.Load(data, path)
		if err != nil {
			return nil, errors.Wrap(err, "loading AST")
		}
		return file, nil
	}

	file, err := parser.Parse(string(data), path)
	if err != nil {
		return nil, errors.Wrap(err, "parsing source")
	}
	return file, nil
}
