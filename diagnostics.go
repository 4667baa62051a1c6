package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"rinha/rerr"
)

// reportError prints err to stderr, highlighting the location and error
// kind in color when the error is one of our own ExecutionErrors.
func reportError(err error) {
	var execErr *rerr.ExecutionError
	if ee, ok := asExecutionError(err); ok {
		execErr = ee
	}

	if execErr == nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		return
	}

	fmt.Fprintf(os.Stderr, "%s %s %s: %s\n",
		color.RedString("error:"),
		color.YellowString(string(execErr.Kind)),
		color.CyanString(execErr.Location.String()),
		execErr.Message,
	)
}

// asExecutionError unwraps err (which may have been wrapped by
// github.com/pkg/errors along the loader/parser/compiler/vm path) down to
// its underlying *rerr.ExecutionError, if any.
func asExecutionError(err error) (*rerr.ExecutionError, bool) {
	type causer interface{ Cause() error }

	for err != nil {
		if ee, ok := err.(*rerr.ExecutionError); ok {
			return ee, true
		}
		c, ok := err.(causer)
		if !ok {
			return nil, false
		}
		err = c.Cause()
	}
	return nil, false
}
