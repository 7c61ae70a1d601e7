// Copyright 2026 Elasticsearch B.V. and contributors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/elastic/escmd/internal/es"
)

// Process exit codes.
const (
	exitOK       = 0
	exitError    = 1 // usage, configuration or transport failure
	exitIO       = 2
	exitUpstream = 3
	exitNotFound = 4
)

func main() {
	os.Exit(execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the command tree and maps the outcome to an exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}
	printError(stderr, err)
	return exitCode(err)
}

func exitCode(err error) int {
	var notFound *es.NotFoundError
	if errors.As(err, &notFound) {
		return exitNotFound
	}
	var upstream *es.UpstreamError
	if errors.As(err, &upstream) {
		return exitUpstream
	}
	var ioErr *es.IOError
	if errors.As(err, &ioErr) {
		return exitIO
	}
	return exitError
}
