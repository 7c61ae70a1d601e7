// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/elastic/escmd/internal/config"
)

// writeBody copies an Elasticsearch response body to w untouched, adding a
// final newline when the server did not send one.
func writeBody(w io.Writer, body []byte) error {
	if len(body) == 0 {
		return nil
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	if !bytes.HasSuffix(body, []byte("\n")) {
		if _, err := io.WriteString(w, "\n"); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
	}
	return nil
}

// resolvePretty turns the output.pretty setting into a decision. In auto
// mode pretty output is used only when w is a terminal.
func resolvePretty(setting string, w io.Writer) bool {
	switch setting {
	case config.PrettyTrue:
		return true
	case config.PrettyFalse:
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// printError writes a one-line description of err to w. The renderer drops
// the styling when w is not a color terminal.
func printError(w io.Writer, err error) {
	style := lipgloss.NewRenderer(w).NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)
	fmt.Fprintln(w, style.Render("Error:"), err.Error())
}
