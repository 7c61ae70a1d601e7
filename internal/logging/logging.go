// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

// Package logging configures the zap logger used for diagnostics. Logs
// always go to stderr so stdout carries nothing but response bodies.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

// Setup builds the process logger and installs it as the zap global.
// A terminal on stderr gets the human readable development encoder,
// anything else gets JSON lines.
func Setup(verbose bool) (*zap.Logger, error) {
	return build(verbose, term.IsTerminal(int(os.Stderr.Fd())))
}

func build(verbose, tty bool) (*zap.Logger, error) {
	var conf zap.Config
	if tty {
		conf = zap.NewDevelopmentConfig()
		conf.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		conf.DisableStacktrace = true
	} else {
		conf = zap.NewProductionConfig()
		conf.Sampling = nil
	}
	conf.OutputPaths = []string{"stderr"}
	conf.ErrorOutputPaths = []string{"stderr"}

	level := zap.WarnLevel
	if verbose {
		level = zap.DebugLevel
	}
	conf.Level = zap.NewAtomicLevelAt(level)

	logger, err := conf.Build()
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	_ = zap.RedirectStdLog(logger)
	return logger, nil
}
