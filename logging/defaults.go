//
// (C) Copyright 2019-2022 Intel Corporation.
//
// SPDX-License-Identifier: BSD-2-Clause-Patent
//

package logging

import (
	"io"
	"log"
	"os"
)

const (
	// DefaultLogLevel is the level used by new loggers.
	DefaultLogLevel = LogLevelInfo

	emptyLogFlags   = 0
	verboseLogFlags = log.Lmicroseconds | log.Lshortfile
)

func levelPrefix(prefix string, level LogLevel) string {
	if prefix == "" {
		return level.String() + " "
	}
	return prefix + " " + level.String() + " "
}

// NewCommandLineLogger returns a logger configured
// to send non-error output to stdout and error
// output to stderr. The output format is suitable
// for command line utilities which don't want output
// to include timestamps and filenames.
func NewCommandLineLogger() *LeveledLogger {
	ll := &LeveledLogger{level: DefaultLogLevel}

	ll.addSink(LogLevelError, newSink(LogLevelError, os.Stderr, "ERROR: ", emptyLogFlags))
	ll.addSink(LogLevelNotice, newSink(LogLevelNotice, os.Stderr, "NOTICE: ", emptyLogFlags))
	ll.addSink(LogLevelInfo, newSink(LogLevelInfo, os.Stdout, "", emptyLogFlags))
	ll.addSink(LogLevelDebug, newSink(LogLevelDebug, os.Stderr, "DEBUG ", verboseLogFlags))
	ll.addSink(LogLevelTrace, newSink(LogLevelTrace, os.Stderr, "TRACE ", verboseLogFlags))

	return ll
}

// NewCombinedLogger returns a logger configured
// to send all output to the supplied io.Writer.
func NewCombinedLogger(prefix string, output io.Writer) *LeveledLogger {
	return (&LeveledLogger{level: DefaultLogLevel}).WithFileOutput(prefix, output)
}

// NewTestLogger returns a logger and a *LogBuffer,
// with the logger configured to send all output into
// the buffer. The logger's level is set to TRACE by default.
func NewTestLogger(prefix string) (*LeveledLogger, *LogBuffer) {
	var buf LogBuffer
	return NewCombinedLogger(prefix, &buf).
		WithLogLevel(LogLevelTrace), &buf
}
