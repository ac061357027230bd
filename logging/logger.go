//
// (C) Copyright 2019-2022 Intel Corporation.
//
// SPDX-License-Identifier: BSD-2-Clause-Patent
//

package logging

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// callDepth is the number of stack frames between a sink's call to
// Outputter.Output() and the code which invoked the logger.
const callDepth = 4

type (
	// Logger defines a standard logging interface
	Logger interface {
		EnabledFor(level LogLevel) bool
		Trace(msg string)
		Tracef(format string, args ...interface{})
		Debug(msg string)
		Debugf(format string, args ...interface{})
		Info(msg string)
		Infof(format string, args ...interface{})
		Notice(msg string)
		Noticef(format string, args ...interface{})
		Error(msg string)
		Errorf(format string, args ...interface{})
	}

	// Outputter defines an interface to be implemented
	// by output formatters.
	Outputter interface {
		Output(callDepth int, msg string) error
	}

	// LeveledLogger provides a logging implementation which
	// can emit log messages to multiple destinations with
	// different output formats.
	LeveledLogger struct {
		sync.RWMutex

		level LogLevel
		sinks [numLevels][]*sink
	}

	// sink writes messages for a single level to a single destination.
	sink struct {
		level  LogLevel
		dest   io.Writer
		prefix string
		flags  int
		out    Outputter
	}
)

func newSink(level LogLevel, dest io.Writer, prefix string, flags int) *sink {
	return &sink{
		level:  level,
		dest:   dest,
		prefix: prefix,
		flags:  flags,
		out:    log.New(dest, prefix, flags),
	}
}

func (s *sink) output(format string, args ...interface{}) {
	if err := s.out.Output(callDepth, fmt.Sprintf(format, args...)); err != nil {
		fmt.Fprintf(os.Stderr, "logger output failed: %s\n", err)
	}
}

// SetLevel sets the logger's LogLevel, at or above
// which messages will be emitted.
func (ll *LeveledLogger) SetLevel(newLevel LogLevel) {
	ll.level.Set(newLevel)
}

// Level returns the logger's current LogLevel.
func (ll *LeveledLogger) Level() LogLevel {
	return ll.level.Get()
}

// EnabledFor returns true if the logger is enabled for the
// specified LogLevel.
func (ll *LeveledLogger) EnabledFor(level LogLevel) bool {
	return ll.level.Get() >= level
}

// WithLogLevel allows the logger's LogLevel to be set
// as part of a chained method call.
func (ll *LeveledLogger) WithLogLevel(level LogLevel) *LeveledLogger {
	ll.SetLevel(level)
	return ll
}

// ClearLevel removes all destinations for the specified level.
func (ll *LeveledLogger) ClearLevel(level LogLevel) {
	if level <= LogLevelDisabled || int(level) >= numLevels {
		return
	}

	ll.Lock()
	defer ll.Unlock()
	ll.sinks[level] = nil
}

func (ll *LeveledLogger) addSink(level LogLevel, s *sink) {
	ll.Lock()
	defer ll.Unlock()
	ll.sinks[level] = append(ll.sinks[level], s)
}

// WithFileOutput adds a destination for every level which appends to
// the supplied writer. The logger's level still determines which
// messages are emitted.
func (ll *LeveledLogger) WithFileOutput(prefix string, dest io.Writer) *LeveledLogger {
	for _, level := range []LogLevel{LogLevelError, LogLevelNotice, LogLevelInfo} {
		ll.addSink(level, newSink(level, dest, levelPrefix(prefix, level), log.LstdFlags))
	}
	for _, level := range []LogLevel{LogLevelDebug, LogLevelTrace} {
		ll.addSink(level, newSink(level, dest, level.String()+" ", verboseLogFlags))
	}
	return ll
}

func (ll *LeveledLogger) logf(level LogLevel, format string, args ...interface{}) {
	if ll.Level() < level {
		return
	}

	ll.RLock()
	sinks := ll.sinks[level]
	ll.RUnlock()

	for _, s := range sinks {
		s.output(format, args...)
	}
}

// Trace emits an unformatted message at Trace level, if
// the logger is configured to do so.
func (ll *LeveledLogger) Trace(msg string) {
	ll.logf(LogLevelTrace, "%s", msg)
}

// Tracef emits a formatted message at Trace level, if
// the logger is configured to do so.
func (ll *LeveledLogger) Tracef(format string, args ...interface{}) {
	ll.logf(LogLevelTrace, format, args...)
}

// Debug emits an unformatted message at Debug level, if
// the logger is configured to do so.
func (ll *LeveledLogger) Debug(msg string) {
	ll.logf(LogLevelDebug, "%s", msg)
}

// Debugf emits a formatted message at Debug level, if
// the logger is configured to do so.
func (ll *LeveledLogger) Debugf(format string, args ...interface{}) {
	ll.logf(LogLevelDebug, format, args...)
}

// Info emits an unformatted message at Info level, if
// the logger is configured to do so.
func (ll *LeveledLogger) Info(msg string) {
	ll.logf(LogLevelInfo, "%s", msg)
}

// Infof emits a formatted message at Info level, if
// the logger is configured to do so.
func (ll *LeveledLogger) Infof(format string, args ...interface{}) {
	ll.logf(LogLevelInfo, format, args...)
}

// Notice emits an unformatted message at Notice level, if
// the logger is configured to do so.
func (ll *LeveledLogger) Notice(msg string) {
	ll.logf(LogLevelNotice, "%s", msg)
}

// Noticef emits a formatted message at Notice level, if
// the logger is configured to do so.
func (ll *LeveledLogger) Noticef(format string, args ...interface{}) {
	ll.logf(LogLevelNotice, format, args...)
}

// Error emits an unformatted message at Error level, if
// the logger is configured to do so.
func (ll *LeveledLogger) Error(msg string) {
	ll.logf(LogLevelError, "%s", msg)
}

// Errorf emits a formatted message at Error level, if
// the logger is configured to do so.
func (ll *LeveledLogger) Errorf(format string, args ...interface{}) {
	ll.logf(LogLevelError, format, args...)
}

// LogBuffer provides a thread-safe wrapper for bytes.Buffer.
// It only wraps a subset of bytes.Buffer's methods; just enough
// to implement io.Reader, io.Writer, and fmt.Stringer. The
// Reset() method is also wrapped in order to make it useful
// for testing.
type LogBuffer struct {
	sync.Mutex
	buf bytes.Buffer
}

func (lb *LogBuffer) Read(p []byte) (int, error) {
	lb.Lock()
	defer lb.Unlock()
	return lb.buf.Read(p)
}

func (lb *LogBuffer) Write(p []byte) (int, error) {
	lb.Lock()
	defer lb.Unlock()
	return lb.buf.Write(p)
}

func (lb *LogBuffer) String() string {
	lb.Lock()
	defer lb.Unlock()
	return lb.buf.String()
}

// Reset empties the buffer.
func (lb *LogBuffer) Reset() {
	lb.Lock()
	defer lb.Unlock()
	lb.buf.Reset()
}
