package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/stsnsn/quickARSC/internal/config"
)

// timestampWriter prefixes each flushed line with an RFC3339 timestamp.
// It sits in front of the log file so plain-text logs stay sortable.
type timestampWriter struct {
	w   io.Writer
	buf bytes.Buffer
	mu  sync.Mutex
	now func() time.Time
}

// Write buffers bytes until a newline is found; each full line is written
// with its timestamp. Partial lines stay in the buffer.
func (t *timestampWriter) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n, _ := t.buf.Write(p)
	for {
		line, err := t.buf.ReadString('\n')
		if err != nil {
			// put the partial line back
			t.buf.WriteString(line)
			break
		}
		now := time.Now
		if t.now != nil {
			now = t.now
		}
		if _, err := io.WriteString(t.w, now().Format(time.RFC3339)+" "+line); err != nil {
			return n, err
		}
	}
	return n, nil
}

// terminalWriter wraps an io.Writer and exposes an Fd method so the logger
// can still detect a TTY behind the wrapper.
type terminalWriter struct {
	w  io.Writer
	fd uintptr
}

func (tw *terminalWriter) Write(p []byte) (int, error) { return tw.w.Write(p) }

func (tw *terminalWriter) Fd() uintptr { return tw.fd }

func parseLevel(s string) (log.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return log.DebugLevel, true
	case "info", "":
		return log.InfoLevel, true
	case "warn", "warning":
		return log.WarnLevel, true
	case "error":
		return log.ErrorLevel, true
	}
	return log.InfoLevel, false
}

// newLogger builds the process logger writing to stderr and, when
// configured, appending to cfg.LogFile. The returned func closes the file.
func newLogger(cfg *config.Config, verbose bool, stderr io.Writer) (*log.Logger, func(), error) {
	out := stderr
	closer := func() {}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, closer, fmt.Errorf("open log file: %w", err)
		}
		out = io.MultiWriter(stderr, &timestampWriter{w: f})
		closer = func() { _ = f.Close() }
	}
	if f, ok := stderr.(*os.File); ok {
		out = &terminalWriter{w: out, fd: f.Fd()}
	}

	logger := log.NewWithOptions(out, log.Options{Prefix: "quickarsc"})
	level, ok := parseLevel(cfg.LogLevel)
	if verbose {
		level = log.DebugLevel
	}
	logger.SetLevel(level)
	if !ok {
		logger.Warn("unknown log_level, defaulting to info", "provided", cfg.LogLevel)
	}
	return logger, closer, nil
}
