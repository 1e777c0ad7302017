// Package log prints human-readable batch progress on a console writer while
// mirroring everything into zerolog. Console output goes to stderr so stdout
// stays reserved for the JSON envelope.
package log

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	nameWidth = 30 // base width for recipient names
	fileWidth = 40 // width for output filenames
)

// 🎯 CertOperation represents one generated certificate for logging
type CertOperation struct {
	Name         string // recipient display name
	Filename     string // output filename
	Replacements int    // number of replacement events
	Failed       bool   // whether the record failed
	Reason       string // failure reason, when failed
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
	counted int
	failed  int
}

// 🏭 New creates a new logger. Human-readable lines go to console; zlog is
// the structured logger the caller already configured (its level decides how
// chatty the structured mirror is).
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 📝 formatCertOperation formats one certificate line for display
func (l *Logger) formatCertOperation(op CertOperation) string {
	symbol := color.New(color.FgGreen).Sprint("✓")
	detail := color.New(color.Faint).Sprintf("%d replacements", op.Replacements)
	if op.Failed {
		symbol = color.New(color.FgRed).Sprint("✗")
		detail = color.New(color.FgRed).Sprint(op.Reason)
	}

	return fmt.Sprintf("  %s %s %s %s",
		symbol,
		fmt.Sprintf("%-*s", nameWidth, op.Name),
		color.New(color.FgCyan).Sprint(fmt.Sprintf("%-*s", fileWidth, op.Filename)),
		detail)
}

// 📝 LogCertificate logs one generated (or failed) certificate
func (l *Logger) LogCertificate(op CertOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.counted++
	if op.Failed {
		l.failed++
	}

	fmt.Fprintln(l.console, l.formatCertOperation(op))

	evt := l.zlog.Info()
	if op.Failed {
		evt = l.zlog.Error()
	}
	evt.
		Str("name", op.Name).
		Str("filename", op.Filename).
		Int("replacements", op.Replacements).
		Bool("failed", op.Failed).
		Msg("certificate")
}

// 📝 Header logs the batch header
func (l *Logger) Header(template string, records int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.counted = 0
	l.failed = 0

	cergenText := color.New(color.Bold, color.FgCyan).Sprint("cergen")
	fmt.Fprintf(l.console, "\n%s %s\n\n", cergenText,
		color.New(color.Faint).Sprintf("• %s → %d certificates", template, records))
	l.zlog.Info().Str("template", template).Int("records", records).Msg("starting batch")
}

// 📝 Summary logs the batch footer
func (l *Logger) Summary() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.failed > 0 {
		fmt.Fprintf(l.console, "\n⚠️  %s\n", color.New(color.FgYellow).Sprintf(
			"%d of %d certificates failed", l.failed, l.counted))
	} else {
		fmt.Fprintf(l.console, "\n✅ %s\n", color.New(color.FgGreen).Sprintf(
			"%d certificates generated", l.counted))
	}
	l.zlog.Info().Int("total", l.counted).Int("failed", l.failed).Msg("batch finished")
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}
