package log

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// certLine renders the expected console line for a certificate, pre-trim
func certLine(symbol, name, filename, detail string) string {
	return strings.TrimSpace(fmt.Sprintf("%s %-*s %-*s %s", symbol, nameWidth, name, fileWidth, filename, detail))
}

func TestLogger(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "log_certificate",
			op: func(t *testing.T, logger *Logger) {
				logger.LogCertificate(CertOperation{
					Name:         "Ana",
					Filename:     "certificate-Ana.pdf",
					Replacements: 3,
				})
			},
			wantLogs: []string{
				certLine("✓", "Ana", "certificate-Ana.pdf", "3 replacements"),
			},
		},
		{
			name: "log_failed_certificate",
			op: func(t *testing.T, logger *Logger) {
				logger.LogCertificate(CertOperation{
					Name:   "Bob",
					Failed: true,
					Reason: "converting to pdf: soffice not found",
				})
			},
			wantLogs: []string{
				certLine("✗", "Bob", "", "converting to pdf: soffice not found"),
			},
		},
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Warning("warning message")
				logger.Error("error message")
			},
			wantLogs: []string{
				"⚠️  warning message",
				"❌ error message",
			},
		},
		{
			name: "log_formatted_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Warningf("warning %s", "test")
				logger.Errorf("error %s", "test")
			},
			wantLogs: []string{
				"⚠️  warning test",
				"❌ error test",
			},
		},
		{
			name: "log_header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("template.pptx", 3)
			},
			wantLogs: []string{
				"cergen • template.pptx → 3 certificates",
			},
		},
		{
			name: "summary_all_ok",
			op: func(t *testing.T, logger *Logger) {
				logger.LogCertificate(CertOperation{Name: "Ana", Filename: "a.pdf"})
				logger.Summary()
			},
			wantLogs: []string{
				certLine("✓", "Ana", "a.pdf", "0 replacements"),
				"✅ 1 certificates generated",
			},
		},
		{
			name: "summary_with_failures",
			op: func(t *testing.T, logger *Logger) {
				logger.LogCertificate(CertOperation{Name: "Ana", Filename: "a.pdf"})
				logger.LogCertificate(CertOperation{Name: "Bob", Failed: true, Reason: "boom"})
				logger.Summary()
			},
			wantLogs: []string{
				certLine("✓", "Ana", "a.pdf", "0 replacements"),
				certLine("✗", "Bob", "", "boom"),
				"⚠️  1 of 2 certificates failed",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create buffer for console output
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.Nop())

			// Perform operation
			tt.op(t, logger)

			// Check output, skipping blank spacer lines
			output := strings.TrimSpace(buf.String())
			var lines []string
			for _, line := range strings.Split(output, "\n") {
				if strings.TrimSpace(line) != "" {
					lines = append(lines, strings.TrimSpace(line))
				}
			}

			require.Equal(t, len(tt.wantLogs), len(lines), "number of log lines should match")
			for i, want := range tt.wantLogs {
				assert.Equal(t, want, lines[i], "log line %d should match", i)
			}
		})
	}
}
