package export

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultConvertTimeout bounds a single conversion. A wedged converter
// process fails the record instead of hanging the whole batch.
const DefaultConvertTimeout = 2 * time.Minute

// 🖨️ Soffice exports documents to PDF through a headless LibreOffice
// invocation (`soffice --headless --convert-to pdf`).
type Soffice struct {
	// Binary is the soffice executable; resolved via PATH when relative
	Binary string
	// Timeout bounds one conversion; zero means DefaultConvertTimeout
	Timeout time.Duration

	// run is swapped out in tests
	run func(cmd *exec.Cmd) error
}

// 🏭 NewSoffice creates a LibreOffice exporter
func NewSoffice(binary string, timeout time.Duration) *Soffice {
	if binary == "" {
		binary = "soffice"
	}
	return &Soffice{Binary: binary, Timeout: timeout}
}

// Ext implements Exporter
func (s *Soffice) Ext() string {
	return "pdf"
}

// 🏃 Export implements Exporter. LibreOffice names its output after the input
// stem inside --outdir, so the result is renamed when the caller asked for a
// different name.
func (s *Soffice) Export(ctx context.Context, src, dst string) error {
	timeout := s.Timeout
	if timeout == 0 {
		timeout = DefaultConvertTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	outDir := filepath.Dir(dst)
	cmd := exec.CommandContext(ctx, s.Binary, "--headless", "--convert-to", "pdf", "--outdir", outDir, src)

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	zerolog.Ctx(ctx).Debug().Strs("args", cmd.Args).Msg("running converter")

	runner := s.run
	if runner == nil {
		runner = (*exec.Cmd).Run
	}
	if err := runner(cmd); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return errors.Errorf("converter timed out after %s", timeout)
		}
		return errors.Errorf("running %s: %w: %s", s.Binary, err, strings.TrimSpace(output.String()))
	}

	produced := filepath.Join(outDir, stemOf(src)+".pdf")
	if produced != dst {
		if err := os.Rename(produced, dst); err != nil {
			return errors.Errorf("renaming converter output: %w", err)
		}
	}

	if _, err := os.Stat(dst); err != nil {
		return errors.Errorf("converter produced no output: %w", err)
	}

	return nil
}

func stemOf(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
