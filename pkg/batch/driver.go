package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/valyala/fasttemplate"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/abhipatel2005/cergen/pkg/export"
	"github.com/abhipatel2005/cergen/pkg/log"
	"github.com/abhipatel2005/cergen/pkg/pptx"
)

// DefaultNamePattern names output files; {stem} and {ext} are filled per
// record.
const DefaultNamePattern = "certificate-{stem}.{ext}"

// 🔧 Options configures a Driver
type Options struct {
	// Template is the local path of the .pptx template
	Template string
	// OutputDir receives the generated documents
	OutputDir string
	// Exporter converts each intermediate document to its fixed-layout form.
	// Nil keeps the substituted template as the final artifact.
	Exporter export.Exporter
	// Additional is merged into every record's replacement map
	Additional map[string]any
	// NamePattern overrides DefaultNamePattern
	NamePattern string
	// Parallel >1 enables bounded concurrent record processing
	Parallel int
	// Console receives per-record progress lines (may be nil)
	Console *log.Logger
}

// 🏃 Driver turns records into personalized documents, one output per record
type Driver struct {
	template    string
	outputDir   string
	exporter    export.Exporter
	additional  map[string]any
	namePattern *fasttemplate.Template
	parallel    int
	console     *log.Logger
}

// 🏭 New creates a Driver
func New(opts Options) (*Driver, error) {
	if opts.Template == "" {
		return nil, errors.New("template is required")
	}
	if opts.OutputDir == "" {
		return nil, errors.New("output dir is required")
	}

	pattern := opts.NamePattern
	if pattern == "" {
		pattern = DefaultNamePattern
	}
	tpl, err := fasttemplate.NewTemplate(pattern, "{", "}")
	if err != nil {
		return nil, errors.Errorf("parsing name pattern: %w", err)
	}

	return &Driver{
		template:    opts.Template,
		outputDir:   opts.OutputDir,
		exporter:    opts.Exporter,
		additional:  opts.Additional,
		namePattern: tpl,
		parallel:    opts.Parallel,
		console:     opts.Console,
	}, nil
}

// 🏃 Run processes every record and returns one Result per record in input
// order. A record's failure never aborts the batch; the returned error is
// reserved for batch-level conditions (output dir creation).
func (d *Driver) Run(ctx context.Context, records []Record) (Summary, error) {
	runID := uuid.NewString()
	logger := zerolog.Ctx(ctx).With().Str("run_id", runID).Logger()
	ctx = logger.WithContext(ctx)

	if err := os.MkdirAll(d.outputDir, 0o755); err != nil {
		return Summary{}, errors.Errorf("creating output dir: %w", err)
	}

	logger.Info().Int("records", len(records)).Int("parallel", d.parallel).Msg("starting batch")

	results := make([]Result, len(records))
	if d.parallel > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(d.parallel)
		for i, rec := range records {
			i, rec := i, rec
			g.Go(func() error {
				results[i] = d.ProcessRecord(gctx, rec)
				return nil
			})
		}
		// workers only report through the results slice
		_ = g.Wait()
	} else {
		for i, rec := range records {
			results[i] = d.ProcessRecord(ctx, rec)
		}
	}

	logger.Info().Int("records", len(records)).Msg("batch complete")

	return Summary{
		Success:        true,
		Results:        results,
		TotalProcessed: len(records),
		RunID:          runID,
	}, nil
}

// 📄 ProcessRecord runs the full pipeline for one record: build replacements,
// substitute into a fresh copy of the template, persist, convert, clean up the
// intermediate. Every failure is converted into a failure Result; nothing
// escapes record scope.
func (d *Driver) ProcessRecord(ctx context.Context, rec Record) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{Error: fmt.Sprintf("processing record: %v", r)}
		}
		d.logResult(ctx, res)
	}()

	logger := zerolog.Ctx(ctx)

	name := DisplayName(rec)
	stem := SafeStem(name)
	replacements := BuildReplacements(rec, d.additional)

	logger.Debug().
		Str("name", name).
		Str("stem", stem).
		Int("tokens", len(replacements)).
		Msg("processing record")

	prs, err := pptx.Open(ctx, d.template)
	if err != nil {
		return failure(name, errors.Errorf("opening template: %w", err))
	}

	count := prs.Replace(replacements)

	intermediate := filepath.Join(d.outputDir, d.renderName(stem, templateExt(d.template)))
	if err := prs.SaveAs(intermediate); err != nil {
		return failure(name, errors.Errorf("writing %s: %w", filepath.Base(intermediate), err))
	}

	if d.exporter == nil {
		return Result{
			Success:          true,
			Name:             name,
			Filename:         filepath.Base(intermediate),
			Path:             intermediate,
			ReplacementsMade: count,
		}
	}

	final := filepath.Join(d.outputDir, d.renderName(stem, d.exporter.Ext()))
	if err := d.exporter.Export(ctx, intermediate, final); err != nil {
		return failure(name, errors.Errorf("converting to %s: %w", d.exporter.Ext(), err))
	}

	// best-effort cleanup of the intermediate document
	if err := os.Remove(intermediate); err != nil {
		logger.Warn().Err(err).Str("path", intermediate).Msg("leaving intermediate file behind")
	}

	return Result{
		Success:          true,
		Name:             name,
		Filename:         filepath.Base(final),
		Path:             final,
		ReplacementsMade: count,
	}
}

// renderName fills the output name pattern for one record
func (d *Driver) renderName(stem, ext string) string {
	return d.namePattern.ExecuteString(map[string]any{
		"stem": stem,
		"ext":  ext,
	})
}

// logResult emits the per-record console line
func (d *Driver) logResult(ctx context.Context, res Result) {
	if d.console != nil {
		d.console.LogCertificate(log.CertOperation{
			Name:         res.Name,
			Filename:     res.Filename,
			Replacements: res.ReplacementsMade,
			Failed:       !res.Success,
			Reason:       res.Error,
		})
	}

	evt := zerolog.Ctx(ctx).Info()
	if !res.Success {
		evt = zerolog.Ctx(ctx).Error()
	}
	evt.
		Str("name", res.Name).
		Str("filename", res.Filename).
		Int("replacements", res.ReplacementsMade).
		Bool("success", res.Success).
		Str("error", res.Error).
		Msg("record processed")
}

// templateExt returns the template's extension without the leading dot
func templateExt(path string) string {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		ext = "pptx"
	}
	return ext
}
