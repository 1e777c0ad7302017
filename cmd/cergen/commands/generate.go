package commands

import (
	"context"
	"os"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/abhipatel2005/cergen/cmd/cergen/opts"
	"github.com/abhipatel2005/cergen/pkg/batch"
	"github.com/abhipatel2005/cergen/pkg/config"
	"github.com/abhipatel2005/cergen/pkg/export"
	"github.com/abhipatel2005/cergen/pkg/state"
	"github.com/abhipatel2005/cergen/pkg/template"
)

// generateFlags mirror the config file fields; a set flag wins over the file
type generateFlags struct {
	template       string
	outputDir      string
	names          string
	data           string
	records        []string
	additional     string
	format         string
	namePattern    string
	soffice        string
	convertTimeout string
	parallel       int
}

// NewGenerateCmd creates the generate command
func NewGenerateCmd(o *opts.RootOpts) *cobra.Command {
	f := &generateFlags{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one document per record from the template",
		Long: `Generate fills every {{placeholder}} in the template with record data and
writes one output document per record. It will:
1. Load records from flags, the config file, or record files
2. Substitute placeholders into a fresh copy of the template per record
3. Convert each copy to the requested format
4. Print a JSON summary of the batch on stdout`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "generate").Logger().WithContext(ctx)

			cfg, err := loadConfig(ctx, o)
			if err != nil {
				return err
			}
			if err := f.apply(cfg); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return errors.Errorf("validating config: %w", err)
			}

			return runGenerate(ctx, o, cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.template, "template", "t", "", "path or github:// reference to the .pptx template")
	flags.StringVarP(&f.outputDir, "output-dir", "o", "", "directory for generated documents")
	flags.StringVar(&f.names, "names", "", "JSON array of recipient names")
	flags.StringVar(&f.data, "data", "", "JSON array of record objects")
	flags.StringArrayVar(&f.records, "records", nil, "glob pattern of JSON record files (repeatable)")
	flags.StringVar(&f.additional, "additional", "", "JSON object merged into every record")
	flags.StringVar(&f.format, "format", "", "output format: pdf or pptx")
	flags.StringVar(&f.namePattern, "name-pattern", "", "output file name pattern, e.g. certificate-{stem}.{ext}")
	flags.StringVar(&f.soffice, "soffice", "", "LibreOffice binary used for PDF conversion")
	flags.StringVar(&f.convertTimeout, "convert-timeout", "", "per-document conversion timeout, e.g. 90s")
	flags.IntVar(&f.parallel, "parallel", 0, "number of records processed concurrently")

	return cmd
}

// apply overlays set flags onto the file config
func (f *generateFlags) apply(cfg *config.Config) error {
	if f.template != "" {
		cfg.Template = f.template
	}
	if f.outputDir != "" {
		cfg.OutputDir = f.outputDir
	}
	if f.names != "" {
		names, err := config.ParseNames(f.names)
		if err != nil {
			return err
		}
		cfg.Names = names
	}
	if f.data != "" {
		records, err := config.ParseRecords(f.data)
		if err != nil {
			return err
		}
		cfg.Records = records
	}
	if len(f.records) > 0 {
		cfg.RecordFiles = f.records
	}
	if f.additional != "" {
		additional, err := config.ParseAdditional(f.additional)
		if err != nil {
			return err
		}
		cfg.Additional = additional
	}
	if f.format != "" {
		cfg.Format = f.format
	}
	if f.namePattern != "" {
		cfg.NamePattern = f.namePattern
	}
	if f.soffice != "" {
		cfg.Soffice = f.soffice
	}
	if f.convertTimeout != "" {
		cfg.ConvertTimeout = f.convertTimeout
	}
	if f.parallel > 0 {
		cfg.Parallel = f.parallel
	}
	return nil
}

func runGenerate(ctx context.Context, o *opts.RootOpts, cfg *config.Config) error {
	records, err := cfg.LoadRecords(ctx)
	if err != nil {
		return err
	}

	src, err := template.Resolve(cfg.Template)
	if err != nil {
		return err
	}
	fetchDir, err := os.MkdirTemp("", "cergen-template-")
	if err != nil {
		return errors.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(fetchDir)

	templatePath, err := src.Fetch(ctx, fetchDir)
	if err != nil {
		return errors.Errorf("fetching template: %w", err)
	}

	var exporter export.Exporter
	if cfg.Format == config.FormatPDF {
		exporter = export.NewSoffice(cfg.Soffice, cfg.Timeout())
	}

	driver, err := batch.New(batch.Options{
		Template:    templatePath,
		OutputDir:   cfg.OutputDir,
		Exporter:    exporter,
		Additional:  cfg.Additional,
		NamePattern: cfg.NamePattern,
		Parallel:    cfg.Parallel,
		Console:     o.Console,
	})
	if err != nil {
		return err
	}

	o.Console.Header(cfg.Template, len(records))
	summary, err := driver.Run(ctx, records)
	if err != nil {
		return err
	}
	o.Console.Summary()

	saveState(ctx, o, cfg, templatePath, summary)

	if err := json.NewEncoder(os.Stdout).Encode(summary); err != nil {
		return errors.Errorf("encoding summary: %w", err)
	}
	return nil
}

// saveState records the run in the output dir's lock file. State is an aid
// for status and clean, so failures here only warn.
func saveState(ctx context.Context, o *opts.RootOpts, cfg *config.Config, templatePath string, summary batch.Summary) {
	st, err := state.Load(ctx, cfg.OutputDir)
	if err != nil {
		o.Console.Warningf("could not read lock file: %v", err)
		st = &state.State{}
	}

	hash, err := state.HashTemplate(templatePath)
	if err != nil {
		o.Console.Warningf("could not hash template: %v", err)
	}

	st.TemplateRef = cfg.Template
	st.TemplateHash = hash
	st.RunID = summary.RunID
	for _, res := range summary.Results {
		st.Put(res)
	}

	if err := st.Save(ctx, cfg.OutputDir); err != nil {
		o.Console.Warningf("could not write lock file: %v", err)
	}
}
