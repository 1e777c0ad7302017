// Package config carries the batch invocation: where the template lives,
// where outputs go, which records to fill in, and how conversion behaves.
// Values come from an optional config file (JSON, YAML or HCL) overlaid by
// command-line flags.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	"github.com/abhipatel2005/cergen/pkg/batch"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// Output formats
const (
	FormatPDF  = "pdf"
	FormatPPTX = "pptx"
)

// 📚 Config represents the complete batch configuration
type Config struct {
	// Template is a path or github:// reference to the .pptx template
	Template string `json:"template" yaml:"template"`
	// OutputDir receives generated documents; created when absent
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Names is the legacy input shape: one certificate per display name
	Names []string `json:"names,omitempty" yaml:"names,omitempty"`
	// Records is the full input shape: one certificate per data object
	Records []batch.Record `json:"records,omitempty" yaml:"records,omitempty"`
	// RecordFiles are glob patterns of JSON files holding further records
	RecordFiles []string `json:"record_files,omitempty" yaml:"record_files,omitempty"`
	// Additional is merged into every record's replacement map
	Additional map[string]any `json:"additional,omitempty" yaml:"additional,omitempty"`

	Format         string `json:"format,omitempty" yaml:"format,omitempty"`
	NamePattern    string `json:"name_pattern,omitempty" yaml:"name_pattern,omitempty"`
	Soffice        string `json:"soffice,omitempty" yaml:"soffice,omitempty"`
	ConvertTimeout string `json:"convert_timeout,omitempty" yaml:"convert_timeout,omitempty"`
	Parallel       int    `json:"parallel,omitempty" yaml:"parallel,omitempty"`
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// 🔍 Validate checks the configuration and applies defaults
func (cfg *Config) Validate() error {
	if cfg.Template == "" {
		return errors.New("template is required")
	}
	if cfg.OutputDir == "" {
		return errors.New("output dir is required")
	}
	if len(cfg.Names) == 0 && len(cfg.Records) == 0 && len(cfg.RecordFiles) == 0 {
		return errors.New("either names or records must be provided")
	}

	if cfg.Format == "" {
		cfg.Format = FormatPDF
	}
	if cfg.Format != FormatPDF && cfg.Format != FormatPPTX {
		return errors.Errorf("unsupported format: %s", cfg.Format)
	}

	if cfg.NamePattern == "" {
		cfg.NamePattern = batch.DefaultNamePattern
	}
	if cfg.Soffice == "" {
		cfg.Soffice = "soffice"
	}
	if cfg.Parallel < 1 {
		cfg.Parallel = 1
	}

	if cfg.ConvertTimeout != "" {
		if _, err := time.ParseDuration(cfg.ConvertTimeout); err != nil {
			return errors.Errorf("parsing convert_timeout: %w", err)
		}
	}

	// templates referenced by scheme are not local paths
	if !strings.Contains(cfg.Template, "://") {
		cfg.Template = filepath.Clean(cfg.Template)
	}
	cfg.OutputDir = filepath.Clean(cfg.OutputDir)

	return nil
}

// ⏱️ Timeout returns the parsed conversion timeout; zero means the exporter's
// default applies.
func (cfg *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(cfg.ConvertTimeout)
	if err != nil {
		return 0
	}
	return d
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%s -> %s (%s)", cfg.Template, cfg.OutputDir, cfg.Format)
}

// 🔧 YAMLParser implements the Parser interface for YAML files
type YAMLParser struct{}

func init() {
	Register(&YAMLParser{})
}

func (p *YAMLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml")
}

func (p *YAMLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return &cfg, nil
}
