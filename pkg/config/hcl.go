package config

import (
	"context"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	// HCL has no free-form object values, so records come in through
	// record_files and additional is a string map. Every attribute is
	// optional here; flags may fill the gaps before Validate runs.
	type hclConfig struct {
		Template       string            `hcl:"template,optional"`
		OutputDir      string            `hcl:"output_dir,optional"`
		Names          []string          `hcl:"names,optional"`
		RecordFiles    []string          `hcl:"record_files,optional"`
		Additional     map[string]string `hcl:"additional,optional"`
		Format         string            `hcl:"format,optional"`
		NamePattern    string            `hcl:"name_pattern,optional"`
		Soffice        string            `hcl:"soffice,optional"`
		ConvertTimeout string            `hcl:"convert_timeout,optional"`
		Parallel       int               `hcl:"parallel,optional"`
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	cfg := &Config{
		Template:       hclCfg.Template,
		OutputDir:      hclCfg.OutputDir,
		Names:          hclCfg.Names,
		RecordFiles:    hclCfg.RecordFiles,
		Format:         hclCfg.Format,
		NamePattern:    hclCfg.NamePattern,
		Soffice:        hclCfg.Soffice,
		ConvertTimeout: hclCfg.ConvertTimeout,
		Parallel:       hclCfg.Parallel,
	}

	if len(hclCfg.Additional) > 0 {
		cfg.Additional = make(map[string]any, len(hclCfg.Additional))
		for k, v := range hclCfg.Additional {
			cfg.Additional[k] = v
		}
	}

	return cfg, nil
}
