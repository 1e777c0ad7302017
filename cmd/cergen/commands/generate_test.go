package commands

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhipatel2005/cergen/cmd/cergen/opts"
	"github.com/abhipatel2005/cergen/pkg/batch"
	"github.com/abhipatel2005/cergen/pkg/config"
	"github.com/abhipatel2005/cergen/pkg/log"
	"github.com/abhipatel2005/cergen/pkg/state"
	"github.com/abhipatel2005/cergen/pkg/testutils"
)

func TestGenerateFlags_Apply(t *testing.T) {
	tests := []struct {
		name      string
		flags     generateFlags
		cfg       config.Config
		want      config.Config
		wantError string
	}{
		{
			name: "flags_override_file",
			flags: generateFlags{
				template:  "flag.pptx",
				outputDir: "flag-out",
				format:    "pptx",
				parallel:  4,
			},
			cfg: config.Config{
				Template:  "file.pptx",
				OutputDir: "file-out",
				Format:    "pdf",
				Parallel:  1,
			},
			want: config.Config{
				Template:  "flag.pptx",
				OutputDir: "flag-out",
				Format:    "pptx",
				Parallel:  4,
			},
		},
		{
			name:  "unset_flags_keep_file_values",
			flags: generateFlags{},
			cfg: config.Config{
				Template:  "file.pptx",
				OutputDir: "file-out",
				Names:     []string{"Ana"},
			},
			want: config.Config{
				Template:  "file.pptx",
				OutputDir: "file-out",
				Names:     []string{"Ana"},
			},
		},
		{
			name: "json_flags_are_parsed",
			flags: generateFlags{
				names:      `["Ana", "Bob"]`,
				data:       `[{"name": "Carol"}]`,
				additional: `{"date": "2026-08-31"}`,
			},
			want: config.Config{
				Names:      []string{"Ana", "Bob"},
				Records:    []batch.Record{{"name": "Carol"}},
				Additional: map[string]any{"date": "2026-08-31"},
			},
		},
		{
			name:      "bad_names_json",
			flags:     generateFlags{names: "Ana"},
			wantError: "parsing names",
		},
		{
			name:      "bad_additional_json",
			flags:     generateFlags{additional: "[]"},
			wantError: "parsing additional data",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			err := tt.flags.apply(&cfg)
			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("default_path_missing_is_empty_config", func(t *testing.T) {
		o := &opts.RootOpts{ConfigFile: filepath.Join(t.TempDir(), ".cergen.yaml")}
		cfg, err := loadConfig(ctx, o)
		require.NoError(t, err)
		assert.Equal(t, &config.Config{}, cfg)
	})

	t.Run("explicit_path_missing_is_an_error", func(t *testing.T) {
		o := &opts.RootOpts{
			ConfigFile: filepath.Join(t.TempDir(), "nope.yaml"),
			ConfigSet:  true,
		}
		_, err := loadConfig(ctx, o)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config file")
	})

	t.Run("hcl_file_overlaid_by_flags", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "cergen.hcl")
		require.NoError(t, os.WriteFile(path, []byte("output_dir = \"out\"\n"), 0644))

		o := &opts.RootOpts{ConfigFile: path, ConfigSet: true}
		cfg, err := loadConfig(ctx, o)
		require.NoError(t, err)

		f := generateFlags{template: "deck.pptx", names: `["Ana"]`}
		require.NoError(t, f.apply(cfg))
		require.NoError(t, cfg.Validate())

		assert.Equal(t, "deck.pptx", cfg.Template)
		assert.Equal(t, "out", cfg.OutputDir)
		assert.Equal(t, []string{"Ana"}, cfg.Names)
	})

	t.Run("existing_file_is_loaded", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, ".cergen.yaml")
		require.NoError(t, os.WriteFile(path, []byte("template: deck.pptx\noutput_dir: out\n"), 0644))

		o := &opts.RootOpts{ConfigFile: path}
		cfg, err := loadConfig(ctx, o)
		require.NoError(t, err)
		assert.Equal(t, "deck.pptx", cfg.Template)
		assert.Equal(t, "out", cfg.OutputDir)
	})
}

// captureStdout intercepts the JSON envelope while fn runs
func captureStdout(t *testing.T, fn func()) []byte {
	t.Helper()
	orig := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	require.NoError(t, w.Close())
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	return data
}

func TestRunGenerate(t *testing.T) {
	dir := t.TempDir()
	templatePath := filepath.Join(dir, "deck.pptx")
	testutils.WriteDeck(t, templatePath,
		testutils.Slide(testutils.TextShape("Awarded to {{name}}")),
	)

	outputDir := filepath.Join(dir, "out")
	cfg := &config.Config{
		Template:  templatePath,
		OutputDir: outputDir,
		Names:     []string{"Ana María", "Bob"},
		Format:    config.FormatPPTX,
	}
	require.NoError(t, cfg.Validate())

	var console bytes.Buffer
	o := &opts.RootOpts{Console: log.New(&console, zerolog.Nop())}
	ctx := zerolog.Nop().WithContext(context.Background())

	var runErr error
	out := captureStdout(t, func() {
		runErr = runGenerate(ctx, o, cfg)
	})
	require.NoError(t, runErr)

	var envelope struct {
		Success bool `json:"success"`
		Results []struct {
			Success          bool   `json:"success"`
			Name             string `json:"name"`
			Filename         string `json:"filename"`
			ReplacementsMade int    `json:"replacements_made"`
		} `json:"results"`
		TotalProcessed int `json:"total_processed"`
	}
	require.NoError(t, json.Unmarshal(out, &envelope))

	assert.True(t, envelope.Success)
	assert.Equal(t, 2, envelope.TotalProcessed)
	require.Len(t, envelope.Results, 2)
	assert.Equal(t, "Ana María", envelope.Results[0].Name)
	assert.Equal(t, "certificate-Ana_María.pptx", envelope.Results[0].Filename)
	assert.Equal(t, 1, envelope.Results[0].ReplacementsMade)

	// outputs and the lock file are on disk
	assert.FileExists(t, filepath.Join(outputDir, "certificate-Ana_María.pptx"))
	assert.FileExists(t, filepath.Join(outputDir, "certificate-Bob.pptx"))

	st, err := state.Load(ctx, outputDir)
	require.NoError(t, err)
	assert.Len(t, st.Certificates, 2)
	assert.Equal(t, templatePath, st.TemplateRef)
	assert.Len(t, st.TemplateHash, 64)

	// console progress went to the console writer, not stdout
	assert.Contains(t, console.String(), "certificate-Bob.pptx")
}
