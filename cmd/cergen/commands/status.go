package commands

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/abhipatel2005/cergen/cmd/cergen/opts"
	"github.com/abhipatel2005/cergen/pkg/state"
)

// NewStatusCmd creates the status command
func NewStatusCmd(o *opts.RootOpts) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Report what the last run generated",
		Long: `Status reads the lock file in the output directory and reports:
1. When the last batch ran and which template it used
2. Every certificate recorded, flagging files that have gone missing
3. Whether the template has changed since the last run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig(ctx, o)
			if err != nil {
				return err
			}
			if outputDir == "" {
				outputDir = cfg.OutputDir
			}
			if outputDir == "" {
				outputDir = "output"
			}

			st, err := state.Load(ctx, outputDir)
			if err != nil {
				return err
			}

			if st.RunID == "" && len(st.Certificates) == 0 {
				pterm.Info.WithPrefix(pterm.Prefix{Text: "📦"}).Printf("no generated certificates recorded in %s\n", outputDir)
				return nil
			}

			pterm.Info.WithPrefix(pterm.Prefix{Text: "📦"}).Printf(
				"last run %s at %s (template %s)\n",
				st.RunID, st.LastUpdated.Format("2006-01-02 15:04:05"), st.TemplateRef)

			for _, cert := range st.Certificates {
				path := filepath.Join(outputDir, cert.Filename)
				if _, err := os.Stat(path); err != nil {
					pterm.Warning.WithPrefix(pterm.Prefix{Text: "❓"}).Printf(
						"%s (%s) is recorded but missing\n", cert.Filename, cert.Name)
					continue
				}
				pterm.Success.WithPrefix(pterm.Prefix{Text: "📄"}).Printf(
					"%s (%s, %d replacements)\n", cert.Filename, cert.Name, cert.Replacements)
			}

			// staleness only works for local template paths
			if st.TemplateRef != "" && !strings.Contains(st.TemplateRef, "://") {
				hash, err := state.HashTemplate(st.TemplateRef)
				if err == nil && st.IsStale(hash) {
					pterm.Warning.WithPrefix(pterm.Prefix{Text: "⚠️"}).Println("template has changed since the last run")
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "directory holding generated documents")

	return cmd
}
