package commands

import (
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/abhipatel2005/cergen/cmd/cergen/opts"
	"github.com/abhipatel2005/cergen/pkg/state"
)

// NewCleanCmd creates the clean command
func NewCleanCmd(o *opts.RootOpts) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove generated documents and the lock file",
		Long: `Clean removes everything the last runs produced. It will:
1. Delete every certificate recorded in the lock file
2. Delete the lock file itself
Files in the output directory that cergen did not generate are left alone.`,
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
				pterm.Info.WithPrefix(pterm.Prefix{Text: "🧹"}).Printf("nothing to clean in %s\n", outputDir)
				return nil
			}

			for _, cert := range st.Certificates {
				path := filepath.Join(outputDir, cert.Filename)
				if err := os.Remove(path); err != nil {
					if os.IsNotExist(err) {
						pterm.Info.WithPrefix(pterm.Prefix{Text: "🧹"}).Printf("%s already gone\n", cert.Filename)
						continue
					}
					return errors.Errorf("removing %s: %w", path, err)
				}
				pterm.Success.WithPrefix(pterm.Prefix{Text: "🧹"}).Printf("removed %s\n", cert.Filename)
			}

			lockPath := filepath.Join(outputDir, state.LockFileName)
			if err := os.Remove(lockPath); err != nil && !os.IsNotExist(err) {
				return errors.Errorf("removing lock file: %w", err)
			}
			pterm.Success.WithPrefix(pterm.Prefix{Text: "✅"}).Printf("cleaned %s\n", outputDir)

			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "directory holding generated documents")

	return cmd
}
