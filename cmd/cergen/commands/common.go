package commands

import (
	"context"
	"os"

	"gitlab.com/tozd/go/errors"

	"github.com/abhipatel2005/cergen/cmd/cergen/opts"
	"github.com/abhipatel2005/cergen/pkg/config"
)

// loadConfig reads the shared config file. The default config path is
// optional; a path the user named explicitly must exist.
func loadConfig(ctx context.Context, o *opts.RootOpts) (*config.Config, error) {
	if _, err := os.Stat(o.ConfigFile); err != nil {
		if os.IsNotExist(err) && !o.ConfigSet {
			return &config.Config{}, nil
		}
		return nil, errors.Errorf("config file %s: %w", o.ConfigFile, err)
	}
	return config.Load(ctx, o.ConfigFile)
}
