package opts

import (
	"github.com/abhipatel2005/cergen/pkg/log"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	// ConfigFile is the config file path from --config
	ConfigFile string
	// ConfigSet is true when --config was passed explicitly, which makes a
	// missing file an error instead of a fallback to flag-only operation
	ConfigSet bool
	// Console renders human progress on stderr
	Console *log.Logger
}
