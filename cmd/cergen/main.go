package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/abhipatel2005/cergen/cmd/cergen/opts"
	"github.com/abhipatel2005/cergen/pkg/log"
)

func main() {
	// Structured logs go to stderr so stdout stays pure JSON
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
	ctx := logger.WithContext(context.Background())

	console := log.New(os.Stderr, logger)

	o := &opts.RootOpts{Console: console}
	rootCmd := newRootCmd(o)

	// A bare invocation or one that starts with flags means generate
	rootCmd.SetArgs(defaultToGenerate(rootCmd, os.Args[1:]))

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		console.Error(fmt.Sprintf("cergen failed: %v", err))
		fail(err)
	}
}

// fail emits the error envelope on stdout and exits nonzero. Record-scoped
// failures never reach this path; only batch-level conditions do.
func fail(err error) {
	envelope := map[string]any{
		"success": false,
		"error":   err.Error(),
	}
	_ = json.NewEncoder(os.Stdout).Encode(envelope)
	os.Exit(1)
}

// defaultToGenerate rewrites the argument list so that an invocation without
// a subcommand runs generate, keeping `cergen --template x` working.
func defaultToGenerate(rootCmd *cobra.Command, args []string) []string {
	if len(args) == 0 {
		return []string{"generate"}
	}
	first := args[0]
	if first == "help" || first == "completion" || first == "-h" || first == "--help" {
		return args
	}
	if strings.HasPrefix(first, "-") {
		return append([]string{"generate"}, args...)
	}
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == first {
			return args
		}
		for _, alias := range cmd.Aliases {
			if alias == first {
				return args
			}
		}
	}
	return append([]string{"generate"}, args...)
}
