// Package template resolves a template reference to a local .pptx file. Plain
// paths are used in place; github:// references are fetched into a scratch
// directory first.
package template

import (
	"context"
	"os"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🔌 Source resolves a template reference to a local file path. dir is a
// scratch directory remote sources may download into.
type Source interface {
	Fetch(ctx context.Context, dir string) (string, error)
}

// 🏭 Factory builds a Source from a reference
type Factory func(ref string) (Source, error)

var (
	// 🗺️ factories maps reference schemes to source factories
	factories = make(map[string]Factory)
)

// 📝 Register registers a source factory for a scheme
func Register(scheme string, factory Factory) {
	factories[scheme] = factory
}

// 🎯 Resolve picks the source for a reference; references without a scheme
// are local paths.
func Resolve(ref string) (Source, error) {
	if ref == "" {
		return nil, errors.New("template reference is empty")
	}

	scheme, _, ok := strings.Cut(ref, "://")
	if !ok {
		return &Local{Path: ref}, nil
	}

	factory, found := factories[scheme]
	if !found {
		return nil, errors.Errorf("unknown template scheme: %s", scheme)
	}
	return factory(ref)
}

// 📄 Local serves a template that already sits on disk
type Local struct {
	Path string
}

// Fetch implements Source
func (l *Local) Fetch(ctx context.Context, dir string) (string, error) {
	info, err := os.Stat(l.Path)
	if err != nil {
		return "", errors.Errorf("template not found: %w", err)
	}
	if info.IsDir() {
		return "", errors.Errorf("template is a directory: %s", l.Path)
	}
	return l.Path, nil
}
