// Package state tracks what a batch run produced. A .cergen.lock file in the
// output directory records the template content hash and every generated
// certificate, which lets `cergen status` tell whether outputs predate the
// current template and `cergen clean` remove exactly what cergen created.
package state

import (
	"context"
	"encoding/hex"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/zeebo/blake3"
	"gitlab.com/tozd/go/errors"

	"github.com/abhipatel2005/cergen/pkg/batch"
)

// LockFileName is the state file written into the output directory
const LockFileName = ".cergen.lock"

// 📦 State is the persisted outcome of the most recent batch run
type State struct {
	LastUpdated  time.Time `json:"last_updated"`
	TemplateRef  string    `json:"template_ref"`
	TemplateHash string    `json:"template_hash"`
	RunID        string    `json:"run_id"`

	// Certificates tracks every generated output file
	Certificates []Certificate `json:"certificates"`
}

// 📄 Certificate is one generated output file
type Certificate struct {
	Name         string    `json:"name"`
	Filename     string    `json:"filename"`
	Replacements int       `json:"replacements"`
	CreatedAt    time.Time `json:"created_at"`
}

// 🔑 HashTemplate returns the hex blake3 hash of the template's content
func HashTemplate(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Errorf("reading template: %w", err)
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// 🎯 Load reads the lock file from dir. A missing lock file yields an empty
// state, not an error.
func Load(ctx context.Context, dir string) (*State, error) {
	path := filepath.Join(dir, LockFileName)
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading state")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &State{}, nil
		}
		return nil, errors.Errorf("reading lock file: %w", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, errors.Errorf("parsing lock file: %w", err)
	}
	return &st, nil
}

// 💾 Save writes the lock file into dir
func (s *State) Save(ctx context.Context, dir string) error {
	path := filepath.Join(dir, LockFileName)
	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("writing state")

	s.LastUpdated = time.Now().UTC()

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return errors.Errorf("encoding state: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Errorf("writing lock file: %w", err)
	}
	return nil
}

// 📝 Put records one successful result, replacing any earlier entry for the
// same filename. Failed results are not recorded.
func (s *State) Put(res batch.Result) {
	if !res.Success {
		return
	}

	cert := Certificate{
		Name:         res.Name,
		Filename:     res.Filename,
		Replacements: res.ReplacementsMade,
		CreatedAt:    time.Now().UTC(),
	}

	for i, existing := range s.Certificates {
		if existing.Filename == cert.Filename {
			s.Certificates[i] = cert
			return
		}
	}
	s.Certificates = append(s.Certificates, cert)
}

// 🔍 IsStale reports whether recorded outputs were generated from a template
// other than the one hashing to templateHash. An empty state is never stale.
func (s *State) IsStale(templateHash string) bool {
	return s.TemplateHash != "" && s.TemplateHash != templateHash
}
