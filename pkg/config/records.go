package config

import (
	"context"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/abhipatel2005/cergen/pkg/batch"
)

// 📥 LoadRecords resolves the configured input into the final record list.
// Inline records come first, then record files in glob order; the legacy
// names list is used only when neither is present.
func (cfg *Config) LoadRecords(ctx context.Context) ([]batch.Record, error) {
	logger := zerolog.Ctx(ctx)

	records := make([]batch.Record, 0, len(cfg.Records))
	records = append(records, cfg.Records...)

	for _, pattern := range cfg.RecordFiles {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, errors.Errorf("expanding record file pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, errors.Errorf("record file pattern %q matched nothing", pattern)
		}
		sort.Strings(matches)

		for _, path := range matches {
			recs, err := readRecordFile(path)
			if err != nil {
				return nil, err
			}
			logger.Debug().Str("path", path).Int("records", len(recs)).Msg("loaded record file")
			records = append(records, recs...)
		}
	}

	if len(records) == 0 {
		records = batch.NamesToRecords(cfg.Names)
	}
	if len(records) == 0 {
		return nil, errors.New("no records to process")
	}

	return records, nil
}

// readRecordFile reads a JSON records file holding either an array of
// objects or a single object.
func readRecordFile(path string) ([]batch.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading records file: %w", err)
	}

	var recs []batch.Record
	if err := json.Unmarshal(data, &recs); err != nil {
		var rec batch.Record
		if err2 := json.Unmarshal(data, &rec); err2 != nil {
			return nil, errors.Errorf("parsing records file %s: %w", path, err)
		}
		recs = []batch.Record{rec}
	}
	return recs, nil
}

// 📝 ParseNames parses the --names flag value, a JSON array of strings
func ParseNames(raw string) ([]string, error) {
	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		return nil, errors.Errorf("parsing names: %w", err)
	}
	return names, nil
}

// 📝 ParseRecords parses the --data flag value, a JSON array of objects
func ParseRecords(raw string) ([]batch.Record, error) {
	var records []batch.Record
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, errors.Errorf("parsing records: %w", err)
	}
	return records, nil
}

// 📝 ParseAdditional parses the --additional flag value, a JSON object
func ParseAdditional(raw string) (map[string]any, error) {
	var additional map[string]any
	if err := json.Unmarshal([]byte(raw), &additional); err != nil {
		return nil, errors.Errorf("parsing additional data: %w", err)
	}
	return additional, nil
}
