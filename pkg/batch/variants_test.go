package batch

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abhipatel2005/cergen/pkg/pptx"
)

func TestVariants(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
		want  map[string]string
	}{
		{
			name:  "lowercase_key",
			key:   "name",
			value: "ana maría",
			want: map[string]string{
				"{{name}}": "ana maría",
				"{{NAME}}": "ANA MARÍA",
				"{{Name}}": "Ana María",
			},
		},
		{
			name:  "uppercase_key_collapses_with_title",
			key:   "DATE",
			value: "2024-01-01",
			want: map[string]string{
				"{{DATE}}": "2024-01-01",
				"{{Date}}": "2024-01-01",
				"{{date}}": "2024-01-01",
			},
		},
		{
			name:  "mixed_case_value_on_lowercase_key_stays_verbatim",
			key:   "name",
			value: "Ana",
			want: map[string]string{
				"{{name}}": "Ana",
				"{{NAME}}": "ANA",
				"{{Name}}": "Ana",
			},
		},
		{
			name:  "mixed_case_value_on_uppercase_key_stays_verbatim",
			key:   "DATE",
			value: "Hello",
			want: map[string]string{
				"{{DATE}}": "Hello",
				"{{Date}}": "Hello",
				"{{date}}": "hello",
			},
		},
		{
			name:  "numeric_value",
			key:   "year",
			value: float64(2024),
			want: map[string]string{
				"{{year}}": "2024",
				"{{YEAR}}": "2024",
				"{{Year}}": "2024",
			},
		},
		{
			name:  "multi_word_key",
			key:   "course name",
			value: "intro to go",
			want: map[string]string{
				"{{course name}}": "intro to go",
				"{{COURSE NAME}}": "INTRO TO GO",
				"{{Course Name}}": "Intro To Go",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Variants(tt.key, tt.value))
		})
	}
}

func TestBuildReplacements(t *testing.T) {
	tests := []struct {
		name       string
		rec        Record
		additional map[string]any
		want       pptx.ReplacementMap
	}{
		{
			name: "record_fields_expand_to_casings",
			rec:  Record{"name": "ana"},
			want: pptx.ReplacementMap{
				"{{name}}": "ana",
				"{{NAME}}": "ANA",
				"{{Name}}": "Ana",
			},
		},
		{
			name: "null_record_field_is_skipped",
			rec:  Record{"name": "ana", "course": nil},
			want: pptx.ReplacementMap{
				"{{name}}": "ana",
				"{{NAME}}": "ANA",
				"{{Name}}": "Ana",
			},
		},
		{
			name:       "additional_data_is_merged",
			rec:        Record{"name": "ana"},
			additional: map[string]any{"course": "go"},
			want: pptx.ReplacementMap{
				"{{name}}":   "ana",
				"{{NAME}}":   "ANA",
				"{{Name}}":   "Ana",
				"{{course}}": "go",
				"{{COURSE}}": "GO",
				"{{Course}}": "Go",
			},
		},
		{
			name:       "field_mappings_metadata_is_excluded",
			rec:        Record{},
			additional: map[string]any{"fieldMappings": map[string]any{"a": "b"}, "course": "go"},
			want: pptx.ReplacementMap{
				"{{course}}": "go",
				"{{COURSE}}": "GO",
				"{{Course}}": "Go",
			},
		},
		{
			name:       "empty_additional_value_is_skipped",
			rec:        Record{},
			additional: map[string]any{"course": "", "instructor": nil},
			want:       pptx.ReplacementMap{},
		},
		{
			name:       "additional_overrides_record_on_collision",
			rec:        Record{"course": "record"},
			additional: map[string]any{"course": "shared"},
			want: pptx.ReplacementMap{
				"{{course}}": "shared",
				"{{COURSE}}": "SHARED",
				"{{Course}}": "Shared",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildReplacements(tt.rec, tt.additional))
		})
	}
}

func TestSafeStem(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain_name", input: "Jane Doe", want: "Jane_Doe"},
		{name: "punctuation_is_stripped", input: "Jane O'Brien!!", want: "Jane_OBrien"},
		{name: "hyphen_and_underscore_survive", input: "mary-jane_smith", want: "mary-jane_smith"},
		{name: "trailing_whitespace_is_trimmed", input: "Ana  ", want: "Ana"},
		{name: "unicode_letters_survive", input: "José Núñez", want: "José_Núñez"},
		{name: "only_punctuation", input: "!!!", want: ""},
		{name: "idempotent", input: "Jane_OBrien", want: "Jane_OBrien"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeStem(tt.input))
		})
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want string
	}{
		{name: "lowercase_name", rec: Record{"name": "Ana"}, want: "Ana"},
		{name: "title_case_key", rec: Record{"Name": "Bob"}, want: "Bob"},
		{name: "upper_case_key", rec: Record{"NAME": "Carol"}, want: "Carol"},
		{name: "missing_name_falls_back", rec: Record{"course": "go"}, want: "certificate"},
		{name: "null_name_falls_back", rec: Record{"name": nil}, want: "certificate"},
		{name: "numeric_name_is_stringified", rec: Record{"name": float64(42)}, want: "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayName(tt.rec))
		})
	}
}
