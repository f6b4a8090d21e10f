package watch

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestJSONParser(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		content string
		want    string
		wantErr error
	}{
		{
			name:    "pypi release document",
			path:    "info.version",
			content: `{"info": {"version": "0.12.1", "name": "toolz"}}`,
			want:    "0.12.1",
		},
		{
			name:    "top level field",
			path:    "tag_name",
			content: `{"tag_name": "v1.2.3"}`,
			want:    "v1.2.3",
		},
		{
			name:    "array indexing",
			path:    "releases[0].tag",
			content: `{"releases": [{"tag": "2.0.0"}, {"tag": "1.9.0"}]}`,
			want:    "2.0.0",
		},
		{
			name:    "consecutive indexes",
			path:    "matrix[1][0]",
			content: `{"matrix": [["a"], ["3.1.4", "x"]]}`,
			want:    "3.1.4",
		},
		{
			name:    "integer version",
			path:    "version",
			content: `{"version": 2}`,
			want:    "2",
		},
		{
			name:    "float version",
			path:    "version",
			content: `{"version": 1.5}`,
			want:    "1.5",
		},
		{
			name:    "missing field",
			path:    "info.latest",
			content: `{"info": {"version": "0.12.1"}}`,
			wantErr: ErrJSONPathNotFound,
		},
		{
			name:    "field on a scalar",
			path:    "info.version",
			content: `{"info": "not an object"}`,
			wantErr: ErrJSONPathNotFound,
		},
		{
			name:    "index out of bounds",
			path:    "releases[5]",
			content: `{"releases": ["1.0.0"]}`,
			wantErr: ErrJSONPathNotFound,
		},
		{
			name:    "value is an object",
			path:    "info",
			content: `{"info": {"version": "0.12.1"}}`,
			wantErr: ErrJSONPathNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &JSONParser{Path: tt.path}
			got, err := p.Parse([]byte(tt.content))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestJSONParserRejectsBadPaths(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{name: "empty path", path: ""},
		{name: "leading bracket", path: "[0].version"},
		{name: "unclosed bracket", path: "releases[0"},
		{name: "non numeric index", path: "releases[x]"},
		{name: "negative index", path: "releases[-1]"},
		{name: "dots only", path: "."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &JSONParser{Path: tt.path}
			_, err := p.Parse([]byte(`{"releases": ["1.0.0"]}`))
			if !errors.Is(err, ErrInvalidJSONPath) {
				t.Errorf("expected ErrInvalidJSONPath, got %v", err)
			}
		})
	}
}

func TestJSONParserRejectsMalformedJSON(t *testing.T) {
	p := &JSONParser{Path: "version"}
	if _, err := p.Parse([]byte(`{"version": `)); err == nil {
		t.Error("expected an error for malformed JSON")
	}
}

func TestJSONParserProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	genVersion := gen.RegexMatch(`[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}`)

	properties.Property("a version planted at info.version is recovered verbatim", prop.ForAll(
		func(version string) bool {
			doc, err := json.Marshal(map[string]interface{}{
				"info": map[string]interface{}{"version": version},
			})
			if err != nil {
				return false
			}
			p := &JSONParser{Path: "info.version"}
			got, err := p.Parse(doc)
			return err == nil && got == version
		},
		genVersion,
	))

	properties.Property("array position addresses the planted element", prop.ForAll(
		func(version string, pad uint8) bool {
			releases := make([]string, int(pad%5)+1)
			for i := range releases {
				releases[i] = "0.0.0"
			}
			idx := len(releases) - 1
			releases[idx] = version
			doc, err := json.Marshal(map[string]interface{}{"releases": releases})
			if err != nil {
				return false
			}
			p := &JSONParser{Path: fmt.Sprintf("releases[%d]", idx)}
			got, err := p.Parse(doc)
			return err == nil && got == version
		},
		genVersion,
		gen.UInt8(),
	))

	properties.TestingRun(t)
}

func TestRegexParser(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		content string
		want    string
		wantErr error
	}{
		{
			name:    "capture group extraction",
			pattern: `version=([0-9.]+)`,
			content: "name=toolz\nversion=0.12.1\n",
			want:    "0.12.1",
		},
		{
			name:    "first match wins",
			pattern: `v([0-9.]+)`,
			content: "v2.0.0 supersedes v1.9.0",
			want:    "2.0.0",
		},
		{
			name:    "no match",
			pattern: `version=([0-9.]+)`,
			content: "nothing to see here",
			wantErr: ErrRegexNoMatch,
		},
		{
			name:    "empty capture",
			pattern: `version=([0-9.]*)`,
			content: "version=",
			wantErr: ErrRegexNoMatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &RegexParser{Pattern: tt.pattern}
			got, err := p.Parse([]byte(tt.content))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNewParser(t *testing.T) {
	tests := []struct {
		name    string
		src     Source
		wantErr error
	}{
		{
			name: "json",
			src:  Source{Parser: "json", Path: "info.version"},
		},
		{
			name: "regex",
			src:  Source{Parser: "regex", Pattern: `v([0-9.]+)`},
		},
		{
			name: "html with selector",
			src:  Source{Parser: "html", Selector: ".version"},
		},
		{
			name:    "regex with broken pattern",
			src:     Source{Parser: "regex", Pattern: `v([0-9.+`},
			wantErr: ErrInvalidRegexPattern,
		},
		{
			name:    "regex without capture group",
			src:     Source{Parser: "regex", Pattern: `v[0-9.]+`},
			wantErr: ErrNoCaptureGroup,
		},
		{
			name:    "unknown parser",
			src:     Source{Parser: "xml"},
			wantErr: ErrInvalidParserType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewParser(tt.src)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p == nil {
				t.Error("expected a parser")
			}
		})
	}
}
