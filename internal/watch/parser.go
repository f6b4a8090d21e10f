package watch

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrJSONPathNotFound flags a path that does not resolve in the document.
	ErrJSONPathNotFound = errors.New("JSON path not found in response")
	// ErrRegexNoMatch flags a pattern that matched nothing in the content.
	ErrRegexNoMatch = errors.New("regex pattern did not match")
	// ErrNoVersionFound flags a package whose sources all failed.
	ErrNoVersionFound = errors.New("could not extract version from upstream")
	// ErrInvalidJSONPath flags bad path syntax in an override.
	ErrInvalidJSONPath = errors.New("invalid JSON path syntax")
	// ErrInvalidRegexPattern flags a pattern that does not compile.
	ErrInvalidRegexPattern = errors.New("invalid regex pattern")
	// ErrNoCaptureGroup flags a regex override with nothing to extract.
	ErrNoCaptureGroup = errors.New("regex pattern must contain at least one capture group")
)

// Parser extracts a version string from fetched content.
type Parser interface {
	Parse(content []byte) (string, error)
}

// NewParser builds the parser a source asks for. Regex patterns are compiled
// up front so a broken override fails before any network traffic.
func NewParser(src Source) (Parser, error) {
	switch src.Parser {
	case "json":
		return &JSONParser{Path: src.Path}, nil
	case "regex":
		re, err := regexp.Compile(src.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRegexPattern, err)
		}
		if re.NumSubexp() < 1 {
			return nil, ErrNoCaptureGroup
		}
		return &RegexParser{Pattern: src.Pattern, compiled: re}, nil
	case "html":
		return NewHTMLParser(src.Selector, src.XPath, src.Pattern)
	default:
		return nil, fmt.Errorf("%w: got %q", ErrInvalidParserType, src.Parser)
	}
}

// JSONParser extracts the version at a dot-and-bracket path, so
// "info.version" and "releases[0].tag" both work.
type JSONParser struct {
	Path string

	steps []jsonStep // compiled from Path on first Parse
}

func (p *JSONParser) Parse(content []byte) (string, error) {
	if p.steps == nil {
		steps, err := compileJSONPath(p.Path)
		if err != nil {
			return "", err
		}
		p.steps = steps
	}

	var doc interface{}
	if err := json.Unmarshal(content, &doc); err != nil {
		return "", fmt.Errorf("failed to parse JSON: %w", err)
	}

	v := doc
	for _, s := range p.steps {
		var err error
		if v, err = s.apply(v); err != nil {
			return "", err
		}
	}

	version, ok := scalarString(v)
	if !ok {
		return "", fmt.Errorf("%w: value at path is not a string", ErrJSONPathNotFound)
	}
	return version, nil
}

// jsonStep is one descent in a path: either a field lookup or an
// array index.
type jsonStep struct {
	field string
	index int
	kind  stepKind
}

type stepKind uint8

const (
	stepField stepKind = iota
	stepIndex
)

func (s jsonStep) apply(v interface{}) (interface{}, error) {
	switch s.kind {
	case stepIndex:
		arr, ok := v.([]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: expected array at index %d", ErrJSONPathNotFound, s.index)
		}
		if s.index >= len(arr) {
			return nil, fmt.Errorf("%w: array index %d out of bounds (length %d)", ErrJSONPathNotFound, s.index, len(arr))
		}
		return arr[s.index], nil
	default:
		obj, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: expected object at %q", ErrJSONPathNotFound, s.field)
		}
		val, exists := obj[s.field]
		if !exists {
			return nil, fmt.Errorf("%w: field %q not found", ErrJSONPathNotFound, s.field)
		}
		return val, nil
	}
}

// compileJSONPath scans a path like "data.releases[0].tag" into steps.
// An index may only follow a field name or another index.
func compileJSONPath(path string) ([]jsonStep, error) {
	var steps []jsonStep

	i := 0
	for i < len(path) {
		switch path[i] {
		case '.':
			i++

		case '[':
			if i == 0 || path[i-1] == '.' {
				return nil, fmt.Errorf("%w: unexpected '[' at start", ErrInvalidJSONPath)
			}
			end := strings.IndexByte(path[i:], ']')
			if end < 0 {
				return nil, fmt.Errorf("%w: unclosed bracket", ErrInvalidJSONPath)
			}
			raw := path[i+1 : i+end]
			index, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid array index %q", ErrInvalidJSONPath, raw)
			}
			if index < 0 {
				return nil, fmt.Errorf("%w: negative array index", ErrInvalidJSONPath)
			}
			steps = append(steps, jsonStep{kind: stepIndex, index: index})
			i += end + 1

		default:
			start := i
			for i < len(path) && path[i] != '.' && path[i] != '[' {
				i++
			}
			steps = append(steps, jsonStep{kind: stepField, field: path[start:i]})
		}
	}

	if len(steps) == 0 {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidJSONPath)
	}
	return steps, nil
}

// scalarString renders scalar JSON values; release numbers sometimes
// arrive as bare numbers rather than strings.
func scalarString(v interface{}) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10), true
		}
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(val), true
	default:
		return "", false
	}
}

// RegexParser extracts the first capture group of a pattern.
type RegexParser struct {
	Pattern  string
	compiled *regexp.Regexp
}

func (p *RegexParser) Parse(content []byte) (string, error) {
	re, err := p.re()
	if err != nil {
		return "", err
	}

	matches := re.FindSubmatch(content)
	if len(matches) < 2 {
		return "", ErrRegexNoMatch
	}

	version := string(matches[1])
	if version == "" {
		return "", fmt.Errorf("%w: capture group matched empty string", ErrRegexNoMatch)
	}
	return version, nil
}

func (p *RegexParser) re() (*regexp.Regexp, error) {
	if p.compiled != nil {
		return p.compiled, nil
	}
	if p.Pattern == "" {
		return nil, ErrInvalidRegexPattern
	}
	re, err := regexp.Compile(p.Pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRegexPattern, err)
	}
	if re.NumSubexp() < 1 {
		return nil, ErrNoCaptureGroup
	}
	p.compiled = re
	return re, nil
}
