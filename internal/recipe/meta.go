package recipe

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// substitutionRegex matches any {{ ... }} expression
var substitutionRegex = regexp.MustCompile(`\{\{(.*?)\}\}`)

// directiveRegex matches any {% ... %} block
var directiveRegex = regexp.MustCompile(`\{%.*?%\}`)

// plainExprRegex matches the expressions worth evaluating: a variable
// reference with an optional lower filter
var plainExprRegex = regexp.MustCompile(`^(\w+)(\s*\|\s*lower)?$`)

// Render evaluates the Jinja subset grayskull templates actually use:
// {% set key = "value" %} assignments feed {{ key }} and {{ key|lower }}
// substitutions. Unknown expressions render empty and leftover directive
// blocks drop, which is enough to turn a recipe template into plain YAML.
func Render(src string) string {
	vars := make(map[string]string)
	for _, m := range setVarRegex.FindAllStringSubmatch(src, -1) {
		vars[m[1]] = m[2]
	}

	out := substitutionRegex.ReplaceAllStringFunc(src, func(expr string) string {
		inner := strings.TrimSpace(expr[2 : len(expr)-2])
		m := plainExprRegex.FindStringSubmatch(inner)
		if m == nil {
			return ""
		}
		value, ok := vars[m[1]]
		if !ok {
			return ""
		}
		if m[2] != "" {
			value = strings.ToLower(value)
		}
		return value
	})

	return directiveRegex.ReplaceAllString(out, "")
}

// Meta is the slice of a rendered meta.yaml the builder cares about.
type Meta struct {
	Package struct {
		Name string `yaml:"name"`
	} `yaml:"package"`
	Requirements map[string][]string `yaml:"requirements"`
}

// ParseMeta renders a meta.yaml template and unmarshals the result.
func ParseMeta(src string) (*Meta, error) {
	var meta Meta
	if err := yaml.Unmarshal([]byte(Render(src)), &meta); err != nil {
		return nil, fmt.Errorf("parse rendered meta.yaml: %w", err)
	}
	return &meta, nil
}

// RequirementNames returns the bare package tokens across every requirement
// section, deduplicated, with sections visited in sorted order so the result
// is stable.
func (m *Meta) RequirementNames() []string {
	sections := make([]string, 0, len(m.Requirements))
	for section := range m.Requirements {
		sections = append(sections, section)
	}
	sort.Strings(sections)

	seen := make(map[string]bool)
	var names []string
	for _, section := range sections {
		for _, spec := range m.Requirements[section] {
			name := RequirementName(spec)
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}
