package recipe

import (
	"regexp"
	"strings"
)

// setVarRegex captures {% set key = "value" %} assignments
var setVarRegex = regexp.MustCompile(`\{%\s*set\s+(\w+)\s*=\s*"(.*?)"\s*%\}`)

// nameExprRegex matches a bare {{ var }} or {{ var|lower }} reference
var nameExprRegex = regexp.MustCompile(`^\{\{\s*(\w+)\s*(\|\s*lower\s*)?\}\}$`)

// topLevelKeyRegex matches an unindented mapping key like "requirements:"
var topLevelKeyRegex = regexp.MustCompile(`^([A-Za-z_][\w-]*):`)

// packageNameRegex matches the name line inside the package section
var packageNameRegex = regexp.MustCompile(`^(\s+)name:\s*(.*?)\s*$`)

// listItemRegex matches a requirement list entry
var listItemRegex = regexp.MustCompile(`^(\s*-\s+)(.*?)\s*$`)

// requirementTokenRegex separates a requirement's package token from its
// version constraints and selectors
var requirementTokenRegex = regexp.MustCompile(`[\s<>=!]`)

// RequirementName returns the bare package token of a requirement spec such
// as "numpy >=1.20" or "chardet>=3.0.2,<5".
func RequirementName(spec string) string {
	return requirementTokenRegex.Split(spec, 2)[0]
}

// ApplyPrefix rewrites a generated meta.yaml so the recipe name and every
// requirement naming one of the known packages carry the prefix. The Jinja
// name variable is left alone on purpose: it feeds the PyPI source URL,
// which must keep pointing at the unprefixed upstream package.
func ApplyPrefix(meta, prefix string, known []string) string {
	if prefix == "" {
		return meta
	}

	knownSet := make(map[string]bool, len(known))
	for _, name := range known {
		knownSet[name] = true
	}

	vars := make(map[string]string)
	for _, m := range setVarRegex.FindAllStringSubmatch(meta, -1) {
		vars[m[1]] = m[2]
	}

	lines := strings.Split(meta, "\n")
	section := ""
	renamed := false
	for i, line := range lines {
		if m := topLevelKeyRegex.FindStringSubmatch(line); m != nil {
			section = m[1]
			continue
		}

		switch section {
		case "package":
			if renamed {
				continue
			}
			if m := packageNameRegex.FindStringSubmatch(line); m != nil {
				lines[i] = m[1] + "name: " + prefix + resolveNameExpr(m[2], vars)
				renamed = true
			}
		case "requirements":
			m := listItemRegex.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			if knownSet[RequirementName(m[2])] {
				lines[i] = m[1] + prefix + m[2]
			}
		}
	}

	return strings.Join(lines, "\n")
}

// resolveNameExpr turns the raw name value into a plain string, resolving a
// {{ name }} or {{ name|lower }} reference against the captured variables.
// Anything else is already a literal.
func resolveNameExpr(value string, vars map[string]string) string {
	m := nameExprRegex.FindStringSubmatch(value)
	if m == nil {
		return value
	}
	resolved := vars[m[1]]
	if m[2] != "" {
		resolved = strings.ToLower(resolved)
	}
	return resolved
}
