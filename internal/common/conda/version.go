// Package conda holds helpers for working with conda package versions.
package conda

import (
	"regexp"
	"strconv"
	"strings"
)

// Pre- and post-release marker priorities (lower = earlier in release cycle)
var markerPriority = map[string]int{
	"dev":   -4,
	"alpha": -3,
	"beta":  -2,
	"rc":    -1,
	"":      0, // final release
	"post":  1,
}

// markerAliases maps the short and alternative spellings PyPI accepts onto
// the canonical marker names.
var markerAliases = map[string]string{
	"a":       "alpha",
	"b":       "beta",
	"c":       "rc",
	"pre":     "rc",
	"preview": "rc",
	"r":       "post",
	"rev":     "post",
}

// markerRegex matches a trailing release marker like .dev1, rc2, .post1, a3
var markerRegex = regexp.MustCompile(`[._-]?(dev|alpha|beta|preview|pre|rc|post|rev|a|b|c|r)[._-]?(\d*)$`)

// epochRegex matches a leading epoch like 1!2.0
var epochRegex = regexp.MustCompile(`^(\d+)!`)

// parsed is a version string broken into its ordered components.
type parsed struct {
	epoch     int
	nums      []int
	marker    string // canonical marker name, "" for a final release
	markerNum int
}

func parseVersion(v string) parsed {
	v = strings.ToLower(strings.TrimSpace(v))

	// Drop the local build segment (1.2.3+cuda11) entirely
	if i := strings.IndexByte(v, '+'); i >= 0 {
		v = v[:i]
	}

	var p parsed

	if m := epochRegex.FindStringSubmatch(v); m != nil {
		p.epoch, _ = strconv.Atoi(m[1])
		v = v[len(m[0]):]
	}

	if m := markerRegex.FindStringSubmatch(v); m != nil {
		p.marker = m[1]
		if canonical, ok := markerAliases[p.marker]; ok {
			p.marker = canonical
		}
		if m[2] != "" {
			p.markerNum, _ = strconv.Atoi(m[2])
		}
		v = v[:len(v)-len(m[0])]
	}

	// Numeric parts: 1.0.1 -> [1, 0, 1]. Underscore and dash separate
	// segments the same way a dot does.
	fields := strings.FieldsFunc(v, func(r rune) bool {
		return r == '.' || r == '_' || r == '-'
	})
	p.nums = make([]int, len(fields))
	for i, f := range fields {
		// Letter garnish in segments (1.0h) does not order releases here.
		f = strings.TrimRight(f, "abcdefghijklmnopqrstuvwxyz")
		p.nums[i], _ = strconv.Atoi(f)
	}

	return p
}

// compareInt orders two ints as -1, 0 or 1.
func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// compareNums walks both numeric sequences together, padding the shorter
// one with zeros so 1.2 == 1.2.0.
func compareNums(a, b []int) int {
	for i := 0; i < len(a) || i < len(b); i++ {
		var av, bv int
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		if c := compareInt(av, bv); c != 0 {
			return c
		}
	}
	return 0
}

// CompareVersions orders two conda-style version strings, returning -1
// when v1 is older, 1 when newer and 0 when they are the same release.
// Epoch wins over the numeric parts, which win over the release marker
// (dev < alpha < beta < rc < final < post).
func CompareVersions(v1, v2 string) int {
	a := parseVersion(v1)
	b := parseVersion(v2)

	if c := compareInt(a.epoch, b.epoch); c != 0 {
		return c
	}
	if c := compareNums(a.nums, b.nums); c != 0 {
		return c
	}
	if c := compareInt(markerPriority[a.marker], markerPriority[b.marker]); c != 0 {
		return c
	}
	return compareInt(a.markerNum, b.markerNum)
}
