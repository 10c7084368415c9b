package semver

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/52north/docker-build/internal/model"
)

// semverRegex matches the full input only: optional leading "v", one or more
// dot-separated numeric groups, then an optional pre-release label made of
// dot-separated alphanumeric/dash groups introduced by a dash.
var semverRegex = regexp.MustCompile(`^v?[0-9]+(\.[0-9]+)*(-[0-9A-Za-z-]+(\.[0-9A-Za-z-]+)*)?$`)

// SemVer is a parsed version string. Components that were absent from the
// input are zero; Original preserves the input form, including any "v"
// prefix and pre-release label.
type SemVer struct {
	Major      uint
	Minor      uint
	Patch      uint
	PreRelease model.OptionalString
	Original   string
}

// IsSemVer reports whether s is a version string in the accepted grammar.
// Partial matches do not count: "version-1.2.3" and "1.2.3 " are rejected.
func IsSemVer(s string) bool {
	return semverRegex.MatchString(s)
}

// Parse parses a version string into its components. A leading "v" is
// stripped, everything after the first dash is the pre-release label (it may
// itself contain dots and dashes), and the remainder is split on dots into
// numeric components with missing components defaulting to zero.
//
// Parse assumes s has been classified by IsSemVer; non-numeric components
// in unclassified input simply parse as zero.
func Parse(s string) SemVer {
	v := SemVer{Original: s}

	core := strings.TrimPrefix(s, "v")
	if dash := strings.Index(core, "-"); dash >= 0 {
		v.PreRelease = model.StringOf(core[dash+1:])
		core = core[:dash]
	}

	parts := strings.Split(core, ".")
	v.Major = componentAt(parts, 0)
	v.Minor = componentAt(parts, 1)
	v.Patch = componentAt(parts, 2)
	return v
}

// Label returns the pre-release label of s, or absent if s has none.
func Label(s string) model.OptionalString {
	return Parse(s).PreRelease
}

// IsPreRelease reports whether s carries a non-empty pre-release label.
// Pre-release versions are never expanded into rollup tags.
func (v SemVer) IsPreRelease() bool {
	return v.PreRelease.Present() && v.PreRelease.Value() != ""
}

// componentAt returns the numeric component at index i, or zero when the
// index is beyond the parsed components.
func componentAt(parts []string, i int) uint {
	if i >= len(parts) {
		return 0
	}
	n, err := strconv.ParseUint(parts[i], 10, 64)
	if err != nil {
		return 0
	}
	return uint(n)
}
