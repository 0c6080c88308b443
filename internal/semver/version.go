// Package semver implements strict SemVer 2.0.0 versions and cargo-style range
// requirements built from comparators.
package semver

import (
	"strconv"
	"strings"
)

// Identifier is a single dot-separated pre-release identifier.
type Identifier struct {
	Value   string // Identifier text as written.
	Numeric bool   // Digits only; compared by numeric value.
}

// Version is a parsed semantic version. The zero value is 0.0.0.
// Values are immutable once constructed; use Parse or New.
type Version struct {
	Major uint64
	Minor uint64
	Patch uint64
	pre   []Identifier
	build []string
}

// New builds a version from its numeric fields plus optional pre-release and
// build metadata text. Empty pre or build means "none". Malformed pre-release
// or build text yields a *ParseError.
func New(major, minor, patch uint64, pre, build string) (Version, error) {
	v := Version{Major: major, Minor: minor, Patch: patch}
	if pre != "" {
		ids, idx, err := parsePrerelease(pre, 0)
		if err != nil {
			return Version{}, err
		}
		if idx != len(pre) {
			return Version{}, newParseError(pre, idx, "unexpected character %q in pre-release", pre[idx])
		}
		v.pre = ids
	}
	if build != "" {
		ids, idx, err := parseBuild(build, 0)
		if err != nil {
			return Version{}, err
		}
		if idx != len(build) {
			return Version{}, newParseError(build, idx, "unexpected character %q in build metadata", build[idx])
		}
		v.build = ids
	}
	return v, nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Compare returns -1, 0 or 1 as a is less than, equal to, or greater than b
// under SemVer precedence. Build metadata is ignored.
func Compare(a, b Version) int {
	return a.Compare(b)
}

// Compare compares v against other under SemVer precedence.
func (v Version) Compare(other Version) int {
	if c := compareUint(v.Major, other.Major); c != 0 {
		return c
	}
	if c := compareUint(v.Minor, other.Minor); c != 0 {
		return c
	}
	if c := compareUint(v.Patch, other.Patch); c != 0 {
		return c
	}
	return comparePrerelease(v.pre, other.pre)
}

// Equal reports whether v and other have the same precedence.
func (v Version) Equal(other Version) bool {
	return v.Compare(other) == 0
}

// LessThan reports whether v sorts before other.
func (v Version) LessThan(other Version) bool {
	return v.Compare(other) < 0
}

// GreaterThan reports whether v sorts after other.
func (v Version) GreaterThan(other Version) bool {
	return v.Compare(other) > 0
}

// IsPrerelease reports whether v carries pre-release identifiers.
func (v Version) IsPrerelease() bool {
	return len(v.pre) > 0
}

// Prerelease returns the pre-release identifiers. Treat as read-only.
func (v Version) Prerelease() []Identifier {
	return v.pre
}

// Build returns the build metadata identifiers. Treat as read-only.
func (v Version) Build() []string {
	return v.build
}

// PrereleaseString returns the pre-release section without the leading '-'.
func (v Version) PrereleaseString() string {
	return joinIdentifiers(v.pre)
}

// BuildString returns the build metadata section without the leading '+'.
func (v Version) BuildString() string {
	return strings.Join(v.build, ".")
}

// String renders v as MAJOR.MINOR.PATCH[-PRE][+BUILD].
func (v Version) String() string {
	var b strings.Builder
	b.Grow(16)
	b.WriteString(strconv.FormatUint(v.Major, 10))
	b.WriteByte('.')
	b.WriteString(strconv.FormatUint(v.Minor, 10))
	b.WriteByte('.')
	b.WriteString(strconv.FormatUint(v.Patch, 10))
	if len(v.pre) > 0 {
		b.WriteByte('-')
		b.WriteString(joinIdentifiers(v.pre))
	}
	if len(v.build) > 0 {
		b.WriteByte('+')
		b.WriteString(v.BuildString())
	}
	return b.String()
}

func compareUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// comparePrerelease orders identifier sequences. An empty sequence (a
// release) sorts after every non-empty one.
func comparePrerelease(a, b []Identifier) int {
	switch {
	case len(a) == 0 && len(b) == 0:
		return 0
	case len(a) == 0:
		return 1
	case len(b) == 0:
		return -1
	}
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := compareIdentifier(a[i], b[i]); c != 0 {
			return c
		}
	}
	return compareUint(uint64(len(a)), uint64(len(b)))
}

func compareIdentifier(a, b Identifier) int {
	switch {
	case a.Numeric && b.Numeric:
		// No leading zeros, so a longer digit string is a larger number.
		if c := compareUint(uint64(len(a.Value)), uint64(len(b.Value))); c != 0 {
			return c
		}
		return strings.Compare(a.Value, b.Value)
	case a.Numeric:
		return -1
	case b.Numeric:
		return 1
	}
	return strings.Compare(a.Value, b.Value)
}

func joinIdentifiers(ids []Identifier) string {
	switch len(ids) {
	case 0:
		return ""
	case 1:
		return ids[0].Value
	}
	var b strings.Builder
	for i, id := range ids {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(id.Value)
	}
	return b.String()
}

// MarshalBinary encodes v as its canonical text, build metadata included.
func (v Version) MarshalBinary() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalBinary decodes text produced by MarshalBinary.
func (v *Version) UnmarshalBinary(data []byte) error {
	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
