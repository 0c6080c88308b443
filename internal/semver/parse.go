package semver

import (
	"fmt"
	"math"
)

// ParseError describes a failure to parse a version or a requirement.
type ParseError struct {
	Input   string // Text being parsed.
	Message string // Human-readable description.
	Offset  int    // Byte offset of the failure, or -1 if no position applies.
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Offset >= 0 {
		return fmt.Sprintf("semver: %s at position %d in %q", e.Message, e.Offset, e.Input)
	}
	return fmt.Sprintf("semver: %s in %q", e.Message, e.Input)
}

func newParseError(input string, offset int, format string, args ...any) *ParseError {
	return &ParseError{Input: input, Message: fmt.Sprintf(format, args...), Offset: offset}
}

// Parse parses a strict SemVer 2.0.0 version: MAJOR.MINOR.PATCH with optional
// "-PRE" and "+BUILD" sections. No prefix or surrounding whitespace is accepted.
func Parse(input string) (Version, error) {
	if input == "" {
		return Version{}, &ParseError{Input: input, Message: "empty string, expected a semver version", Offset: -1}
	}
	var (
		v   Version
		idx int
		err error
	)
	if v.Major, idx, err = numericIdentifier(input, 0, "major"); err != nil {
		return Version{}, err
	}
	if idx, err = expectDot(input, idx, "minor"); err != nil {
		return Version{}, err
	}
	if v.Minor, idx, err = numericIdentifier(input, idx, "minor"); err != nil {
		return Version{}, err
	}
	if idx, err = expectDot(input, idx, "patch"); err != nil {
		return Version{}, err
	}
	if v.Patch, idx, err = numericIdentifier(input, idx, "patch"); err != nil {
		return Version{}, err
	}
	if idx < len(input) && input[idx] == '-' {
		if v.pre, idx, err = parsePrerelease(input, idx+1); err != nil {
			return Version{}, err
		}
	}
	if idx < len(input) && input[idx] == '+' {
		if v.build, idx, err = parseBuild(input, idx+1); err != nil {
			return Version{}, err
		}
	}
	if idx != len(input) {
		return Version{}, newParseError(input, idx, "unexpected character %q after version", input[idx])
	}
	return v, nil
}

// numericIdentifier reads a major/minor/patch number starting at idx. Leading
// zeros and values beyond uint64 are rejected.
func numericIdentifier(input string, idx int, part string) (uint64, int, error) {
	start := idx
	var n uint64
	for idx < len(input) && isDigit(input[idx]) {
		if idx > start && input[start] == '0' {
			return 0, idx, newParseError(input, start, "invalid leading zero in %s version number", part)
		}
		d := uint64(input[idx] - '0')
		if n > (math.MaxUint64-d)/10 {
			return 0, idx, newParseError(input, start, "value of %s version number exceeds uint64", part)
		}
		n = n*10 + d
		idx++
	}
	if idx == start {
		if idx >= len(input) {
			return 0, idx, newParseError(input, idx, "unexpected end of input while parsing %s version number", part)
		}
		return 0, idx, newParseError(input, idx, "unexpected character %q while parsing %s version number", input[idx], part)
	}
	return n, idx, nil
}

func expectDot(input string, idx int, next string) (int, error) {
	if idx >= len(input) {
		return idx, newParseError(input, idx, "unexpected end of input while parsing %s version number", next)
	}
	if input[idx] != '.' {
		return idx, newParseError(input, idx, "unexpected character %q, expected '.' before %s version number", input[idx], next)
	}
	return idx + 1, nil
}

// parsePrerelease reads dot-separated pre-release identifiers starting at idx
// and stops at the first byte that cannot belong to an identifier.
func parsePrerelease(input string, idx int) ([]Identifier, int, error) {
	var ids []Identifier
	for {
		start := idx
		numeric := true
		for idx < len(input) && isIdentChar(input[idx]) {
			if !isDigit(input[idx]) {
				numeric = false
			}
			idx++
		}
		if idx == start {
			return nil, idx, newParseError(input, idx, "empty identifier segment in pre-release identifier")
		}
		if numeric && idx-start > 1 && input[start] == '0' {
			return nil, idx, newParseError(input, start, "invalid leading zero in pre-release identifier")
		}
		ids = append(ids, Identifier{Value: input[start:idx], Numeric: numeric})
		if idx < len(input) && input[idx] == '.' {
			idx++
			continue
		}
		return ids, idx, nil
	}
}

// parseBuild reads dot-separated build identifiers. Leading zeros are allowed.
func parseBuild(input string, idx int) ([]string, int, error) {
	var ids []string
	for {
		start := idx
		for idx < len(input) && isIdentChar(input[idx]) {
			idx++
		}
		if idx == start {
			return nil, idx, newParseError(input, idx, "empty identifier segment in build metadata")
		}
		ids = append(ids, input[start:idx])
		if idx < len(input) && input[idx] == '.' {
			idx++
			continue
		}
		return ids, idx, nil
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentChar(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '-'
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
