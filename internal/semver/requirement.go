package semver

import (
	"strconv"
	"strings"
)

// Op is the operator of a single comparator.
type Op int

const (
	OpExact     Op = iota // =I.J.K
	OpGreater             // >I.J.K
	OpGreaterEq           // >=I.J.K
	OpLess                // <I.J.K
	OpLessEq              // <=I.J.K
	OpTilde               // ~I.J.K
	OpCaret               // ^I.J.K, also the default for a bare version
	OpWildcard            // I.J.* or I.*
)

var opNames = [...]string{
	OpExact:     "exact",
	OpGreater:   "greater",
	OpGreaterEq: "greater_eq",
	OpLess:      "less",
	OpLessEq:    "less_eq",
	OpTilde:     "tilde",
	OpCaret:     "caret",
	OpWildcard:  "wildcard",
}

var opSymbols = [...]string{
	OpExact:     "=",
	OpGreater:   ">",
	OpGreaterEq: ">=",
	OpLess:      "<",
	OpLessEq:    "<=",
	OpTilde:     "~",
	OpCaret:     "^",
	OpWildcard:  "",
}

// String returns the lowercase operator name, e.g. "greater_eq".
func (op Op) String() string {
	if op < 0 || int(op) >= len(opNames) {
		return "Op(" + strconv.Itoa(int(op)) + ")"
	}
	return opNames[op]
}

// maxComparators bounds the number of comparators in one requirement.
const maxComparators = 32

// Comparator is one operator plus partial version clause of a requirement.
// An omitted minor or patch is a wildcard for that position.
type Comparator struct {
	Op       Op
	Major    uint64
	Minor    uint64
	Patch    uint64
	HasMinor bool
	HasPatch bool
	Pre      []Identifier // Empty means no pre-release constraint.
}

// PrereleaseString returns the comparator's pre-release text, or "".
func (c Comparator) PrereleaseString() string {
	return joinIdentifiers(c.Pre)
}

// String renders the comparator in requirement syntax.
func (c Comparator) String() string {
	var b strings.Builder
	b.WriteString(opSymbols[c.Op])
	b.WriteString(strconv.FormatUint(c.Major, 10))
	switch {
	case c.HasMinor:
		b.WriteByte('.')
		b.WriteString(strconv.FormatUint(c.Minor, 10))
	case c.Op == OpWildcard:
		b.WriteString(".*")
		return b.String()
	}
	switch {
	case c.HasPatch:
		b.WriteByte('.')
		b.WriteString(strconv.FormatUint(c.Patch, 10))
	case c.Op == OpWildcard:
		b.WriteString(".*")
	}
	if len(c.Pre) > 0 {
		b.WriteByte('-')
		b.WriteString(joinIdentifiers(c.Pre))
	}
	return b.String()
}

// Requirement is a conjunction of comparators, in source order. A requirement
// with no comparators ("*") accepts every release.
type Requirement struct {
	raw         string
	Comparators []Comparator
}

// String returns the text the requirement was parsed from.
func (r *Requirement) String() string {
	return r.raw
}

// ParseRequirement parses a requirement such as ">=1.2, <2.0" or "^0.3 ~0.3.1".
// Comparators are separated by commas, whitespace, or both.
func ParseRequirement(input string) (*Requirement, error) {
	p := reqParser{input: input}
	p.skipSpace()
	if p.eof() {
		return nil, &ParseError{Input: input, Message: "empty string, expected a semver version", Offset: -1}
	}
	if isWildcard(p.peek()) {
		at := p.idx
		p.idx++
		p.skipSpace()
		if p.eof() {
			return &Requirement{raw: input}, nil
		}
		if p.peek() == ',' {
			return nil, newParseError(input, at, "wildcard req (%c) must be the only comparator in the version req", input[at])
		}
		return nil, newParseError(input, p.idx, "unexpected character after wildcard in version req")
	}

	req := &Requirement{raw: input}
	for {
		c, err := p.comparator()
		if err != nil {
			return nil, err
		}
		req.Comparators = append(req.Comparators, c)

		spaced := p.skipSpace()
		if p.eof() {
			return req, nil
		}
		switch {
		case p.peek() == ',':
			p.idx++
			p.skipSpace()
			if p.eof() {
				return nil, newParseError(input, p.idx, "unexpected end of input after ','")
			}
		case !spaced:
			return nil, newParseError(input, p.idx, "expected comma after version, found %q", p.peek())
		}
		if len(req.Comparators) == maxComparators {
			return nil, newParseError(input, p.idx, "excessive number of version comparators")
		}
	}
}

type reqParser struct {
	input string
	idx   int
}

func (p *reqParser) eof() bool  { return p.idx >= len(p.input) }
func (p *reqParser) peek() byte { return p.input[p.idx] }

// skipSpace advances over whitespace and reports whether any was consumed.
func (p *reqParser) skipSpace() bool {
	start := p.idx
	for !p.eof() && isSpace(p.peek()) {
		p.idx++
	}
	return p.idx > start
}

// op consumes an operator. explicit is false when none was written and the
// caret default applies.
func (p *reqParser) op() (op Op, explicit bool) {
	rest := p.input[p.idx:]
	switch {
	case strings.HasPrefix(rest, ">="):
		p.idx += 2
		return OpGreaterEq, true
	case strings.HasPrefix(rest, "<="):
		p.idx += 2
		return OpLessEq, true
	case strings.HasPrefix(rest, "="):
		p.idx++
		return OpExact, true
	case strings.HasPrefix(rest, ">"):
		p.idx++
		return OpGreater, true
	case strings.HasPrefix(rest, "<"):
		p.idx++
		return OpLess, true
	case strings.HasPrefix(rest, "~"):
		p.idx++
		return OpTilde, true
	case strings.HasPrefix(rest, "^"):
		p.idx++
		return OpCaret, true
	}
	return OpCaret, false
}

func (p *reqParser) comparator() (Comparator, error) {
	var (
		c        Comparator
		explicit bool
		err      error
	)
	c.Op, explicit = p.op()
	p.skipSpace()

	if c.Major, p.idx, err = numericIdentifier(p.input, p.idx, "major"); err != nil {
		return Comparator{}, err
	}

	wildcard := false
	if p.consume('.') {
		if !p.eof() && isWildcard(p.peek()) {
			p.idx++
			wildcard = true
			if !explicit {
				c.Op = OpWildcard
			}
		} else {
			if c.Minor, p.idx, err = numericIdentifier(p.input, p.idx, "minor"); err != nil {
				return Comparator{}, err
			}
			c.HasMinor = true
		}
	}

	if p.consume('.') {
		switch {
		case !p.eof() && isWildcard(p.peek()):
			p.idx++
			if !explicit {
				c.Op = OpWildcard
			}
		case wildcard:
			return Comparator{}, newParseError(p.input, p.idx, "unexpected character after wildcard in version req")
		default:
			if c.Patch, p.idx, err = numericIdentifier(p.input, p.idx, "patch"); err != nil {
				return Comparator{}, err
			}
			c.HasPatch = true
		}
	}

	if c.HasPatch && p.consume('-') {
		if c.Pre, p.idx, err = parsePrerelease(p.input, p.idx); err != nil {
			return Comparator{}, err
		}
	}
	// Build metadata is accepted and dropped; it never constrains a match.
	if c.HasPatch && p.consume('+') {
		if _, p.idx, err = parseBuild(p.input, p.idx); err != nil {
			return Comparator{}, err
		}
	}
	return c, nil
}

func (p *reqParser) consume(ch byte) bool {
	if !p.eof() && p.peek() == ch {
		p.idx++
		return true
	}
	return false
}

func isWildcard(c byte) bool {
	return c == '*' || c == 'x' || c == 'X'
}
