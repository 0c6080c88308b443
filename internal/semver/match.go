package semver

// Matches reports whether v satisfies every comparator of r. A pre-release
// version only matches when at least one comparator names the same
// major.minor.patch and carries a pre-release of its own.
func (r *Requirement) Matches(v Version) bool {
	for i := range r.Comparators {
		if !r.Comparators[i].matchesIgnoringPre(v) {
			return false
		}
	}
	if !v.IsPrerelease() {
		return true
	}
	for i := range r.Comparators {
		if r.Comparators[i].allowsPrerelease(v) {
			return true
		}
	}
	return false
}

// Matches reports whether v satisfies c alone, applying the same pre-release
// rule as Requirement.Matches.
func (c Comparator) Matches(v Version) bool {
	return c.matchesIgnoringPre(v) && (!v.IsPrerelease() || c.allowsPrerelease(v))
}

func (c Comparator) matchesIgnoringPre(v Version) bool {
	switch c.Op {
	case OpExact, OpWildcard:
		return c.matchesExact(v)
	case OpGreater:
		return c.matchesGreater(v)
	case OpGreaterEq:
		return c.matchesExact(v) || c.matchesGreater(v)
	case OpLess:
		return c.matchesLess(v)
	case OpLessEq:
		return c.matchesExact(v) || c.matchesLess(v)
	case OpTilde:
		return c.matchesTilde(v)
	case OpCaret:
		return c.matchesCaret(v)
	}
	return false
}

func (c Comparator) matchesExact(v Version) bool {
	if v.Major != c.Major {
		return false
	}
	if c.HasMinor && v.Minor != c.Minor {
		return false
	}
	if c.HasPatch && v.Patch != c.Patch {
		return false
	}
	return comparePrerelease(v.pre, c.Pre) == 0
}

func (c Comparator) matchesGreater(v Version) bool {
	if v.Major != c.Major {
		return v.Major > c.Major
	}
	if !c.HasMinor {
		return false
	}
	if v.Minor != c.Minor {
		return v.Minor > c.Minor
	}
	if !c.HasPatch {
		return false
	}
	if v.Patch != c.Patch {
		return v.Patch > c.Patch
	}
	return comparePrerelease(v.pre, c.Pre) > 0
}

func (c Comparator) matchesLess(v Version) bool {
	if v.Major != c.Major {
		return v.Major < c.Major
	}
	if !c.HasMinor {
		return false
	}
	if v.Minor != c.Minor {
		return v.Minor < c.Minor
	}
	if !c.HasPatch {
		return false
	}
	if v.Patch != c.Patch {
		return v.Patch < c.Patch
	}
	return comparePrerelease(v.pre, c.Pre) < 0
}

func (c Comparator) matchesTilde(v Version) bool {
	if v.Major != c.Major {
		return false
	}
	if c.HasMinor && v.Minor != c.Minor {
		return false
	}
	if c.HasPatch && v.Patch != c.Patch {
		return v.Patch > c.Patch
	}
	return comparePrerelease(v.pre, c.Pre) >= 0
}

// matchesCaret pins the leftmost non-zero component written in c.
func (c Comparator) matchesCaret(v Version) bool {
	if v.Major != c.Major {
		return false
	}
	if !c.HasMinor {
		return true
	}
	if !c.HasPatch {
		if c.Major > 0 {
			return v.Minor >= c.Minor
		}
		return v.Minor == c.Minor
	}

	switch {
	case c.Major > 0:
		if v.Minor != c.Minor {
			return v.Minor > c.Minor
		}
		if v.Patch != c.Patch {
			return v.Patch > c.Patch
		}
	case c.Minor > 0:
		if v.Minor != c.Minor {
			return false
		}
		if v.Patch != c.Patch {
			return v.Patch > c.Patch
		}
	default:
		if v.Minor != c.Minor || v.Patch != c.Patch {
			return false
		}
	}
	return comparePrerelease(v.pre, c.Pre) >= 0
}

func (c Comparator) allowsPrerelease(v Version) bool {
	return c.Major == v.Major &&
		c.HasMinor && c.Minor == v.Minor &&
		c.HasPatch && c.Patch == v.Patch &&
		len(c.Pre) > 0
}
