package extension

import (
	"strings"
	"unicode/utf8"

	"github.com/asteroid-belt/semverql/internal/semver"
)

// Collate orders two version strings for the semver collation. One leading
// 'v' is ignored. If either side is not UTF-8 or not a version the result is
// -1, so the order is not antisymmetric for unparsable values.
func (e *Extension) Collate(a, b []byte) int {
	if !utf8.Valid(a) || !utf8.Valid(b) {
		e.rec.CollationFallback()
		return -1
	}
	return e.CollateText(string(a), string(b))
}

// CollateText is Collate for callers that already hold strings.
func (e *Extension) CollateText(a, b string) int {
	if !utf8.ValidString(a) || !utf8.ValidString(b) {
		e.rec.CollationFallback()
		return -1
	}
	va, errA := semver.Parse(strings.TrimPrefix(a, "v"))
	vb, errB := semver.Parse(strings.TrimPrefix(b, "v"))
	if errA != nil || errB != nil {
		e.rec.CollationFallback()
		return -1
	}
	return va.Compare(vb)
}
