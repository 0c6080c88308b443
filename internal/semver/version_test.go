package semver

import (
	"errors"
	"math"
	"testing"

	ms "github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asteroid-belt/semverql/internal/testutil"
)

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		input     string
		wantMajor uint64
		wantMinor uint64
		wantPatch uint64
		wantPre   string
		wantBuild string
	}{
		{"0.0.0", 0, 0, 0, "", ""},
		{"1.2.3", 1, 2, 3, "", ""},
		{"10.20.30", 10, 20, 30, "", ""},
		{"1.0.0-alpha", 1, 0, 0, "alpha", ""},
		{"1.0.0-alpha.1", 1, 0, 0, "alpha.1", ""},
		{"1.0.0-0.3.7", 1, 0, 0, "0.3.7", ""},
		{"1.0.0-x-y-z.--", 1, 0, 0, "x-y-z.--", ""},
		{"1.0.0+20130313144700", 1, 0, 0, "", "20130313144700"},
		{"1.0.0-beta+exp.sha.5114f85", 1, 0, 0, "beta", "exp.sha.5114f85"},
		{"1.0.0+001", 1, 0, 0, "", "001"},
		{"18446744073709551615.0.0", math.MaxUint64, 0, 0, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantMajor, v.Major)
			assert.Equal(t, tt.wantMinor, v.Minor)
			assert.Equal(t, tt.wantPatch, v.Patch)
			assert.Equal(t, tt.wantPre, v.PrereleaseString())
			assert.Equal(t, tt.wantBuild, v.BuildString())
			assert.Equal(t, tt.wantPre != "", v.IsPrerelease())
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, input := range testutil.InvalidVersions {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			require.Error(t, err)

			var perr *ParseError
			require.True(t, errors.As(err, &perr), "want *ParseError, got %T", err)
			assert.Equal(t, input, perr.Input)
			assert.Contains(t, err.Error(), "semver: ")
		})
	}
}

func TestParse_ErrorMessages(t *testing.T) {
	tests := []struct {
		input      string
		wantMsg    string
		wantOffset int
	}{
		{"", "empty string, expected a semver version", -1},
		{"01.0.0", "invalid leading zero in major version number", 0},
		{"1.0.0-01", "invalid leading zero in pre-release identifier", 6},
		{"1.2", "unexpected end of input while parsing patch version number", 3},
		{"1.2.3.4", "unexpected character '.' after version", 5},
		{"99999999999999999999.0.0", "value of major version number exceeds uint64", 0},
		{"1.0.0-a..b", "empty identifier segment in pre-release identifier", 8},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Parse(tt.input)
			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.wantMsg, perr.Message)
			assert.Equal(t, tt.wantOffset, perr.Offset)
		})
	}
}

func TestString_RoundTrip(t *testing.T) {
	inputs := append([]string{
		"1.0.0+build.1",
		"1.0.0-rc.1+build.1.2",
		"3.0.0+001",
	}, testutil.OrderedVersions...)

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			v := MustParse(input)
			assert.Equal(t, input, v.String())

			again, err := Parse(v.String())
			require.NoError(t, err)
			assert.Equal(t, 0, again.Compare(v))
			assert.Equal(t, v.BuildString(), again.BuildString())
		})
	}
}

func TestNew(t *testing.T) {
	t.Run("numeric only", func(t *testing.T) {
		v, err := New(1, 2, 3, "", "")
		require.NoError(t, err)
		assert.Equal(t, "1.2.3", v.String())
	})

	t.Run("with prerelease and build", func(t *testing.T) {
		v, err := New(1, 2, 3, "beta.2", "sha.abc")
		require.NoError(t, err)
		assert.Equal(t, "1.2.3-beta.2+sha.abc", v.String())
		assert.True(t, v.IsPrerelease())
	})

	t.Run("build only", func(t *testing.T) {
		v, err := New(0, 0, 1, "", "42")
		require.NoError(t, err)
		assert.Equal(t, "0.0.1+42", v.String())
	})

	invalid := []struct {
		name  string
		pre   string
		build string
	}{
		{"prerelease with space", "beta 1", ""},
		{"prerelease leading zero", "01", ""},
		{"prerelease empty segment", "a..b", ""},
		{"prerelease bad char", "rc_1", ""},
		{"build bad char", "", "sha!"},
		{"build empty segment", "", "a."},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(1, 0, 0, tt.pre, tt.build)
			var perr *ParseError
			assert.True(t, errors.As(err, &perr), "want *ParseError, got %v", err)
		})
	}
}

func TestCompare_Ordering(t *testing.T) {
	versions := testutil.OrderedVersions
	for i := range versions {
		for j := range versions {
			a, b := MustParse(versions[i]), MustParse(versions[j])
			want := compareInt(i, j)
			assert.Equal(t, want, Compare(a, b), "Compare(%s, %s)", versions[i], versions[j])
			assert.Equal(t, -want, Compare(b, a), "Compare(%s, %s)", versions[j], versions[i])
		}
	}
}

func TestCompare_IgnoresBuild(t *testing.T) {
	for _, pair := range testutil.EquivalentVersions {
		t.Run(pair[0]+"="+pair[1], func(t *testing.T) {
			a, b := MustParse(pair[0]), MustParse(pair[1])
			assert.True(t, a.Equal(b))
			assert.False(t, a.LessThan(b))
			assert.False(t, a.GreaterThan(b))
		})
	}
}

func TestCompare_PrecedenceChain(t *testing.T) {
	chain := []string{"1.0.0-alpha", "1.0.0-alpha.1", "1.0.0-beta", "1.0.0", "1.0.1"}
	for i := 1; i < len(chain); i++ {
		assert.True(t, MustParse(chain[i-1]).LessThan(MustParse(chain[i])), "%s < %s", chain[i-1], chain[i])
	}
}

// Masterminds/semver agrees with us on every pair of well-formed versions
// whose numeric identifiers fit its parser.
func TestCompare_MatchesMasterminds(t *testing.T) {
	versions := testutil.OrderedVersions
	for _, pair := range testutil.EquivalentVersions {
		versions = append(versions, pair[0], pair[1])
	}

	for _, a := range versions {
		for _, b := range versions {
			oa, err := ms.StrictNewVersion(a)
			require.NoError(t, err, a)
			ob, err := ms.StrictNewVersion(b)
			require.NoError(t, err, b)

			assert.Equal(t, oa.Compare(ob), Compare(MustParse(a), MustParse(b)), "Compare(%s, %s)", a, b)
		}
	}
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParse("nope") })
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
