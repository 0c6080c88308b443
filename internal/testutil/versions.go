// Package testutil provides shared fixtures for tests.
package testutil

// OrderedVersions lists valid versions in strictly ascending precedence.
// Neighbouring entries never compare equal.
var OrderedVersions = []string{
	"0.0.0",
	"0.0.1-alpha",
	"0.0.1",
	"0.1.0",
	"0.1.1",
	"0.9.9",
	"1.0.0-0",
	"1.0.0-0.3.7",
	"1.0.0-1",
	"1.0.0-2",
	"1.0.0-10",
	"1.0.0-alpha",
	"1.0.0-alpha.1",
	"1.0.0-alpha.beta",
	"1.0.0-beta",
	"1.0.0-beta.2",
	"1.0.0-beta.11",
	"1.0.0-rc.1",
	"1.0.0-x.7.z.92",
	"1.0.0",
	"1.0.1",
	"1.2.3-pre",
	"1.2.3",
	"1.10.0",
	"2.0.0-rc.1",
	"2.0.0",
	"10.0.0",
	"18446744073709551615.0.0",
}

// EquivalentVersions holds pairs with equal precedence that differ only in
// build metadata.
var EquivalentVersions = [][2]string{
	{"1.0.0", "1.0.0+build"},
	{"1.0.0+a", "1.0.0+b.2"},
	{"1.0.0-alpha+001", "1.0.0-alpha"},
	{"2.3.4-rc.1+exp.sha.5114f85", "2.3.4-rc.1+20130313144700"},
}

// InvalidVersions are rejected by the strict parser.
var InvalidVersions = []string{
	"",
	"1",
	"1.2",
	"1.2.3.4",
	"v1.2.3",
	" 1.2.3",
	"1.2.3 ",
	"01.2.3",
	"1.02.3",
	"1.2.03",
	"1.2.3-",
	"1.2.3-01",
	"1.2.3-alpha..1",
	"1.2.3-alpha_1",
	"1.2.3+",
	"1.2.3+build..1",
	"1.2.3-+build",
	"a.b.c",
	"1.2.x",
	"18446744073709551616.0.0",
	"not-a-version",
}
