package testutil

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// AssertGolden compares rendered query text against
// testdata/golden/{name}.golden in the calling package.
//
// To regenerate golden files, run the package tests with -update.
func AssertGolden(t *testing.T, name string, text string) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(text))
}
