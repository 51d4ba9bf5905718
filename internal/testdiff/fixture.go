// Package testdiff synthesizes unified-diff fixtures from plain before/after
// file content, for use by tests that want to exercise the engine against
// realistic diff text instead of hand-assembled diffdoc values. It has no
// production callers — it exists purely to give property and scenario
// tests a way to build well-formed OldBase/NewBase/Target inputs.
package testdiff

import (
	"fmt"
	"strings"

	difflib "github.com/pmezard/go-difflib/difflib"
)

// Unified produces a unified diff for aName/bName given their full before
// and after content, with the given number of context lines (0 or less
// defaults to 3, the usual unified-diff context size).
func Unified(aName, bName string, before, after string, context int) (string, error) {
	if context <= 0 {
		context = 3
	}
	u := difflib.UnifiedDiff{
		A:        splitLinesKeepNL(before),
		B:        splitLinesKeepNL(after),
		FromFile: aName,
		ToFile:   bName,
		Context:  context,
	}
	return difflib.GetUnifiedDiffString(u)
}

// Added produces a diff that introduces bName from nothing.
func Added(bName string, content string) (string, error) {
	u := difflib.UnifiedDiff{
		A:        []string{},
		B:        splitLinesKeepNL(content),
		FromFile: "/dev/null",
		ToFile:   bName,
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(u)
}

// Compose joins several per-file unified diffs into one multi-file diff
// blob, the shape ComposeModuloBase's inputs take.
func Compose(parts ...string) string {
	return strings.Join(parts, "")
}

func splitLinesKeepNL(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.SplitAfter(s, "\n")
}

// MustUnified panics on a difflib failure; for use in test table setup
// where a generation error means the fixture itself is broken.
func MustUnified(aName, bName, before, after string, context int) string {
	s, err := Unified(aName, bName, before, after, context)
	if err != nil {
		panic(fmt.Sprintf("testdiff: failed to generate fixture: %v", err))
	}
	return s
}
