package baseindex

import (
	"testing"

	"diffmodbase/internal/diffdoc"
)

func mustParse(t *testing.T, s string) *diffdoc.Diff {
	t.Helper()
	d, err := diffdoc.Parse([]byte(s))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return d
}

func TestIndexBaseAddedLookup(t *testing.T) {
	d := mustParse(t, "--- a/f.txt\n+++ b/f.txt\n@@ -9,1 +9,2 @@\n context\n+added-by-base\n")
	idx := Build(d)
	lk := idx.NewLine("f.txt", 10)
	if lk.Kind != BaseAdded || lk.Text != "added-by-base" {
		t.Fatalf("unexpected lookup: %+v", lk)
	}
	// The context line keeps its own position too.
	ctx := idx.NewLine("f.txt", 9)
	if ctx.Kind != TouchedContext || ctx.Text != "context" {
		t.Fatalf("unexpected context lookup: %+v", ctx)
	}
}

func TestIndexUnchangedOutsideHunks(t *testing.T) {
	d := mustParse(t, "--- a/f.txt\n+++ b/f.txt\n@@ -9,1 +9,1 @@\n context\n")
	idx := Build(d)
	lk := idx.OldLine("f.txt", 500)
	if lk.Kind != Unchanged {
		t.Fatalf("expected Unchanged, got %+v", lk)
	}
}

func TestIndexRenameFiledUnderBothPaths(t *testing.T) {
	d := mustParse(t, "diff --git a/old.go b/new.go\nrename from old.go\nrename to new.go\n--- a/old.go\n+++ b/new.go\n@@ -1,1 +1,2 @@\n keep\n+added\n")
	idx := Build(d)
	if !idx.HasFile("old.go") || !idx.HasFile("new.go") {
		t.Fatalf("expected both rename paths to be indexed")
	}
	if idx.NewLine("new.go", 2).Kind != BaseAdded {
		t.Fatalf("expected BaseAdded under new.go")
	}
	if idx.NewLine("old.go", 2).Kind != BaseAdded {
		t.Fatalf("expected BaseAdded under old.go (aliased)")
	}
}

func TestHunksForPathOrder(t *testing.T) {
	d := mustParse(t, "--- a/f.txt\n+++ b/f.txt\n@@ -1,1 +1,1 @@\n a\n@@ -10,1 +10,1 @@\n b\n")
	idx := Build(d)
	hunks := idx.HunksForPath("f.txt")
	if len(hunks) != 2 || hunks[0].OldStart != 1 || hunks[1].OldStart != 10 {
		t.Fatalf("unexpected hunk order: %+v", hunks)
	}
}
