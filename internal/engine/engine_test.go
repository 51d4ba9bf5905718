package engine

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diffmodbase/internal/sortutil"
)

func compose(t *testing.T, oldBase, newBase, target string) string {
	t.Helper()
	out, err := ComposeModuloBase([]byte(oldBase), []byte(newBase), []byte(target))
	require.Nil(t, err, "compose error: %v", err)
	return string(out)
}

// S1: pure rebase — a line both bases explain identically is dropped
// entirely, leaving nothing for the file.
func TestS1PureRebase(t *testing.T) {
	oldBase := "--- a/f.txt\n+++ b/f.txt\n@@ -9,1 +9,2 @@\n nine\n+X\n"
	newBase := "--- a/f.txt\n+++ b/f.txt\n@@ -11,1 +11,2 @@\n eleven\n+X\n"
	target := "--- a/f.txt\n+++ b/f.txt\n@@ -10,1 +12,1 @@\n-X\n+X\n"

	out := compose(t, oldBase, newBase, target)
	assert.NotContains(t, out, "-X")
	assert.NotContains(t, out, "+X")
	assert.Empty(t, out, "expected empty output for a pure base artifact")
}

// S2: a real edit right after a line that both bases added survives as
// -/+.
func TestS2RealEditOnTopOfRebase(t *testing.T) {
	oldBase := "--- a/f.txt\n+++ b/f.txt\n@@ -9,2 +9,3 @@\n nine\n+X\n ten\n"
	newBase := "--- a/f.txt\n+++ b/f.txt\n@@ -9,2 +9,3 @@\n nine\n+X\n ten\n"
	target := "--- a/f.txt\n+++ b/f.txt\n@@ -10,2 +10,2 @@\n X\n-foo\n+bar\n"

	out := compose(t, oldBase, newBase, target)
	assert.Contains(t, out, "-foo")
	assert.Contains(t, out, "+bar")
}

// S4: a helper added by OldBase and removed by NewBase must appear as an
// Important removal even though it is, mechanically, a base artifact —
// the conflict neighborhood override.
func TestS4BaseChangeDismissed(t *testing.T) {
	oldBase := "--- a/f.txt\n+++ b/f.txt\n@@ -5,1 +5,2 @@\n five\n+helper()\n"
	newBase := "--- a/f.txt\n+++ b/f.txt\n@@ -5,2 +5,1 @@\n five\n-helper()\n"
	target := "--- a/f.txt\n+++ b/f.txt\n@@ -6,1 +5,0 @@\n-helper()\n"

	out := compose(t, oldBase, newBase, target)
	assert.Contains(t, out, "-helper()")
}

// S3: OldBase and NewBase both add a "#if GFX11" block that Target never
// touches (identical on both the pre- and post-rebase side, so Target's
// C..D diff has no hunk there at all). A genuine Target edit on the line
// just above the NewBase hunk must survive, and the NewBase hunk that introduced the block must
// reappear as a '#'-prefixed annotation ahead of it.
func TestS3BaseChangePreservedAnnotation(t *testing.T) {
	gfx11Block := "--- a/f.txt\n+++ b/f.txt\n@@ -5,1 +5,4 @@\n five\n+#if GFX11\n+foo_gfx11();\n+#endif\n"
	oldBase := gfx11Block
	newBase := gfx11Block
	target := "--- a/f.txt\n+++ b/f.txt\n@@ -4,1 +4,1 @@\n-four\n+FOUR\n"

	out := compose(t, oldBase, newBase, target)
	assert.Contains(t, out, "-four")
	assert.Contains(t, out, "+FOUR")
	assert.Contains(t, out, "#@@ -5,1 +5,4 @@")
	assert.Contains(t, out, "#+#if GFX11")
}

// S5: a NewBase rename is resolved so the output uses the new name and
// a Target edit under the new name is classified correctly.
func TestS5Rename(t *testing.T) {
	oldBase := ""
	newBase := "diff --git a/a.c b/b.c\nrename from a.c\nrename to b.c\n--- a/a.c\n+++ b/b.c\n@@ -1,1 +1,1 @@\n one\n"
	target := "--- a/b.c\n+++ b/b.c\n@@ -5,1 +5,1 @@\n-old\n+new\n"

	out := compose(t, oldBase, newBase, target)
	assert.Contains(t, out, "b.c")
	assert.Contains(t, out, "-old")
	assert.Contains(t, out, "+new")
}

// S6: three empty inputs produce empty output.
func TestS6EmptyInputs(t *testing.T) {
	out := compose(t, "", "", "")
	assert.Empty(t, out)
}

// Property 2: identity base — empty OldBase/NewBase leaves Target
// untouched.
func TestIdentityBaseProperty(t *testing.T) {
	target := "--- a/f.txt\n+++ b/f.txt\n@@ -1,1 +1,1 @@\n-old\n+new\n"
	out, err := ComposeModuloBase(nil, nil, []byte(target))
	require.Nil(t, err)
	assert.Contains(t, string(out), "-old")
	assert.Contains(t, string(out), "+new")
}

// ComposeDiffs assembles a composite Target out of two independently
// authored per-file fixtures (its documented purpose, §6) without
// round-tripping either through text.
func TestComposeDiffsAssemblesCompositeTarget(t *testing.T) {
	first, ferr := ParseDiff([]byte("--- a/a.txt\n+++ b/a.txt\n@@ -1,1 +1,1 @@\n-old-a\n+new-a\n"))
	require.Nil(t, ferr)
	second, serr := ParseDiff([]byte("--- a/b.txt\n+++ b/b.txt\n@@ -1,1 +1,1 @@\n-old-b\n+new-b\n"))
	require.Nil(t, serr)

	composed := ComposeDiffs(*first, *second)
	require.Len(t, composed.Files, 2)
	assert.Equal(t, "a.txt", composed.Files[0].NewPath)
	assert.Equal(t, "b.txt", composed.Files[1].NewPath)
	require.Len(t, composed.Files[0].Hunks, 1)
	require.Len(t, composed.Files[1].Hunks, 1)
	assert.Equal(t, "old-a", composed.Files[0].Hunks[0].Body[0].Text)
	assert.Equal(t, "old-b", composed.Files[1].Hunks[0].Body[0].Text)
}

// Property 5: ordering — new-side line numbers of emitted hunk headers
// must be strictly increasing within each file.
func TestOrderingProperty(t *testing.T) {
	oldBase := ""
	newBase := ""
	target := "--- a/f.txt\n+++ b/f.txt\n@@ -1,1 +1,1 @@\n-a\n+b\n@@ -20,1 +20,1 @@\n-c\n+d\n"

	out := compose(t, oldBase, newBase, target)
	var starts []int
	for _, line := range strings.Split(out, "\n") {
		if !strings.HasPrefix(line, "@@ -") {
			continue
		}
		var oldStart, oldLen, newStart, newLen int
		_, err := fmt.Sscanf(line, "@@ -%d,%d +%d,%d @@", &oldStart, &oldLen, &newStart, &newLen)
		require.Nil(t, err)
		starts = append(starts, newStart)
	}
	require.Len(t, starts, 2)
	assert.True(t, sortutil.NewStartOrdered(len(starts), func(i int) int { return starts[i] }))
}
