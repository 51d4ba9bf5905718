package emit

import (
	"bytes"
	"testing"

	"diffmodbase/internal/correlate"
	"diffmodbase/internal/diffdoc"
)

// Parse-then-emit idempotence (§8.1): re-emitting a parsed plain diff
// reproduces the structural content exactly for a diff with no quirky
// whitespace-only hunk headers.
func TestEmitDiffRoundTrip(t *testing.T) {
	src := "--- a/f.txt\n+++ b/f.txt\n@@ -1,2 +1,3 @@\n one\n+two\n three\n"
	d, err := diffdoc.Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	out := EmitDiff(d)
	if !bytes.Equal(out, []byte(src)) {
		t.Fatalf("round trip mismatch:\nwant %q\ngot  %q", src, out)
	}
}

// A '#'-prefixed annotation (§4.4) gets every one of its lines, header
// included, prefixed with '#' — and is rendered ahead of the hunk it was
// paired with by the caller.
func TestEmitAnnotation(t *testing.T) {
	annotation := diffdoc.Hunk{
		OldStart: 5, OldLen: 1, NewStart: 5, NewLen: 4,
		Body: []diffdoc.Line{
			{Kind: diffdoc.Context, Text: "five"},
			{Kind: diffdoc.Added, Text: "#if GFX11"},
			{Kind: diffdoc.Added, Text: "foo_gfx11();"},
			{Kind: diffdoc.Added, Text: "#endif"},
		},
	}
	hunk := correlate.ClassifiedHunk{
		OldStart: 4, OldLen: 1, NewStart: 4, NewLen: 1,
		Lines: []correlate.ClassifiedLine{
			{Line: diffdoc.Line{Kind: diffdoc.Removed, Text: "four"}, Class: correlate.Important},
			{Line: diffdoc.Line{Kind: diffdoc.Added, Text: "FOUR"}, Class: correlate.Important},
		},
	}
	diff := &correlate.ClassifiedDiff{Files: []correlate.ClassifiedFileSection{{
		Header: []byte("--- a/f.txt\n+++ b/f.txt\n"),
		Items:  []correlate.Item{{Annotation: &annotation}, {Hunk: &hunk}},
	}}}

	out := string(Emit(diff))
	want := "--- a/f.txt\n+++ b/f.txt\n" +
		"#@@ -5,1 +5,4 @@\n# five\n#+#if GFX11\n#+foo_gfx11();\n#+#endif\n" +
		"@@ -4,1 +4,1 @@\n-four\n+FOUR\n"
	if out != want {
		t.Fatalf("annotation emission mismatch:\nwant %q\ngot  %q", want, out)
	}
}

func TestEmitDiffNoNewlineMarker(t *testing.T) {
	src := "--- a/f.txt\n+++ b/f.txt\n@@ -1,1 +1,1 @@\n-old\n\\ No newline at end of file\n+new\n\\ No newline at end of file\n"
	d, err := diffdoc.Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	out := EmitDiff(d)
	if !bytes.Equal(out, []byte(src)) {
		t.Fatalf("round trip mismatch:\nwant %q\ngot  %q", src, out)
	}
}
