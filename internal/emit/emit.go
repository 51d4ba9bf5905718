// Package emit serializes parsed and classified diffs back to unified-diff
// bytes (§4.4). Two entry points exist: EmitDiff re-renders a plain
// diffdoc.Diff verbatim (used for the parse-then-emit idempotence
// property), and Emit renders a correlate.ClassifiedDiff, substituting
// the '<'/'>'/'#' prefixes the spec adds on top of ordinary unified diff
// syntax.
package emit

import (
	"bytes"
	"fmt"

	"diffmodbase/internal/correlate"
	"diffmodbase/internal/diffdoc"
)

// EmitDiff renders a plain Diff back to unified-diff bytes. Headers are
// echoed verbatim from the source; hunk headers and bodies are rebuilt
// from structured data, so byte-for-byte fidelity depends only on the
// header block (which the parser already captured verbatim).
func EmitDiff(d *diffdoc.Diff) []byte {
	var buf bytes.Buffer
	for i := range d.Files {
		emitPlainFile(&buf, &d.Files[i])
	}
	return buf.Bytes()
}

func emitPlainFile(buf *bytes.Buffer, fs *diffdoc.FileSection) {
	buf.Write(fs.Header)
	for i := range fs.Hunks {
		emitHunkHeader(buf, &fs.Hunks[i])
		emitPlainBody(buf, fs.Hunks[i].Body)
	}
}

func emitHunkHeader(buf *bytes.Buffer, h *diffdoc.Hunk) {
	fmt.Fprintf(buf, "@@ -%d,%d +%d,%d @@", h.OldStart, h.OldLen, h.NewStart, h.NewLen)
	if h.Heading != "" {
		buf.WriteByte(' ')
		buf.WriteString(h.Heading)
	}
	buf.WriteByte('\n')
}

func emitPlainBody(buf *bytes.Buffer, body []diffdoc.Line) {
	for _, l := range body {
		writeBodyLine(buf, sign(l.Kind), l.Text, l.NoNewline)
	}
}

func sign(k diffdoc.LineKind) byte {
	switch k {
	case diffdoc.Added:
		return '+'
	case diffdoc.Removed:
		return '-'
	default:
		return ' '
	}
}

func writeBodyLine(buf *bytes.Buffer, prefix byte, text string, noNewline bool) {
	buf.WriteByte(prefix)
	buf.WriteString(text)
	buf.WriteByte('\n')
	if noNewline {
		buf.WriteString(`\ No newline at end of file` + "\n")
	}
}

// Emit renders a ClassifiedDiff to unified-diff bytes per §4.4: Important
// lines keep their ordinary '-'/'+' sign, Unimportant lines use '<'/'>',
// Context lines are unchanged, and selected base-diff hunks are emitted
// as '#'-prefixed annotation blocks (including their own '@@' header,
// also '#'-prefixed) immediately before the target hunk they neighbor.
func Emit(d *correlate.ClassifiedDiff) []byte {
	var buf bytes.Buffer
	for i := range d.Files {
		emitClassifiedFile(&buf, &d.Files[i])
	}
	return buf.Bytes()
}

func emitClassifiedFile(buf *bytes.Buffer, fs *correlate.ClassifiedFileSection) {
	buf.Write(fs.Header)
	for _, item := range fs.Items {
		switch {
		case item.Annotation != nil:
			emitAnnotation(buf, item.Annotation)
		case item.Hunk != nil:
			emitClassifiedHunk(buf, item.Hunk)
		}
	}
}

// emitAnnotation renders a base-diff hunk as a '#'-prefixed block: every
// line of the hunk, header included, gets a leading '#' (§4.4).
func emitAnnotation(buf *bytes.Buffer, h *diffdoc.Hunk) {
	buf.WriteByte('#')
	emitHunkHeader(buf, h)
	for _, l := range h.Body {
		buf.WriteByte('#')
		writeBodyLine(buf, sign(l.Kind), l.Text, l.NoNewline)
	}
}

func emitClassifiedHunk(buf *bytes.Buffer, h *correlate.ClassifiedHunk) {
	oldLen, newLen := countSurviving(h.Lines)
	fmt.Fprintf(buf, "@@ -%d,%d +%d,%d @@", h.OldStart, oldLen, h.NewStart, newLen)
	if h.Heading != "" {
		buf.WriteByte(' ')
		buf.WriteString(h.Heading)
	}
	buf.WriteByte('\n')

	for _, cl := range h.Lines {
		writeBodyLine(buf, classifiedSign(cl), cl.Line.Text, cl.Line.NoNewline)
	}
}

// countSurviving recomputes the hunk's declared old/new lengths from its
// classified body: Unimportant lines are still printed (as '<'/'>') but
// the spec's hunk ranges describe the ordinary unified-diff count, which
// only Context+Important lines (on the relevant side) contribute to —
// Unimportant lines are, by definition, not real content changes of this
// diff, merely annotated noise, so they don't count toward either side's
// declared length.
func countSurviving(lines []correlate.ClassifiedLine) (oldLen, newLen int) {
	for _, cl := range lines {
		switch cl.Line.Kind {
		case diffdoc.Context:
			oldLen++
			newLen++
		case diffdoc.Removed:
			if cl.Class == correlate.Important {
				oldLen++
			}
		case diffdoc.Added:
			if cl.Class == correlate.Important {
				newLen++
			}
		}
	}
	return oldLen, newLen
}

func classifiedSign(cl correlate.ClassifiedLine) byte {
	switch cl.Line.Kind {
	case diffdoc.Context:
		return ' '
	case diffdoc.Removed:
		if cl.Class == correlate.Unimportant {
			return '<'
		}
		return '-'
	case diffdoc.Added:
		if cl.Class == correlate.Unimportant {
			return '>'
		}
		return '+'
	default:
		return ' '
	}
}
