// Package correlate implements the heart of the engine (§4.3): given the
// Target diff and the two base indices (OldBase and NewBase), it
// classifies every Removed/Added Target line as Important or Unimportant,
// applies the conflict-neighborhood exception, prunes hunks and files
// that end up with nothing important to show, and selects base-diff
// hunks to surface as annotations.
package correlate

import "diffmodbase/internal/diffdoc"

// Classification is the overlay §3 describes: a tag per Removed/Added
// line, kept in a parallel structure rather than mutating diffdoc.Line so
// the parsed Target diff stays untouched and reusable.
type Classification byte

const (
	// Important lines are shown with their ordinary '-'/'+' sign.
	Important Classification = iota
	// Unimportant lines are shown with '<'/'>' instead.
	Unimportant
)

// ClassifiedLine pairs a Target body line with its classification.
// Context lines carry the zero value (Important) but it is never
// consulted for them — the emitter always prints Context lines as-is.
type ClassifiedLine struct {
	Line  diffdoc.Line
	Class Classification
}

// ClassifiedHunk is a Target hunk after classification. Ranges are
// unchanged from the source hunk; pruning happens at a higher level by
// dropping ClassifiedHunk values whose Lines are all Unimportant.
type ClassifiedHunk struct {
	OldStart int
	OldLen   int
	NewStart int
	NewLen   int
	Heading  string
	Lines    []ClassifiedLine
}

// AllUnimportant reports whether every Removed/Added line in the hunk was
// classified Unimportant — the condition for pruning the hunk (§4.3).
func (h *ClassifiedHunk) AllUnimportant() bool {
	any := false
	for _, l := range h.Lines {
		if l.Line.Kind == diffdoc.Context {
			continue
		}
		any = true
		if l.Class == Important {
			return false
		}
	}
	return any
}

// Item is one entry in a file's output stream: either a base-diff
// annotation (rendered with '#') or a surviving classified Target hunk.
// Exactly one of Annotation/Hunk is set.
type Item struct {
	Annotation *diffdoc.Hunk
	Hunk       *ClassifiedHunk
}

// ClassifiedFileSection is one Target file after classification and
// pruning, with base annotations already interleaved in output order
// (§4.3 "Ordering and tie-breaks").
type ClassifiedFileSection struct {
	Header    []byte
	OldPath   string
	OldAbsent bool
	NewPath   string
	NewAbsent bool
	Renamed   bool
	Binary    bool

	Items []Item
}

// HasContent reports whether the section has anything left to emit: at
// least one surviving hunk/annotation, or a structural change worth
// echoing even with no hunks (§4.3 "Hunk pruning").
func (f *ClassifiedFileSection) HasContent() bool {
	return len(f.Items) > 0 || f.Renamed || f.Binary || f.OldAbsent || f.NewAbsent
}

// ClassifiedDiff is the full output of correlation: the subset of Target
// file sections worth emitting, in Target order.
type ClassifiedDiff struct {
	Files []ClassifiedFileSection
}
