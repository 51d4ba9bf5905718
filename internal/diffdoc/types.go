// Package diffdoc defines the chunk/hunk/line data model for a single
// parsed unified diff, and the parser that produces it.
//
// The model mirrors the unified diff grammar directly: a Diff is an
// ordered sequence of FileSections, each carrying its verbatim header
// block plus an ordered sequence of Hunks, each carrying an ordered
// sequence of Lines. Nothing here interprets file content; everything is
// bytes in, bytes (or a structured position) out.
package diffdoc

// LineKind tags a single line inside a hunk body.
type LineKind byte

const (
	// Context is an unchanged line, counted on both the old and new side.
	Context LineKind = iota
	// Removed is a line present only on the old side.
	Removed
	// Added is a line present only on the new side.
	Added
)

func (k LineKind) String() string {
	switch k {
	case Context:
		return "context"
	case Removed:
		return "removed"
	case Added:
		return "added"
	default:
		return "unknown"
	}
}

// Line is one line of a hunk body. Text never includes the leading
// ' '/'+'/'-' sign byte or the trailing newline; those are reconstructed
// by the emitter. NoNewline records that the source diff carried a
// "\ No newline at end of file" marker immediately after this line.
type Line struct {
	Kind      LineKind
	Text      string
	NoNewline bool
}

// Hunk is a contiguous region of a file diff with declared old/new line
// ranges (§3). OldStart/NewStart are 1-based; a range with length 0 uses
// the convention of the unified diff format (start is the line before the
// empty range).
type Hunk struct {
	OldStart int
	OldLen   int
	NewStart int
	NewLen   int

	// Heading is the text following the second "@@" on the hunk header
	// line (often a function/section name). Preserved, never interpreted.
	Heading string

	Body []Line
}

// CountOld returns the number of Context+Removed lines in the hunk body,
// which must equal OldLen for a well-formed hunk.
func (h *Hunk) CountOld() int {
	n := 0
	for _, l := range h.Body {
		if l.Kind == Context || l.Kind == Removed {
			n++
		}
	}
	return n
}

// CountNew returns the number of Context+Added lines in the hunk body,
// which must equal NewLen for a well-formed hunk.
func (h *Hunk) CountNew() int {
	n := 0
	for _, l := range h.Body {
		if l.Kind == Context || l.Kind == Added {
			n++
		}
	}
	return n
}

// FileSection is one file's worth of a diff: its header block (preserved
// verbatim for echo), the old/new paths it names, and its hunks in order.
type FileSection struct {
	// Header is the raw byte block from the file's "diff --git" line (or
	// its "--- "/"+++ " pair, if no git marker was present) up to the
	// first hunk header or structural-only end. Echoed verbatim by the
	// emitter.
	Header []byte

	OldPath   string
	OldAbsent bool // true when the old side is /dev/null (pure add)
	NewPath   string
	NewAbsent bool // true when the new side is /dev/null (pure delete)

	// Renamed is true when the header declared "rename from"/"rename to"
	// (with or without a content change).
	Renamed bool

	// Binary marks a binary-patch or "Binary files ... differ" section:
	// it carries zero hunks and is passed through via Header verbatim.
	Binary bool

	Hunks []Hunk
}

// Path returns the section's effective "new" identity: NewPath normally,
// falling back to OldPath for a pure delete. Used for display and for
// indexing by file identity.
func (f *FileSection) Path() string {
	if !f.NewAbsent && f.NewPath != "" {
		return f.NewPath
	}
	return f.OldPath
}

// Structural reports whether the section carries a structural change
// (rename, add/delete, binary) independent of any hunks; a mode-only
// change sets none of these flags and is not reported. The correlator's
// pruning (correlate.ClassifiedFileSection.HasContent) applies the same
// test to decide whether a section with zero surviving hunks is emitted.
func (f *FileSection) Structural() bool {
	return f.Renamed || f.Binary || f.OldAbsent || f.NewAbsent
}

// Diff is an ordered sequence of FileSections, in input order. There is
// no global sort: sequence order is the order files appeared in the
// source diff.
type Diff struct {
	Files []FileSection
}
