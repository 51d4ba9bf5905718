package correlate

import (
	"diffmodbase/internal/baseindex"
	"diffmodbase/internal/diffdoc"
)

// ConflictNeighborhood is N from §9's open question (a): the reference
// behavior fixes it at 3 and does not (yet) make it configurable. It is
// reused for both the conflict-neighborhood promotion rule below and the
// base-annotation proximity test in annotate.go, matching the spec's use
// of a single N for both.
const ConflictNeighborhood = 3

// disagree reports whether two base-index lookups for "the same" logical
// position are inconsistent: one base touched the position (added,
// removed, or simply covered it as hunk context) and the other didn't,
// or both touched it but with a different kind or different content.
// Two Unchanged lookups, or two touched lookups that agree, are not a
// disagreement.
func disagree(a, b baseindex.Lookup) bool {
	ta := a.Kind != baseindex.Unchanged
	tb := b.Kind != baseindex.Unchanged
	if ta != tb {
		return true
	}
	return contradiction(a, b)
}

// contradiction is the narrower condition behind §7's InconsistentBases:
// both bases touched the same logical position, yet claim different
// content there. Unlike disagree above, it excludes the touched-vs-untouched
// asymmetry case — one base leaving a position alone while the other edits
// it is an ordinary shape for two diverging branches, not a contradiction
// in what either base claims happened.
func contradiction(a, b baseindex.Lookup) bool {
	ta := a.Kind != baseindex.Unchanged
	tb := b.Kind != baseindex.Unchanged
	return ta && tb && (a.Kind != b.Kind || a.Text != b.Text)
}

// findContradiction scans a Target hunk's Context lines for a §7
// InconsistentBases contradiction. Context lines are the only place this
// can be checked directly against a Target hunk, since they carry a known
// base-relative line number on both the old and new side; Removed/Added
// lines only exist on one side and so have nothing on the other side to
// contradict.
func findContradiction(oldIdx, newIdx *baseindex.Index, oldKey, newKey string, h *diffdoc.Hunk) (oldLine, newLine int, found bool) {
	ol := h.OldStart
	nl := h.NewStart
	for _, l := range h.Body {
		switch l.Kind {
		case diffdoc.Context:
			a := oldIdx.NewLine(oldKey, ol)
			b := newIdx.NewLine(newKey, nl)
			if contradiction(a, b) {
				return ol, nl, true
			}
			ol++
			nl++
		case diffdoc.Removed:
			ol++
		case diffdoc.Added:
			nl++
		}
	}
	return 0, 0, false
}

// inConflictNeighborhood implements §4.3's conflict-neighborhood
// exception: "any target-hunk region where the OldBase and NewBase
// indices disagree about the surrounding lines". The surrounding lines
// of a target hunk are (a) its own Context lines, compared at their
// exact base-relative position on each side, and (b) up to
// ConflictNeighborhood lines immediately before and after the hunk, where
// only touched-vs-untouched can be compared since the Target diff itself
// doesn't carry those lines' content.
func inConflictNeighborhood(oldIdx, newIdx *baseindex.Index, oldKey, newKey string, h *diffdoc.Hunk) bool {
	oldLine := h.OldStart
	newLine := h.NewStart
	for _, l := range h.Body {
		switch l.Kind {
		case diffdoc.Context:
			a := oldIdx.NewLine(oldKey, oldLine)
			b := newIdx.NewLine(newKey, newLine)
			if disagree(a, b) {
				return true
			}
			oldLine++
			newLine++
		case diffdoc.Removed:
			oldLine++
		case diffdoc.Added:
			newLine++
		}
	}

	for k := 1; k <= ConflictNeighborhood; k++ {
		if touchedAsymmetry(oldIdx, newIdx, oldKey, newKey, h.OldStart-k, h.NewStart-k) {
			return true
		}
		if touchedAsymmetry(oldIdx, newIdx, oldKey, newKey, h.OldStart+h.OldLen-1+k, h.NewStart+h.NewLen-1+k) {
			return true
		}
	}
	return false
}

func touchedAsymmetry(oldIdx, newIdx *baseindex.Index, oldKey, newKey string, oldLine, newLine int) bool {
	if oldLine < 1 || newLine < 1 {
		return false
	}
	a := oldIdx.NewLine(oldKey, oldLine)
	b := newIdx.NewLine(newKey, newLine)
	ta := a.Kind != baseindex.Unchanged
	tb := b.Kind != baseindex.Unchanged
	return ta != tb
}
