package correlate

import (
	"fmt"

	"diffmodbase/internal/baseindex"
	"diffmodbase/internal/diffdoc"
)

// Correlate runs the classification table of §4.3 over every file in the
// Target diff, applies the conflict-neighborhood exception, prunes hunks
// and files with nothing important left, and selects base annotations. It
// reports an InconsistentBases *diffdoc.ParseError (§7) if OldBase and
// NewBase claim contradictory content at a position a Target hunk's
// context depends on.
func Correlate(oldIdx, newIdx *baseindex.Index, target *diffdoc.Diff) (*ClassifiedDiff, *diffdoc.ParseError) {
	out := &ClassifiedDiff{}
	for i := range target.Files {
		fs := &target.Files[i]
		cfs, err := correlateFile(oldIdx, newIdx, fs)
		if err != nil {
			return nil, err
		}
		if cfs.HasContent() {
			out.Files = append(out.Files, cfs)
		}
	}
	return out, nil
}

func correlateFile(oldIdx, newIdx *baseindex.Index, fs *diffdoc.FileSection) (ClassifiedFileSection, *diffdoc.ParseError) {
	oldKey, newKey := baseindex.ResolveTargetPath(fs.OldPath, fs.NewPath, oldIdx, newIdx)

	cfs := ClassifiedFileSection{
		Header:    fs.Header,
		OldPath:   fs.OldPath,
		OldAbsent: fs.OldAbsent,
		NewPath:   fs.NewPath,
		NewAbsent: fs.NewAbsent,
		Renamed:   fs.Renamed,
		Binary:    fs.Binary,
	}

	var survivors []ClassifiedHunk
	for hi := range fs.Hunks {
		h := &fs.Hunks[hi]
		if ol, nl, found := findContradiction(oldIdx, newIdx, oldKey, newKey, h); found {
			path := newKey
			if path == "" {
				path = oldKey
			}
			return ClassifiedFileSection{}, &diffdoc.ParseError{
				Kind:   diffdoc.InconsistentBases,
				Offset: 0,
				Summary: fmt.Sprintf(
					"%s: OldBase and NewBase disagree about the content at old line %d / new line %d",
					path, ol, nl),
			}
		}
		ch := classifyHunk(oldIdx, newIdx, oldKey, newKey, h)
		if !ch.AllUnimportant() {
			survivors = append(survivors, ch)
		}
	}

	annotations := selectAnnotations(newIdx, newKey, survivors)
	cfs.Items = interleave(annotations, survivors)
	return cfs, nil
}

// classifyHunk applies the per-line classification table of §4.3 to one
// Target hunk, then promotes any Unimportant line back to Important if
// the hunk sits in a conflict neighborhood.
func classifyHunk(oldIdx, newIdx *baseindex.Index, oldKey, newKey string, h *diffdoc.Hunk) ClassifiedHunk {
	ch := ClassifiedHunk{
		OldStart: h.OldStart,
		OldLen:   h.OldLen,
		NewStart: h.NewStart,
		NewLen:   h.NewLen,
		Heading:  h.Heading,
		Lines:    make([]ClassifiedLine, len(h.Body)),
	}

	conflict := inConflictNeighborhood(oldIdx, newIdx, oldKey, newKey, h)

	oldLine := h.OldStart
	newLine := h.NewStart
	for i, l := range h.Body {
		cl := ClassifiedLine{Line: l, Class: Important}
		switch l.Kind {
		case diffdoc.Removed:
			lk := oldIdx.NewLine(oldKey, oldLine)
			if lk.Kind == baseindex.BaseAdded && lk.Text == l.Text {
				cl.Class = Unimportant
			}
			oldLine++
		case diffdoc.Added:
			lk := newIdx.NewLine(newKey, newLine)
			if lk.Kind == baseindex.BaseAdded && lk.Text == l.Text {
				cl.Class = Unimportant
			}
			newLine++
		case diffdoc.Context:
			oldLine++
			newLine++
		}
		if conflict {
			cl.Class = Important
		}
		ch.Lines[i] = cl
	}
	return ch
}

// interleave places each selected annotation immediately before the
// earliest surviving hunk it neighbors (§4.3 "Ordering and tie-breaks"),
// emitting it only once even if it neighbors more than one hunk.
func interleave(annotations []diffdoc.Hunk, hunks []ClassifiedHunk) []Item {
	items := make([]Item, 0, len(annotations)+len(hunks))
	placed := make([]bool, len(annotations))
	for hi := range hunks {
		h := hunks[hi]
		for ai := range annotations {
			if !placed[ai] && withinNeighborhood(&annotations[ai], &h) {
				placed[ai] = true
				a := annotations[ai]
				items = append(items, Item{Annotation: &a})
			}
		}
		items = append(items, Item{Hunk: &h})
	}
	for ai := range annotations {
		if !placed[ai] {
			a := annotations[ai]
			items = append(items, Item{Annotation: &a})
		}
	}
	return items
}
