package correlate

import (
	"sort"

	"diffmodbase/internal/baseindex"
	"diffmodbase/internal/diffdoc"
)

// selectAnnotations picks NewBase hunks to surface as '#'-prefixed
// annotations (§4.4): a NewBase hunk is selected when its new-side range
// falls within ConflictNeighborhood lines of a surviving Target hunk's
// new-side range. A NewBase hunk with no added or removed lines carries no
// base change and is never selected. Selection is deduplicated — a NewBase
// hunk that neighbors more than one surviving Target hunk is still emitted
// once — and the result is sorted by position, so annotations placed ahead
// of the same Target hunk come out in line order.
func selectAnnotations(newIdx *baseindex.Index, newKey string, survivors []ClassifiedHunk) []diffdoc.Hunk {
	if len(survivors) == 0 {
		return nil
	}
	candidates := newIdx.HunksForPath(newKey)
	if len(candidates) == 0 {
		return nil
	}

	seen := make(map[int]bool)
	var picked []diffdoc.Hunk
	for ci := range candidates {
		c := &candidates[ci]
		changed := false
		for _, l := range c.Body {
			if l.Kind != diffdoc.Context {
				changed = true
				break
			}
		}
		if !changed {
			continue
		}
		for hi := range survivors {
			h := &survivors[hi]
			if withinNeighborhood(c, h) {
				if !seen[ci] {
					seen[ci] = true
					picked = append(picked, *c)
				}
				break
			}
		}
	}

	sort.Slice(picked, func(i, j int) bool { return picked[i].NewStart < picked[j].NewStart })
	return picked
}

// withinNeighborhood reports whether a NewBase hunk's new-side range and a
// classified Target hunk's new-side range are within ConflictNeighborhood
// lines of each other, counting direct overlap as within.
func withinNeighborhood(c *diffdoc.Hunk, h *ClassifiedHunk) bool {
	cStart, cEnd := c.NewStart, c.NewStart+c.NewLen-1
	hStart, hEnd := h.NewStart, h.NewStart+h.NewLen-1
	if cEnd+ConflictNeighborhood < hStart {
		return false
	}
	if hEnd+ConflictNeighborhood < cStart {
		return false
	}
	return true
}
