// Package baseindex builds, for one base diff (OldBase or NewBase), a
// per-file lookup from a base-relative line number to what the base
// change did at that position (§4.2). The Correlator queries two of
// these (one per base diff) to decide whether a Target line is explained
// by the base having moved underneath the branch.
//
// Hunks are kept in a flat arena and referenced by a small integer
// handle (§9 design note: "implement the index as a mapping from
// (path, lineNumber) to (hunkId, offset) where hunkId is an integer
// handle into an arena of hunks owned by the parsed diff value") rather
// than by pointer or by copying line text into every map entry — this
// keeps the index a pure set of non-owning references into the diff it
// was built from, which is a FileSection's single owner (§3 Invariants).
package baseindex

import "diffmodbase/internal/diffdoc"

// Kind is what a base diff did at a given base-relative line.
type Kind byte

const (
	// Unchanged: the position is inside the file but not inside any hunk;
	// its content equals its counterpart on the other side.
	Unchanged Kind = iota
	// TouchedContext: the position is a context line inside a hunk.
	TouchedContext
	// BaseAdded: the line was introduced by the base change at this position.
	BaseAdded
	// BaseRemoved: the line was removed by the base change at this position.
	BaseRemoved
)

// Lookup is the result of querying an Index for one line.
type Lookup struct {
	Kind Kind
	Text string
}

// HunkID is a handle into an Index's internal hunk arena.
type HunkID int

type lineRef struct {
	kind   Kind
	hunk   HunkID
	offset int // index into the hunk's Body
}

// Index answers, for a given file path and base-relative line number,
// what the indexed base diff did there, on either the old (pre-base) or
// new (post-base) side.
type Index struct {
	arena []arenaEntry

	byOldLine map[string]map[int]lineRef
	byNewLine map[string]map[int]lineRef

	// hunksByPath lists, per path, the HunkIDs touching that path, in
	// diff order — used by the correlator's annotation-selection pass
	// (§4.3) to scan a base diff's hunks for a given file.
	hunksByPath map[string][]HunkID
}

type arenaEntry struct {
	path string
	hunk diffdoc.Hunk
}

// Build constructs an Index over one base diff (OldBase or NewBase).
func Build(d *diffdoc.Diff) *Index {
	idx := &Index{
		byOldLine:   make(map[string]map[int]lineRef),
		byNewLine:   make(map[string]map[int]lineRef),
		hunksByPath: make(map[string][]HunkID),
	}
	if d == nil {
		return idx
	}

	for fi := range d.Files {
		fs := &d.Files[fi]
		keys := indexKeys(fs)
		for _, h := range fs.Hunks {
			id := HunkID(len(idx.arena))
			idx.arena = append(idx.arena, arenaEntry{path: primaryKey(fs), hunk: h})

			oldLine := h.OldStart
			newLine := h.NewStart
			for offset, l := range h.Body {
				switch l.Kind {
				case diffdoc.Context:
					for _, k := range keys {
						idx.setOld(k, oldLine, lineRef{kind: TouchedContext, hunk: id, offset: offset})
						idx.setNew(k, newLine, lineRef{kind: TouchedContext, hunk: id, offset: offset})
					}
					oldLine++
					newLine++
				case diffdoc.Removed:
					for _, k := range keys {
						idx.setOld(k, oldLine, lineRef{kind: BaseRemoved, hunk: id, offset: offset})
					}
					oldLine++
				case diffdoc.Added:
					for _, k := range keys {
						idx.setNew(k, newLine, lineRef{kind: BaseAdded, hunk: id, offset: offset})
					}
					newLine++
				}
			}

			for _, k := range keys {
				idx.hunksByPath[k] = append(idx.hunksByPath[k], id)
			}
		}
	}
	return idx
}

// indexKeys returns the path(s) a FileSection's hunks should be filed
// under: both OldPath and NewPath when they differ (a rename), so the
// Correlator can resolve a Target reference to either name (§4.2).
func indexKeys(fs *diffdoc.FileSection) []string {
	var keys []string
	seen := make(map[string]struct{}, 2)
	add := func(p string) {
		if p == "" {
			return
		}
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		keys = append(keys, p)
	}
	add(fs.OldPath)
	add(fs.NewPath)
	return keys
}

func primaryKey(fs *diffdoc.FileSection) string {
	if fs.NewPath != "" {
		return fs.NewPath
	}
	return fs.OldPath
}

func (idx *Index) setOld(path string, line int, ref lineRef) {
	m := idx.byOldLine[path]
	if m == nil {
		m = make(map[int]lineRef)
		idx.byOldLine[path] = m
	}
	m[line] = ref
}

func (idx *Index) setNew(path string, line int, ref lineRef) {
	m := idx.byNewLine[path]
	if m == nil {
		m = make(map[int]lineRef)
		idx.byNewLine[path] = m
	}
	m[line] = ref
}

func (idx *Index) resolve(ref lineRef, ok bool) Lookup {
	if !ok {
		return Lookup{Kind: Unchanged}
	}
	return Lookup{Kind: ref.kind, Text: idx.arena[ref.hunk].hunk.Body[ref.offset].Text}
}

// OldLine reports what this base diff did at base-relative line `n` of
// `path`, on the pre-base side (side A for OldBase, side B for NewBase).
func (idx *Index) OldLine(path string, n int) Lookup {
	ref, ok := idx.byOldLine[path][n]
	return idx.resolve(ref, ok)
}

// NewLine reports what this base diff did at base-relative line `n` of
// `path`, on the post-base side (side C for OldBase, side D for NewBase).
func (idx *Index) NewLine(path string, n int) Lookup {
	ref, ok := idx.byNewLine[path][n]
	return idx.resolve(ref, ok)
}

// HunksForPath returns, in diff order, the hunks this index holds for a
// given file path (resolved through either side of a rename).
func (idx *Index) HunksForPath(path string) []diffdoc.Hunk {
	ids := idx.hunksByPath[path]
	if len(ids) == 0 {
		return nil
	}
	out := make([]diffdoc.Hunk, len(ids))
	for i, id := range ids {
		out[i] = idx.arena[id].hunk
	}
	return out
}

// HasFile reports whether this index has any hunks for path (through
// either side of a rename).
func (idx *Index) HasFile(path string) bool {
	return len(idx.hunksByPath[path]) > 0
}
