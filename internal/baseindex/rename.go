package baseindex

// ResolveTargetPath reconciles a Target FileSection's old/new path names
// against the two base indices, returning the path each index should be
// queried under for this file.
//
// This mirrors the path-reconciliation shape of a snapshot delta (compare
// two path-keyed views of "the same file" and resolve identity across a
// rename) rather than content hashing: a Target hunk's old-side lines are
// base-relative to whatever OldBase called the file, and its new-side
// lines are base-relative to whatever NewBase called it, which need not
// be the same name as the Target's own old/new path when the rename
// happened in the base move rather than in the Target commit itself.
func ResolveTargetPath(targetOldPath, targetNewPath string, old, new *Index) (oldKey, newKey string) {
	oldKey = pickKey(old, targetOldPath, targetNewPath)
	newKey = pickKey(new, targetNewPath, targetOldPath)
	return oldKey, newKey
}

// pickKey prefers the primary name if the index has data for it, and
// falls back to the secondary name (the file's other known identity)
// otherwise — covering the case where a base diff renamed the file under
// a name the Target diff doesn't use directly.
func pickKey(idx *Index, primary, secondary string) string {
	if idx == nil {
		return primary
	}
	if idx.HasFile(primary) {
		return primary
	}
	if secondary != "" && idx.HasFile(secondary) {
		return secondary
	}
	return primary
}
