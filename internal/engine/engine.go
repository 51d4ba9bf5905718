// Package engine wires the diffdoc/baseindex/correlate/emit packages
// together into the three operations §6 names.
package engine

import (
	"diffmodbase/internal/baseindex"
	"diffmodbase/internal/correlate"
	"diffmodbase/internal/diffdoc"
	"diffmodbase/internal/emit"
	"diffmodbase/internal/validate"
)

// ParseDiff parses a single unified diff. Exposed directly as one of the
// three §6 operations, and used internally by ComposeModuloBase.
func ParseDiff(data []byte) (*diffdoc.Diff, *diffdoc.ParseError) {
	return diffdoc.Parse(data)
}

// ComposeDiffs concatenates two already-parsed diffs' file sections in
// order (§6's third operation), used by tests that need to assemble a
// composite diff without round-tripping through text.
func ComposeDiffs(first, second diffdoc.Diff) diffdoc.Diff {
	out := diffdoc.Diff{}
	out.Files = append(out.Files, first.Files...)
	out.Files = append(out.Files, second.Files...)
	return out
}

// ComposeModuloBase is the engine's main operation (§6): given OldBase
// (A..C), NewBase (B..D) and Target (C..D) unified diffs, it returns the
// Target diff reduced and annotated modulo the base's own motion.
func ComposeModuloBase(oldBase, newBase, target []byte) ([]byte, *diffdoc.ParseError) {
	oldDiff, err := parseAndValidate(oldBase)
	if err != nil {
		return nil, err
	}
	newDiff, err := parseAndValidate(newBase)
	if err != nil {
		return nil, err
	}
	targetDiff, err := parseAndValidate(target)
	if err != nil {
		return nil, err
	}

	oldIdx := baseindex.Build(oldDiff)
	newIdx := baseindex.Build(newDiff)

	classified, cerr := correlate.Correlate(oldIdx, newIdx, targetDiff)
	if cerr != nil {
		return nil, cerr
	}
	return emit.Emit(classified), nil
}

// parseAndValidate parses a diff and re-checks its structural invariants.
// The parser already rejects most malformed input as it scans; Diff
// catches the remainder (duplicate file identities, out-of-order hunks a
// hand-assembled diffdoc.Diff could carry) and is reported through the
// same closed error taxonomy so callers never see a second error type.
func parseAndValidate(data []byte) (*diffdoc.Diff, *diffdoc.ParseError) {
	d, err := diffdoc.Parse(data)
	if err != nil {
		return nil, err
	}
	if verr := validate.Diff(d); verr != nil {
		return nil, &diffdoc.ParseError{
			Kind:    diffdoc.HunkRangeOverlap,
			Offset:  0,
			Summary: verr.Error(),
		}
	}
	return d, nil
}
