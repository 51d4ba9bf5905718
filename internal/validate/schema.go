// Package validate performs lightweight, dependency-free validation of
// parsed diffs. It is not a full grammar checker — diffdoc.Parse already
// rejects malformed input — but it catches structural invariants that a
// syntactically valid diff can still violate (§3): hunk line counts,
// non-overlapping/ascending ranges, and well-formed file identities.
//
// Goals:
//   - No external dependencies (stdlib only) — there is nothing here an
//     off-the-shelf validation library would help with; the invariants
//     are specific to the hunk/line model in internal/diffdoc.
//   - Aggregate multiple issues into a single error for better UX
//   - Deterministic, strict-enough checks without being overbearing
package validate

import (
	"errors"
	"fmt"
	"strings"

	"diffmodbase/internal/diffdoc"
)

// Diff validates structural constraints on a parsed diff beyond what the
// parser itself enforces:
//
//   - Every file section names at least one side (old or new path, or is
//     binary).
//   - Hunks within a file are in strictly ascending, non-overlapping
//     order on both the old and new side.
//   - Every hunk's declared OldLen/NewLen matches its body's actual
//     Context/Removed/Added counts (§3's line-count invariant).
//   - No duplicate file identity (same Path()) within the diff.
//
// Returns nil if everything checks out, or a single aggregated error
// describing every issue found.
func Diff(d *diffdoc.Diff) error {
	var errs errlist

	seen := make(map[string]struct{}, len(d.Files))
	for i := range d.Files {
		fs := &d.Files[i]
		prefix := fmt.Sprintf("files[%d] (%s)", i, fs.Path())

		if fs.OldPath == "" && fs.NewPath == "" && !fs.Binary {
			errs.add("%s: file section names neither an old nor a new path", prefix)
		}

		key := fs.Path()
		if key != "" {
			if _, dup := seen[key]; dup {
				errs.add("%s: duplicate file identity %q", prefix, key)
			} else {
				seen[key] = struct{}{}
			}
		}

		var prevOld, prevNew int
		for j := range fs.Hunks {
			h := &fs.Hunks[j]
			hp := fmt.Sprintf("%s.hunks[%d] (-%d,%d +%d,%d)", prefix, j, h.OldStart, h.OldLen, h.NewStart, h.NewLen)

			if j > 0 && (h.OldStart < prevOld || h.NewStart < prevNew) {
				errs.add("%s: hunk is out of order relative to the previous hunk", hp)
			}
			if got := h.CountOld(); got != h.OldLen {
				errs.add("%s: declared old length %d but body has %d old-side lines", hp, h.OldLen, got)
			}
			if got := h.CountNew(); got != h.NewLen {
				errs.add("%s: declared new length %d but body has %d new-side lines", hp, h.NewLen, got)
			}

			prevOld = h.OldStart + h.OldLen
			prevNew = h.NewStart + h.NewLen
		}
	}

	return errs.err()
}

// errlist aggregates multiple validation issues into a single error.
type errlist struct {
	msgs []string
}

func (e *errlist) add(format string, args ...any) {
	if e == nil {
		return
	}
	e.msgs = append(e.msgs, fmt.Sprintf(format, args...))
}

func (e *errlist) err() error {
	if e == nil || len(e.msgs) == 0 {
		return nil
	}
	return errors.New(strings.Join(e.msgs, "\n"))
}
