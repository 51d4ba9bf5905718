package diffdoc

import (
	"regexp"
	"strconv"
	"strings"
)

// hunkHeaderRe matches "@@ -O[,L] +N[,M] @@[ heading]".
var hunkHeaderRe = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@[ \t]?(.*)$`)

// rawLine is one input line plus the byte offset it starts at and whether
// it was followed by a newline in the source (false only ever happens for
// the final line of the input).
type rawLine struct {
	offset int
	text   string
	hasNL  bool
}

// splitLines breaks data into rawLines on '\n', tracking byte offsets so
// parse errors can report a precise position.
func splitLines(data []byte) []rawLine {
	if len(data) == 0 {
		return nil
	}
	var out []rawLine
	start := 0
	for i := 0; i < len(data); i++ {
		if data[i] == '\n' {
			out = append(out, rawLine{offset: start, text: string(data[start:i]), hasNL: true})
			start = i + 1
		}
	}
	if start < len(data) {
		out = append(out, rawLine{offset: start, text: string(data[start:]), hasNL: false})
	}
	return out
}

// Parse tokenizes a unified-diff byte stream into a Diff value, or
// returns a *ParseError describing the first grammar violation (§4.1).
func Parse(data []byte) (*Diff, *ParseError) {
	lines := splitLines(data)
	p := &parser{lines: lines}
	return p.parse()
}

type parser struct {
	lines []rawLine
	pos   int // index into lines
}

func (p *parser) eof() bool { return p.pos >= len(p.lines) }

func (p *parser) peek() rawLine {
	if p.eof() {
		return rawLine{offset: p.endOffset()}
	}
	return p.lines[p.pos]
}

func (p *parser) endOffset() int {
	if len(p.lines) == 0 {
		return 0
	}
	last := p.lines[len(p.lines)-1]
	return last.offset + len(last.text)
}

func (p *parser) advance() rawLine {
	l := p.peek()
	p.pos++
	return l
}

func (p *parser) parse() (*Diff, *ParseError) {
	d := &Diff{}

	// Any bytes before the first recognized header (e.g. a prepended
	// commit message) are silently discarded (§4.1).
	for !p.eof() && !p.looksLikeHeaderStart() {
		p.pos++
	}

	for !p.eof() {
		fs, err := p.parseFileSection()
		if err != nil {
			return nil, err
		}
		d.Files = append(d.Files, *fs)

		// Skip any stray non-header lines between file sections (mirrors
		// the leading-bytes tolerance; real inputs shouldn't have these,
		// but a tolerant scanner doesn't fail on them).
		for !p.eof() && !p.looksLikeHeaderStart() {
			p.pos++
		}
	}
	return d, nil
}

// looksLikeHeaderStart reports whether the scanner is positioned at a
// line that begins a new file section: a "diff --git " line, or (absent
// such a marker) a "--- " line immediately followed by a "+++ " line.
func (p *parser) looksLikeHeaderStart() bool {
	l := p.peek()
	if strings.HasPrefix(l.text, "diff --git ") {
		return true
	}
	if strings.HasPrefix(l.text, "--- ") && p.pos+1 < len(p.lines) &&
		strings.HasPrefix(p.lines[p.pos+1].text, "+++ ") {
		return true
	}
	return false
}

func (p *parser) parseFileSection() (*FileSection, *ParseError) {
	headerStart := p.pos
	fs := &FileSection{}

	if strings.HasPrefix(p.peek().text, "diff --git ") {
		gitLine := p.advance()
		// Take the paths from the "diff --git a/X b/Y" line itself so a
		// section with no ---/+++ pair (a mode-only change, an empty new
		// file) still names its file; rename and ---/+++ lines override them.
		rest := strings.TrimPrefix(gitLine.text, "diff --git ")
		if sep := strings.Index(rest, " b/"); strings.HasPrefix(rest, "a/") && sep >= 0 {
			fs.OldPath, fs.NewPath = rest[2:sep], rest[sep+3:]
		}
		for !p.eof() && !p.isMinusMinusMinus() && !strings.HasPrefix(p.peek().text, "@@") &&
			!strings.HasPrefix(p.peek().text, "diff --git ") {
			l := p.peek()
			switch {
			case strings.HasPrefix(l.text, "rename from "):
				fs.Renamed = true
				fs.OldPath = strings.TrimPrefix(l.text, "rename from ")
			case strings.HasPrefix(l.text, "rename to "):
				fs.Renamed = true
				fs.NewPath = strings.TrimPrefix(l.text, "rename to ")
			case strings.HasPrefix(l.text, "new file mode "):
				fs.OldAbsent = true
			case strings.HasPrefix(l.text, "deleted file mode "):
				fs.NewAbsent = true
			case strings.HasPrefix(l.text, "Binary files ") || strings.HasPrefix(l.text, "GIT binary patch"):
				fs.Binary = true
			}
			p.advance()
		}
	}

	if p.isMinusMinusMinus() {
		oldLine := p.advance()
		if !strings.HasPrefix(p.peek().text, "+++ ") {
			return nil, newErr(MalformedHeader, oldLine.offset, "'--- ' line not followed by '+++ ' line")
		}
		newLine := p.advance()
		oldPath, oldAbsent := stripGitPrefix(strings.TrimPrefix(oldLine.text, "--- "))
		newPath, newAbsent := stripGitPrefix(strings.TrimPrefix(newLine.text, "+++ "))
		if oldPath != "" || !fs.Renamed {
			fs.OldPath = oldPath
		}
		if newPath != "" || !fs.Renamed {
			fs.NewPath = newPath
		}
		fs.OldAbsent = fs.OldAbsent || oldAbsent
		fs.NewAbsent = fs.NewAbsent || newAbsent
	}

	if fs.OldPath == "" && fs.NewPath == "" && !fs.Binary {
		return nil, newErr(MalformedHeader, p.lines[headerStart].offset, "file section has no recognizable --- /+++ or rename header")
	}

	headerEnd := p.pos
	fs.Header = p.rawSpan(headerStart, headerEnd)

	if fs.Binary {
		// Binary patches and mode-only changes produce a FileSection with
		// zero hunks; they are passed through verbatim (§4.1).
		for !p.eof() && !p.looksLikeHeaderStart() && !strings.HasPrefix(p.peek().text, "@@") {
			p.advance()
		}
		fs.Header = p.rawSpan(headerStart, p.pos)
		return fs, nil
	}

	for !p.eof() && strings.HasPrefix(p.peek().text, "@@") {
		h, err := p.parseHunk()
		if err != nil {
			return nil, err
		}
		if len(fs.Hunks) > 0 {
			prev := fs.Hunks[len(fs.Hunks)-1]
			if h.OldStart <= prev.OldStart || h.NewStart <= prev.NewStart {
				return nil, newErr(HunkRangeOverlap, p.lines[p.pos-1].offset,
					"hunk starting at -%d/+%d is not strictly after the previous hunk at -%d/+%d",
					h.OldStart, h.NewStart, prev.OldStart, prev.NewStart)
			}
			if prev.OldStart+prev.OldLen > h.OldStart || prev.NewStart+prev.NewLen > h.NewStart {
				return nil, newErr(HunkRangeOverlap, p.lines[p.pos-1].offset,
					"hunk at -%d/+%d overlaps the previous hunk's range", h.OldStart, h.NewStart)
			}
		}
		fs.Hunks = append(fs.Hunks, *h)
	}

	return fs, nil
}

func (p *parser) isMinusMinusMinus() bool {
	return strings.HasPrefix(p.peek().text, "--- ")
}

// rawSpan rebuilds the verbatim byte block for lines [from, to).
func (p *parser) rawSpan(from, to int) []byte {
	if from >= to || from >= len(p.lines) {
		return nil
	}
	last := to - 1
	if last >= len(p.lines) {
		last = len(p.lines) - 1
	}
	var b strings.Builder
	for i := from; i <= last; i++ {
		b.WriteString(p.lines[i].text)
		if p.lines[i].hasNL {
			b.WriteByte('\n')
		}
	}
	return []byte(b.String())
}

// stripGitPrefix strips a leading "a/" or "b/" prefix and reports whether
// the path names /dev/null (absent side).
func stripGitPrefix(path string) (string, bool) {
	path = strings.TrimSuffix(path, "\t") // some tools append a tab before a timestamp
	if idx := strings.IndexByte(path, '\t'); idx >= 0 {
		path = path[:idx]
	}
	if path == "/dev/null" {
		return "", true
	}
	if strings.HasPrefix(path, "a/") {
		return path[2:], false
	}
	if strings.HasPrefix(path, "b/") {
		return path[2:], false
	}
	return path, false
}

func (p *parser) parseHunk() (*Hunk, *ParseError) {
	headerLine := p.advance()
	m := hunkHeaderRe.FindStringSubmatch(headerLine.text)
	if m == nil {
		return nil, newErr(MalformedHeader, headerLine.offset, "malformed hunk header %q", headerLine.text)
	}
	oldStart, _ := strconv.Atoi(m[1])
	oldLen := 1
	if m[2] != "" {
		oldLen, _ = strconv.Atoi(m[2])
	}
	newStart, _ := strconv.Atoi(m[3])
	newLen := 1
	if m[4] != "" {
		newLen, _ = strconv.Atoi(m[4])
	}

	h := &Hunk{OldStart: oldStart, OldLen: oldLen, NewStart: newStart, NewLen: newLen, Heading: m[5]}

	for !p.eof() {
		l := p.peek()
		if strings.HasPrefix(l.text, "@@") || p.looksLikeHeaderStart() {
			break
		}
		if strings.HasPrefix(l.text, `\ `) {
			p.advance()
			if len(h.Body) == 0 {
				return nil, newErr(MalformedHeader, l.offset, "no-newline marker with no preceding line")
			}
			h.Body[len(h.Body)-1].NoNewline = true
			continue
		}
		if l.text == "" {
			// A blank body line with no sign byte: treat as an empty
			// context line, a common quirk of hand-written diffs.
			p.advance()
			h.Body = append(h.Body, Line{Kind: Context, Text: ""})
			continue
		}
		sign := l.text[0]
		var kind LineKind
		switch sign {
		case '+':
			kind = Added
		case '-':
			kind = Removed
		case ' ':
			kind = Context
		default:
			// Not a recognized body line: the hunk body ends here. If the
			// declared counts aren't satisfied yet, that's a genuine
			// mismatch rather than a clean end-of-hunk.
			if h.CountOld() < h.OldLen || h.CountNew() < h.NewLen {
				return nil, newErr(HunkLineCountMismatch, l.offset,
					"hunk declared -%d,%d +%d,%d but body ended early", h.OldStart, h.OldLen, h.NewStart, h.NewLen)
			}
			goto doneBody
		}
		p.advance()
		h.Body = append(h.Body, Line{Kind: kind, Text: l.text[1:]})
	}
doneBody:

	if h.CountOld() != h.OldLen || h.CountNew() != h.NewLen {
		if p.eof() {
			return nil, newErr(UnexpectedEOF, p.endOffset(),
				"input ended before hunk -%d,%d +%d,%d was fully read", h.OldStart, h.OldLen, h.NewStart, h.NewLen)
		}
		return nil, newErr(HunkLineCountMismatch, headerLine.offset,
			"hunk declared -%d,%d +%d,%d but body has %d old-side and %d new-side lines",
			h.OldStart, h.OldLen, h.NewStart, h.NewLen, h.CountOld(), h.CountNew())
	}

	return h, nil
}
