// Package sourcemap resolves byte offsets into a source file to 1-based
// line/0-based column locations, the way a host parser's own position
// tracking would, but built once by New over a plain byte slice so it stays
// decoupled from any particular parser library.
package sourcemap

import "sort"

// Span is a half-open byte range [Lo, Hi) into a source file.
type Span struct {
	Lo uint32
	Hi uint32
}

// Location is a resolved line/column pair. Line is 1-based, Column is
// 0-based; formatters convert to whatever convention their output format
// wants.
type Location struct {
	Line   int
	Column int
}

// Range is a resolved start/end location pair.
type Range struct {
	Start Location
	End   Location
}

// Map indexes a source file's line-start byte offsets for O(log n) lookup.
type Map struct {
	source      []byte
	lineStarts  []uint32
}

// New scans src once for line-start offsets.
func New(src []byte) *Map {
	m := &Map{source: src, lineStarts: []uint32{0}}
	for i, b := range src {
		if b == '\n' {
			m.lineStarts = append(m.lineStarts, uint32(i+1))
		}
	}
	return m
}

// Location resolves a byte offset to a line/column pair.
func (m *Map) Location(offset uint32) Location {
	idx := sort.Search(len(m.lineStarts), func(i int) bool {
		return m.lineStarts[i] > offset
	}) - 1
	if idx < 0 {
		idx = 0
	}
	line := idx + 1
	col := int(offset - m.lineStarts[idx])
	return Location{Line: line, Column: col}
}

// SpanToLocation resolves a span's start offset.
func (m *Map) SpanToLocation(s Span) Location {
	return m.Location(s.Lo)
}

// SpanToRange resolves both ends of a span.
func (m *Map) SpanToRange(s Span) Range {
	return Range{Start: m.Location(s.Lo), End: m.Location(s.Hi)}
}

// Text returns the source text covered by a span.
func (m *Map) Text(s Span) string {
	if int(s.Hi) > len(m.source) {
		s.Hi = uint32(len(m.source))
	}
	if int(s.Lo) > len(m.source) {
		return ""
	}
	return string(m.source[s.Lo:s.Hi])
}

// LineText returns the raw text of a single 1-based line, without its
// trailing newline, for formatters that show a source snippet.
func (m *Map) LineText(line int) string {
	if line < 1 || line > len(m.lineStarts) {
		return ""
	}
	start := m.lineStarts[line-1]
	var end uint32
	if line < len(m.lineStarts) {
		end = m.lineStarts[line] - 1
	} else {
		end = uint32(len(m.source))
	}
	if end < start {
		end = start
	}
	if int(end) > len(m.source) {
		end = uint32(len(m.source))
	}
	return string(m.source[start:end])
}
