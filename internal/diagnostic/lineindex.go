package diagnostic

import "sort"

// LineIndex maps byte offsets in a source text to line/column positions.
// Built once per composed source; safe for concurrent readers.
type LineIndex struct {
	starts []int
	length int
}

// NewLineIndex builds an index over the given source text
func NewLineIndex(text string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{starts: starts, length: len(text)}
}

// PosAt converts a byte offset into a position. Offsets outside the text
// are clamped so every diagnostic resolves to a real location.
func (ix *LineIndex) PosAt(offset int) Pos {
	if offset < 0 {
		offset = 0
	}
	if offset > ix.length {
		offset = ix.length
	}
	line := sort.Search(len(ix.starts), func(i int) bool {
		return ix.starts[i] > offset
	})
	return Pos{
		Offset: offset,
		Line:   line,
		Column: offset - ix.starts[line-1] + 1,
	}
}

// OffsetOf converts a one-based line/column pair into a byte offset,
// clamped to the text.
func (ix *LineIndex) OffsetOf(line, column int) int {
	if line < 1 {
		line = 1
	}
	if line > len(ix.starts) {
		line = len(ix.starts)
	}
	offset := ix.starts[line-1] + column - 1
	if offset < 0 {
		offset = 0
	}
	if offset > ix.length {
		offset = ix.length
	}
	return offset
}

// RangeAt converts a half-open byte offset pair into a range
func (ix *LineIndex) RangeAt(start, end int) Range {
	if end < start {
		end = start
	}
	return Range{Start: ix.PosAt(start), End: ix.PosAt(end)}
}
