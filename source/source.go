// Package source defines named parser inputs and position mapping.
//
// A Source wraps a byte slice and maps byte offsets to 1-based line and
// column numbers (columns count runes, as in the rest of the library).
// A sub-input created with At shares the underlying content and keeps
// reporting positions in the coordinates of the original input, so a
// secondary parse over a captured span produces positions that point
// back into the original text.
package source

import (
	"bytes"
	"fmt"
	"unicode/utf8"
)

type Source struct {
	name          string
	content       []byte
	lineStarts    []int
	prevLineIndex int
	begin, end    int
}

func New(name string, content []byte) *Source {
	s := &Source{name: name, content: content, prevLineIndex: -1, end: len(content)}
	lineCnt := bytes.Count(content, []byte("\n")) + 1
	s.lineStarts = make([]int, lineCnt)
	j := 1
	for i := 0; i < len(content) && j < lineCnt; i++ {
		if content[i] == '\n' {
			s.lineStarts[j] = i + 1
			j++
		}
	}

	return s
}

func (s *Source) Name() string {
	return s.name
}

// Content returns the whole underlying content, not limited to the window
// of a sub-input. Offsets used throughout the library index this slice.
func (s *Source) Content() []byte {
	return s.content
}

// Begin returns the first offset belonging to this input.
func (s *Source) Begin() int {
	return s.begin
}

// End returns the offset just past the last byte of this input.
func (s *Source) End() int {
	return s.end
}

func (s *Source) Len() int {
	return s.end - s.begin
}

// Slice returns content between two absolute offsets.
func (s *Source) Slice(begin, end int) []byte {
	return s.content[begin:end]
}

// At returns a sub-input covering content[begin:end]. The sub-input keeps
// the original name and position mapping; begin and end must lie inside
// this input.
func (s *Source) At(begin, end int) *Source {
	if begin < s.begin || end > s.end || begin > end {
		panic(fmt.Sprintf("source %q: invalid sub-input [%d:%d] of [%d:%d]", s.name, begin, end, s.begin, s.end))
	}

	return &Source{
		name:          s.name,
		content:       s.content,
		lineStarts:    s.lineStarts,
		prevLineIndex: -1,
		begin:         begin,
		end:           end,
	}
}

func (s *Source) LineCol(pos int) (line, col int) {
	var lineIndex int
	if pos < 0 {
		pos = 0
	} else if pos >= len(s.content) {
		pos = len(s.content)
		lineIndex = len(s.lineStarts) - 1
	} else {
		lineIndex = s.findLineIndex(pos)
	}

	lineStart := s.lineStarts[lineIndex]
	return lineIndex + 1, utf8.RuneCount(s.content[lineStart:pos]) + 1
}

// Pos returns the byte offset for a 1-based line and column, clamped to
// the underlying content.
func (s *Source) Pos(line, col int) int {
	if line <= 0 || col <= 0 {
		return 0
	}

	l := len(s.content)
	if line > len(s.lineStarts) {
		return l
	}

	res := s.lineStarts[line-1] + col - 1
	if res > l {
		return l
	}
	return res
}

// MakePos builds a Pos for an absolute offset into this input.
func (s *Source) MakePos(offset int) Pos {
	line, col := s.LineCol(offset)
	return Pos{s, offset, line, col}
}

func (s *Source) findLineIndex(pos int) int {
	if s.prevLineIndex >= 0 && s.lineStarts[s.prevLineIndex] <= pos {
		lineIndex := s.prevLineIndex
		last := len(s.lineStarts) - 1
		for lineIndex <= last && s.lineStarts[lineIndex] <= pos {
			lineIndex++
		}
		lineIndex--
		s.prevLineIndex = lineIndex
		return lineIndex
	}

	lineStart := 0
	leftIndex := 0
	rightIndex := len(s.lineStarts) - 1
	index := 0
	if s.prevLineIndex >= 0 {
		lineStart = s.lineStarts[s.prevLineIndex]
		rightIndex = s.prevLineIndex
	}
	for leftIndex < rightIndex {
		index = (leftIndex + rightIndex + 1) >> 1
		lineStart = s.lineStarts[index]
		if lineStart == pos {
			return index
		}

		if lineStart < pos {
			leftIndex = index
		} else {
			rightIndex = index - 1
			index = rightIndex
		}
	}
	s.prevLineIndex = index
	return index
}

// Pos is a resolved position: source, byte offset, line, and column.
type Pos struct {
	src            *Source
	pos, line, col int
}

func (p Pos) Source() *Source {
	return p.src
}

func (p Pos) Offset() int {
	return p.pos
}

func (p Pos) Line() int {
	return p.line
}

func (p Pos) Col() int {
	return p.col
}

func (p Pos) SourceName() string {
	if p.src == nil {
		return ""
	}
	return p.src.Name()
}

func (p Pos) String() string {
	return fmt.Sprintf("%s:%d:%d", p.SourceName(), p.line, p.col)
}
