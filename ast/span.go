package ast

import (
	"fmt"
	"math"
)

// Pos is a byte offset into the shared source-map address space.
// Every loaded file occupies its own range of the space, so a Pos
// identifies both a file and a location inside it.
type Pos uint64

// Add shifts the position forward by n bytes.
func (p Pos) Add(n uint64) Pos { return p + Pos(n) }

// Sub returns the distance between two positions. Panics if q > p.
func (p Pos) Sub(q Pos) uint64 {
	if q > p {
		panic(fmt.Sprintf("ast: position underflow: %d - %d", p, q))
	}
	return uint64(p - q)
}

func (p Pos) String() string { return fmt.Sprintf("%d", uint64(p)) }

// Span is a half-open byte range [Lo, Hi) in the source-map address
// space. Zero-length spans are legal; the lexer emits one for EOF.
type Span struct {
	Lo Pos
	Hi Pos
}

// NewSpan builds a span from raw offsets.
func NewSpan(lo, hi uint64) Span {
	return Span{Lo: Pos(lo), Hi: Pos(hi)}
}

// Empty is the identity for Merge: merging any span with Empty yields
// that span unchanged.
var Empty = Span{Lo: Pos(math.MaxUint64), Hi: Pos(0)}

// Nil marks "no location". Diagnostics carrying Nil are rendered
// without source context.
var Nil = Span{Lo: Pos(0), Hi: Pos(math.MaxUint64)}

// IsNil reports whether the span is the no-location sentinel.
func (s Span) IsNil() bool { return s == Nil }

// Len returns the number of bytes the span covers.
func (s Span) Len() uint64 {
	if s.Hi < s.Lo {
		return 0
	}
	return uint64(s.Hi - s.Lo)
}

// Merge returns the smallest span containing both s and other.
func (s Span) Merge(other Span) Span {
	return Span{Lo: min(s.Lo, other.Lo), Hi: max(s.Hi, other.Hi)}
}

// Subspan carves [begin, end) out of s, relative to s.Lo.
// Panics when the range does not fit inside s.
func (s Span) Subspan(begin, end uint64) Span {
	if end < begin || s.Lo+Pos(end) > s.Hi {
		panic(fmt.Sprintf("ast: subspan [%d, %d) out of bounds of %s", begin, end, s))
	}
	return Span{Lo: s.Lo + Pos(begin), Hi: s.Lo + Pos(end)}
}

// Contains reports whether p falls inside the span.
func (s Span) Contains(p Pos) bool { return s.Lo <= p && p < s.Hi }

// Correct rebases the span to file-local coordinates by removing the
// file's start offset. Panics if the span starts before the offset.
func (s Span) Correct(offset Pos) Span {
	if offset > s.Lo {
		panic(fmt.Sprintf("ast: offset %d past span start %d", offset, s.Lo))
	}
	return Span{Lo: s.Lo - offset, Hi: s.Hi - offset}
}

// Text extracts the span's bytes from a file-local source string.
// The span must already be file-local (see Correct).
func (s Span) Text(source string) string {
	return source[s.Lo:s.Hi]
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d", uint64(s.Lo), uint64(s.Hi))
}
