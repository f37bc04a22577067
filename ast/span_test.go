package ast

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestSpanLen(t *testing.T) {
	assert.Equal(t, uint64(5), NewSpan(2, 7).Len())
	assert.Equal(t, uint64(0), NewSpan(3, 3).Len())
	assert.Equal(t, uint64(0), Empty.Len())
}

func TestSpanMerge(t *testing.T) {
	tests := []struct {
		name string
		a, b Span
		want Span
	}{
		{"disjoint", NewSpan(0, 3), NewSpan(10, 12), NewSpan(0, 12)},
		{"overlapping", NewSpan(2, 8), NewSpan(5, 11), NewSpan(2, 11)},
		{"contained", NewSpan(0, 20), NewSpan(4, 6), NewSpan(0, 20)},
		{"identity left", Empty, NewSpan(4, 9), NewSpan(4, 9)},
		{"identity right", NewSpan(4, 9), Empty, NewSpan(4, 9)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Merge(tt.b))
			assert.Equal(t, tt.want, tt.b.Merge(tt.a))
		})
	}
}

func TestSubspan(t *testing.T) {
	sp := NewSpan(10, 20)
	assert.Equal(t, NewSpan(12, 15), sp.Subspan(2, 5))
	assert.Equal(t, NewSpan(10, 20), sp.Subspan(0, 10))
	assert.Equal(t, NewSpan(14, 14), sp.Subspan(4, 4))

	assert.Panics(t, func() { sp.Subspan(0, 11) })
	assert.Panics(t, func() { sp.Subspan(5, 3) })
}

func TestContains(t *testing.T) {
	sp := NewSpan(5, 8)
	assert.False(t, sp.Contains(4))
	assert.True(t, sp.Contains(5))
	assert.True(t, sp.Contains(7))
	assert.False(t, sp.Contains(8))
}

func TestCorrect(t *testing.T) {
	sp := NewSpan(100, 110)
	assert.Equal(t, NewSpan(0, 10), sp.Correct(100))
	assert.Equal(t, NewSpan(60, 70), sp.Correct(40))
	assert.Panics(t, func() { sp.Correct(101) })
}

func TestText(t *testing.T) {
	src := "hello, world"
	assert.Equal(t, "world", NewSpan(7, 12).Text(src))
	assert.Equal(t, "", NewSpan(3, 3).Text(src))
}

func TestNil(t *testing.T) {
	assert.True(t, Nil.IsNil())
	assert.False(t, Empty.IsNil())
	assert.False(t, NewSpan(0, 1).IsNil())
}

func TestPosSub(t *testing.T) {
	assert.Equal(t, uint64(4), Pos(9).Sub(Pos(5)))
	assert.Panics(t, func() { Pos(5).Sub(Pos(9)) })
}
