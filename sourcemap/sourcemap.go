// Package sourcemap assigns every loaded source file a range in one
// shared address space, so a single ast.Pos identifies a file and a
// byte inside it. Files are laid out back to back with a one-byte gap,
// and the map resolves positions back to file, line, and column for
// diagnostics.
package sourcemap

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/robinvdvleuten/facet/ast"
)

// File is one entry in the map.
type File struct {
	// Name is the file name without its directory.
	Name string
	// Path is where the file was read from.
	Path string
	// Dest is where the processed output should be written.
	Dest string
	// Src holds the decoded source text. Empty for binary files.
	Src string
	// Binary marks files that bypass the pipeline and are copied
	// byte for byte.
	Binary bool

	// Start and End delimit the file's range [Start, End) in the
	// source-map address space.
	Start ast.Pos
	End   ast.Pos

	// lines holds the start offset of each line, relative to Start.
	lines []ast.Pos
}

// Contains reports whether the span falls entirely inside the file.
func (f *File) Contains(span ast.Span) bool {
	return f.Start <= span.Lo && span.Hi <= f.End
}

// Position resolves a source-map position to 1-indexed line and column
// within the file. Column counts runes, not bytes.
func (f *File) Position(pos ast.Pos) (line, col int) {
	rel := pos - f.Start
	i := sort.Search(len(f.lines), func(i int) bool { return f.lines[i] > rel }) - 1
	if i < 0 {
		i = 0
	}
	col = utf8.RuneCountInString(f.Src[f.lines[i]:rel]) + 1
	return i + 1, col
}

// Line returns the text of the 1-indexed line, without its newline.
func (f *File) Line(n int) string {
	if n < 1 || n > len(f.lines) {
		return ""
	}
	start := int(f.lines[n-1])
	rest := f.Src[start:]
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		return rest[:i]
	}
	return rest
}

// Map owns the address space. It replaces any notion of a process-wide
// offset counter: construct one per run and pass it where needed.
type Map struct {
	mu    sync.RWMutex
	files []*File
	next  ast.Pos
}

// New creates an empty source map.
func New() *Map {
	return &Map{}
}

// Load reads path into the map and assigns it the next free range.
// Files that do not decode as UTF-8 are recorded as binary; their
// contents are not kept.
func (m *Map) Load(path, dest string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sourcemap: %w", err)
	}
	if !utf8.Valid(data) {
		f := &File{
			Name:   filepath.Base(path),
			Path:   path,
			Dest:   dest,
			Binary: true,
		}
		m.add(f, 1)
		return f, nil
	}
	f := &File{
		Name: filepath.Base(path),
		Path: path,
		Dest: dest,
		Src:  string(data),
	}
	f.lines = scanLines(f.Src)
	m.add(f, uint64(len(data)))
	return f, nil
}

// AddVirtual registers an in-memory source under the given name, e.g.
// stdin or test input.
func (m *Map) AddVirtual(name, src string) *File {
	f := &File{
		Name:  name,
		Path:  name,
		Src:   src,
		lines: scanLines(src),
	}
	m.add(f, uint64(len(src)))
	return f
}

func (m *Map) add(f *File, size uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f.Start = m.next
	f.End = m.next + ast.Pos(size)
	// Keep a gap so no position belongs to two files.
	m.next = f.End + 1
	m.files = append(m.files, f)
}

// LookupSource finds the file containing pos, or nil.
func (m *Map) LookupSource(pos ast.Pos) *File {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, f := range m.files {
		if f.Start <= pos && pos < f.End+1 {
			return f
		}
	}
	return nil
}

// Files returns the loaded files in load order.
func (m *Map) Files() []*File {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*File(nil), m.files...)
}

func scanLines(src string) []ast.Pos {
	lines := []ast.Pos{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			lines = append(lines, ast.Pos(i+1))
		}
	}
	return lines
}
