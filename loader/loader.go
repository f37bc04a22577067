// Package loader turns the configured path mapping into parsed
// documents backed by one shared source map.
package loader

import (
	"path/filepath"

	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/facet/ast"
	"github.com/robinvdvleuten/facet/diag"
	"github.com/robinvdvleuten/facet/parser"
	"github.com/robinvdvleuten/facet/sourcemap"
)

// Document is one loaded source and its parse result.
type Document struct {
	File  *sourcemap.File
	Terms ast.Terms
	// Err is the parse failure, if any. A failed document is still
	// returned so the rest of the run can proceed, but it must not be
	// written out.
	Err error
}

// Binary reports whether the document bypasses parsing entirely.
func (d *Document) Binary() bool { return d.File.Binary }

// Loader loads sources through a shared source map and parses them.
type Loader struct {
	smap    *sourcemap.Map
	handler *diag.Handler

	inPrefix  string
	outPrefix string
}

// Option configures a Loader.
type Option func(*Loader)

// WithMap loads through an existing source map instead of a fresh
// one, so diagnostics rendered elsewhere can resolve the same
// positions.
func WithMap(m *sourcemap.Map) Option {
	return func(l *Loader) { l.smap = m }
}

// WithPrefixes prepends in to every source path and out to every
// destination path.
func WithPrefixes(in, out string) Option {
	return func(l *Loader) {
		l.inPrefix = in
		l.outPrefix = out
	}
}

// New creates a loader reporting through the handler.
func New(h *diag.Handler, opts ...Option) *Loader {
	l := &Loader{smap: sourcemap.New(), handler: h}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Map returns the source map behind the loaded documents.
func (l *Loader) Map() *sourcemap.Map { return l.smap }

// LoadPaths loads and parses every source in the mapping, in sorted
// source-path order so runs are deterministic. Unreadable files are
// reported and skipped; parse failures are recorded on their document.
func (l *Loader) LoadPaths(paths map[string]string) []*Document {
	srcs := make([]string, 0, len(paths))
	for src := range paths {
		srcs = append(srcs, src)
	}
	slices.Sort(srcs)

	var docs []*Document
	for _, src := range srcs {
		path := filepath.Join(l.inPrefix, src)
		dest := filepath.Join(l.outPrefix, paths[src])

		f, err := l.smap.Load(path, dest)
		if err != nil {
			l.handler.Errorf("cannot load %s: %v", path, err).Emit()
			continue
		}
		docs = append(docs, l.parse(f))
	}
	return docs
}

// LoadVirtual parses an in-memory source, for stdin input and tests.
func (l *Loader) LoadVirtual(name, src string) *Document {
	return l.parse(l.smap.AddVirtual(name, src))
}

func (l *Loader) parse(f *sourcemap.File) *Document {
	if f.Binary {
		return &Document{File: f}
	}
	terms, err := parser.Parse(f, l.handler)
	return &Document{File: f, Terms: terms, Err: err}
}
