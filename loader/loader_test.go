package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/facet/diag"
)

func write(t *testing.T, path string, data []byte) {
	t.Helper()
	assert.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	assert.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestLoadPaths(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "in", "a.txt"), []byte("hello #$who#"))
	write(t, filepath.Join(dir, "in", "b.txt"), []byte("#d{x ## y}#"))
	write(t, filepath.Join(dir, "in", "logo.bin"), []byte{0xff, 0xfe, 0x80, 0x00})

	h := diag.NewHandler(diag.Flags{ReportLevel: 0})
	l := New(h, WithPrefixes(filepath.Join(dir, "in"), filepath.Join(dir, "out")))

	docs := l.LoadPaths(map[string]string{
		"b.txt":    "b.txt",
		"a.txt":    "a.txt",
		"logo.bin": "logo.bin",
	})

	assert.Equal(t, 3, len(docs))
	assert.Equal(t, 0, h.ErrCount())

	// Sorted by source path regardless of map order.
	assert.Equal(t, "a.txt", docs[0].File.Name)
	assert.Equal(t, "b.txt", docs[1].File.Name)
	assert.Equal(t, "logo.bin", docs[2].File.Name)

	assert.Equal(t, filepath.Join(dir, "out", "a.txt"), docs[0].File.Dest)

	assert.NoError(t, docs[0].Err)
	assert.Equal(t, 2, len(docs[0].Terms))
	assert.True(t, docs[2].Binary())
	assert.Equal(t, 0, len(docs[2].Terms))
}

func TestLoadPathsMissingFile(t *testing.T) {
	h := diag.NewHandler(diag.Flags{ReportLevel: 0})
	l := New(h)

	docs := l.LoadPaths(map[string]string{filepath.Join(t.TempDir(), "nope.txt"): "out.txt"})
	assert.Equal(t, 0, len(docs))
	assert.Equal(t, 1, h.ErrCount())
}

func TestParseFailureIsPerDocument(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "bad.txt"), []byte("#d{never closed"))
	write(t, filepath.Join(dir, "good.txt"), []byte("fine"))

	h := diag.NewHandler(diag.Flags{ReportLevel: 0})
	l := New(h, WithPrefixes(dir, dir))

	docs := l.LoadPaths(map[string]string{"bad.txt": "bad.out", "good.txt": "good.out"})
	assert.Equal(t, 2, len(docs))
	assert.Error(t, docs[0].Err)
	assert.NoError(t, docs[1].Err)
}

func TestLoadVirtual(t *testing.T) {
	h := diag.NewHandler(diag.Flags{ReportLevel: 0})
	l := New(h)

	doc := l.LoadVirtual("<stdin>", "#$a# and #$b#")
	assert.NoError(t, doc.Err)
	assert.Equal(t, 3, len(doc.Terms))
}
