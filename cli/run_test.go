package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	assert.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// project lays out a source tree plus configuration and returns the
// globals pointing at it.
func project(t *testing.T, src string) (*Globals, string) {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "in", "doc.txt"), src)

	cfg := fmt.Sprintf(`
options:
  in: %s
  out: %s
variables:
  name: milo
  my-var.v2: seven
dimensions:
  greet: [casual, shout]
paths:
  doc.txt: doc.txt
`, filepath.Join(dir, "in"), filepath.Join(dir, "out"))
	cfgPath := filepath.Join(dir, "facet.yaml")
	writeFile(t, cfgPath, cfg)

	return &Globals{Config: cfgPath, ReportLevel: 0}, filepath.Join(dir, "out", "doc.txt")
}

func TestRunOnce(t *testing.T) {
	t.Run("writes the substituted document", func(t *testing.T) {
		globals, dest := project(t, "#greet{hi ## hey}# #$name#\n")

		err := runOnce(context.Background(), io.Discard, io.Discard, globals, []string{"shout"}, false, true)
		assert.NoError(t, err)

		data, err2 := os.ReadFile(dest)
		assert.NoError(t, err2)
		assert.Equal(t, "hey milo\n", string(data))
	})

	t.Run("variable names may carry symbols", func(t *testing.T) {
		globals, dest := project(t, "id: #$my-var.v2#\n")

		err := runOnce(context.Background(), io.Discard, io.Discard, globals, nil, false, true)
		assert.NoError(t, err)

		data, err2 := os.ReadFile(dest)
		assert.NoError(t, err2)
		assert.Equal(t, "id: seven\n", string(data))
	})

	t.Run("dry run writes nothing", func(t *testing.T) {
		globals, dest := project(t, "#greet{hi ## hey}#\n")

		var stdout bytes.Buffer
		err := runOnce(context.Background(), &stdout, io.Discard, globals, []string{"casual"}, true, true)
		assert.NoError(t, err)

		_, err2 := os.Stat(dest)
		assert.True(t, os.IsNotExist(err2))
		assert.Contains(t, stdout.String(), "nothing written")
	})

	t.Run("unknown variable aborts before writing", func(t *testing.T) {
		globals, dest := project(t, "#$ghost#\n")

		err := runOnce(context.Background(), io.Discard, io.Discard, globals, nil, false, true)
		assert.IsError(t, err, errRunFailed)

		_, err2 := os.Stat(dest)
		assert.True(t, os.IsNotExist(err2))
	})

	t.Run("undecided dimension aborts", func(t *testing.T) {
		globals, _ := project(t, "#other{a ## b}#\n")

		err := runOnce(context.Background(), io.Discard, io.Discard, globals, nil, false, true)
		assert.IsError(t, err, errRunFailed)
	})

	t.Run("undeclared dimension decided numerically", func(t *testing.T) {
		globals, dest := project(t, "#other{a ## b}#\n")

		err := runOnce(context.Background(), io.Discard, io.Discard, globals, []string{"other=1"}, false, true)
		assert.NoError(t, err)

		data, err2 := os.ReadFile(dest)
		assert.NoError(t, err2)
		assert.Equal(t, "b\n", string(data))
	})

	t.Run("conflicting decisions abort", func(t *testing.T) {
		globals, _ := project(t, "#greet{hi ## hey}#\n")

		err := runOnce(context.Background(), io.Discard, io.Discard, globals, []string{"casual", "shout"}, false, true)
		assert.IsError(t, err, errRunFailed)
	})

	t.Run("malformed decision aborts", func(t *testing.T) {
		globals, _ := project(t, "plain\n")

		err := runOnce(context.Background(), io.Discard, io.Discard, globals, []string{"9bad"}, false, true)
		assert.IsError(t, err, errRunFailed)
	})

	t.Run("binary files are copied verbatim", func(t *testing.T) {
		dir := t.TempDir()
		blob := []byte{0xff, 0xfe, 0x00, 0x80, 0x01}
		assert.NoError(t, os.MkdirAll(filepath.Join(dir, "in"), 0o755))
		assert.NoError(t, os.WriteFile(filepath.Join(dir, "in", "logo.bin"), blob, 0o644))

		cfg := fmt.Sprintf("options:\n  in: %s\n  out: %s\npaths:\n  logo.bin: logo.bin\n",
			filepath.Join(dir, "in"), filepath.Join(dir, "out"))
		cfgPath := filepath.Join(dir, "facet.yaml")
		writeFile(t, cfgPath, cfg)

		globals := &Globals{Config: cfgPath, ReportLevel: 0}
		err := runOnce(context.Background(), io.Discard, io.Discard, globals, nil, false, true)
		assert.NoError(t, err)

		data, err2 := os.ReadFile(filepath.Join(dir, "out", "logo.bin"))
		assert.NoError(t, err2)
		assert.Equal(t, blob, data)
	})

	t.Run("existing destination is skipped without force", func(t *testing.T) {
		globals, dest := project(t, "fresh\n")
		writeFile(t, dest, "stale\n")

		// Stdin is not a terminal here, so the prompt answers no.
		var stdout bytes.Buffer
		err := runOnce(context.Background(), &stdout, io.Discard, globals, nil, false, false)
		assert.NoError(t, err)

		data, err2 := os.ReadFile(dest)
		assert.NoError(t, err2)
		assert.Equal(t, "stale\n", string(data))
		assert.Contains(t, stdout.String(), "Skipped")
	})
}

func TestLoadConfigFile(t *testing.T) {
	t.Run("missing default config is empty", func(t *testing.T) {
		cwd, err := os.Getwd()
		assert.NoError(t, err)
		defer func() { _ = os.Chdir(cwd) }()
		assert.NoError(t, os.Chdir(t.TempDir()))

		file, err := loadConfigFile(&Globals{Config: ".facet.yaml"})
		assert.NoError(t, err)
		assert.Equal(t, 0, len(file.Paths))
	})

	t.Run("missing explicit config is an error", func(t *testing.T) {
		_, err := loadConfigFile(&Globals{Config: filepath.Join(t.TempDir(), "nope.yaml")})
		assert.Error(t, err)
	})
}
