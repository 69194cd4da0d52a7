package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandTemplate(t *testing.T) {
	content := "<p>\n  <br>{DATA_HERE}\n</p>"

	got := ExpandTemplate(content, []string{"`/a` - first", "`/b` - second"})

	assert.Equal(t, "<p>\n  <br>Commands:\n  <br>\n  <br>`/a` - first\n  <br>`/b` - second\n</p>", got)
}

func TestExpandTemplate_NoMarker(t *testing.T) {
	assert.Equal(t, "plain", ExpandTemplate("plain", []string{"`/a` - first"}))
}

func TestWriteCommandDocs(t *testing.T) {
	templates := t.TempDir()
	out := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(templates, "top.md"), []byte(" <br>{DATA_HERE}"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(templates, "nested"), 0o755))

	require.NoError(t, WriteCommandDocs(templates, out))

	written, err := os.ReadFile(filepath.Join(out, "top.md"))
	require.NoError(t, err)
	assert.Contains(t, string(written), " <br>Commands:")
	assert.Contains(t, string(written), " <br>`/room create <name> <password>`")
	assert.NotContains(t, string(written), "{DATA_HERE}")
}
