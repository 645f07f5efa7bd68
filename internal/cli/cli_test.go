package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeTempComponent(t *testing.T, name, src string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestCheckCommandReportsOKForCleanFile(t *testing.T) {
	path := writeTempComponent(t, "a.pc", `public component App { render div { text "hi" } }`)
	out, err := runCLI(t, "check", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ok")
}

func TestCheckCommandFailsOnDuplicateSemanticID(t *testing.T) {
	path := writeTempComponent(t, "a.pc", `component Card { render div { text "x" } }
public component App {
    render div {
        Card { }
        Card { }
    }
}`)
	out, err := runCLI(t, "check", path)
	require.Error(t, err)
	assert.Contains(t, out, "error")
}

func TestFmtCommandPrintsReformattedSource(t *testing.T) {
	path := writeTempComponent(t, "a.pc", `public component App { render div { text "hi" } }`)
	out, err := runCLI(t, "fmt", path)
	require.NoError(t, err)
	assert.Contains(t, out, "component App")
}

func TestBuildCommandPrintsJSON(t *testing.T) {
	path := writeTempComponent(t, "a.pc", `public component App { render div { text "hi" } }`)
	out, err := runCLI(t, "build", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"nodes"`)
}
