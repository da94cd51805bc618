package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFixture = `{"datasets": [
  {"name": "floor1", "devices": [
    {"id": "gw1", "name": "Gateway", "tags": ["Gateway"], "status": "online", "connectedTo": ["pc1"]},
    {"id": "pc1", "name": "PC", "tags": ["Device"], "status": "offline"}
  ]},
  {"name": "floor2", "devices": [
    {"id": "pc2", "name": "Laptop", "tags": ["Device"]}
  ]}
]}`

// run executes the CLI against a temp config and fixture
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cfgPath := filepath.Join(dir, "netmap.yaml")
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		fixture := filepath.Join(dir, "fixture.json")
		require.NoError(t, os.WriteFile(fixture, []byte(testFixture), 0o644))
		cfg := "fixtures:\n  path: " + fixture + "\nlogging:\n  output: discard\n"
		require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))
	}

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestLayoutCommand(t *testing.T) {
	out, err := run(t, t.TempDir(), "layout", "floor1", "--steps", "300", "--select", "pc1")
	require.NoError(t, err)

	var res layoutResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "floor1", res.Scope)
	assert.Len(t, res.Main, 2)
	assert.Equal(t, "pc1", res.Focus)
	assert.NotEmpty(t, res.Sidebar)
}

func TestLayoutUnknownScope(t *testing.T) {
	_, err := run(t, t.TempDir(), "layout", "roof")
	assert.Error(t, err)
}

func TestExportCommand(t *testing.T) {
	out, err := run(t, t.TempDir(), "export", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "floor2")
	assert.Contains(t, out, "pc2")

	_, err = run(t, t.TempDir(), "export", "--format", "csv")
	assert.Error(t, err)
}

func TestImportThenLoadFromDatabase(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "netmap.db")
	fixture := filepath.Join(dir, "import.json")
	require.NoError(t, os.WriteFile(fixture, []byte(testFixture), 0o644))

	out, err := run(t, dir, "--db", db, "import", fixture)
	require.NoError(t, err)
	assert.Contains(t, out, "floor1")
	assert.Contains(t, out, "DEVICES")

	out, err = run(t, dir, "--db", db, "export", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"gw1"`)
}

func TestPrintTable(t *testing.T) {
	var b bytes.Buffer
	printTable(&b, []string{"NAME", "N"}, [][]string{{"日本", "1"}, {"floor10", "22"}})
	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "  日本     1 ", lines[2])
	assert.Equal(t, "  floor10  22", lines[3])
}

func TestLiveTheme(t *testing.T) {
	var th liveTheme
	assert.False(t, th.Dark())
	th.dark.Store(true)
	assert.True(t, th.Dark())
}
