package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olehluchkiv/spigen/internal/processor"
)

const animals = "../internal/manifest/testdata/animals.yaml"

// run executes the command tree with args and returns stdout, stderr and
// the JSON log stream.
func run(t *testing.T, args ...string) (string, string, string, error) {
	t.Helper()
	var stdout, stderr, logs bytes.Buffer
	root := newRootCmd(&logs)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), logs.String(), err
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "types.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestGenerate_Manifest(t *testing.T) {
	out := t.TempDir()
	stdout, stderr, logs, err := run(t, animals, "--output", out)
	require.NoError(t, err)
	assert.Equal(t, "warning: [dangling-reference] java.util.Comparator is referenced but not described; treated as opaque\n", stderr)

	assert.Contains(t, stdout, "Wrote 3 descriptor(s)")
	assert.Equal(t, "com.example.Cat\ncom.example.Dog\n",
		readFile(t, filepath.Join(out, "META-INF/services/com.example.Animal")))
	assert.Equal(t, "com.example.Mule\n",
		readFile(t, filepath.Join(out, "META-INF/services/com.example.Horse")))
	assert.Equal(t, "com.example.ByLength\ncom.example.ByValue\n",
		readFile(t, filepath.Join(out, "META-INF/services/java.util.Comparator")))

	assert.Contains(t, logs, `"run_id"`)
	assert.Contains(t, logs, "descriptor written")
}

func TestGenerate_SubcommandMatchesDefault(t *testing.T) {
	out := t.TempDir()
	_, _, _, err := run(t, "generate", animals, "-o", out)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(out, "META-INF/services/com.example.Animal"))
}

func TestGenerate_FailureWritesNothing(t *testing.T) {
	manifest := writeManifest(t, `
types:
  - id: p.Swimmer
  - id: p.Flyer
  - id: p.Duck
    interfaces: [p.Swimmer, p.Flyer]
    provider: {}
  - id: p.Goose
    interfaces: [p.Swimmer, p.Flyer]
    provider: {contracts: [p.Swimmer]}
`)
	out := filepath.Join(t.TempDir(), "classes")

	_, stderr, _, err := run(t, manifest, "-o", out)
	require.Error(t, err)
	assert.ErrorIs(t, err, processor.ErrResolutionFailed)
	assert.Contains(t, stderr, "error: [ambiguous-contract] p.Duck")
	assert.NoDirExists(t, out)
}

func TestGenerate_NoContractPolicy(t *testing.T) {
	manifest := writeManifest(t, `
types:
  - id: q.Miner
  - id: q.Rock
    provider: {}
  - id: q.Pick
    interfaces: [q.Miner]
    provider: {}
`)

	t.Run("skip by default", func(t *testing.T) {
		out := t.TempDir()
		_, stderr, _, err := run(t, manifest, "-o", out)
		require.NoError(t, err)
		assert.Contains(t, stderr, "warning: [no-contract] q.Rock")
		assert.Equal(t, "q.Pick\n", readFile(t, filepath.Join(out, "META-INF/services/q.Miner")))
	})

	t.Run("fail from flag", func(t *testing.T) {
		_, stderr, _, err := run(t, manifest, "-o", t.TempDir(), "--no-contract", "fail")
		require.ErrorIs(t, err, processor.ErrResolutionFailed)
		assert.Contains(t, stderr, "error: [no-contract] q.Rock")
	})

	t.Run("fail from environment", func(t *testing.T) {
		t.Setenv("SPIGEN_NO_CONTRACT", "fail")
		_, _, _, err := run(t, manifest, "-o", t.TempDir())
		require.ErrorIs(t, err, processor.ErrResolutionFailed)
	})

	t.Run("fail from config file", func(t *testing.T) {
		cfg := filepath.Join(t.TempDir(), "spigen.yaml")
		require.NoError(t, os.WriteFile(cfg, []byte("no_contract: fail\n"), 0o644))
		_, _, _, err := run(t, manifest, "-o", t.TempDir(), "--config", cfg)
		require.ErrorIs(t, err, processor.ErrResolutionFailed)
	})
}

func TestGenerate_InvalidConfig(t *testing.T) {
	_, _, _, err := run(t, animals, "-o", t.TempDir(), "--class-candidates", "some")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown class candidates mode")
}

func TestGenerate_Diagram(t *testing.T) {
	out := t.TempDir()
	diagramPath := filepath.Join(out, "docs", "providers.mmd")
	stdout, _, _, err := run(t, animals, "-o", out, "--diagram", diagramPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote diagram to")

	content := readFile(t, diagramPath)
	assert.Contains(t, content, "classDiagram")
	assert.Contains(t, content, "com_example_Mule ..|> com_example_Horse")
}

func TestGenerate_GoModule(t *testing.T) {
	if testing.Short() {
		t.Skip("loads packages with the go command")
	}
	out := t.TempDir()
	_, _, _, err := run(t, "../testdata/01_single_contract", "-o", out)
	require.NoError(t, err)
	assert.Equal(t, "example.com/zoo.Cat\nexample.com/zoo.Dog\n",
		readFile(t, filepath.Join(out, "META-INF/services/example.com/zoo.Animal")))
}

func TestCheck(t *testing.T) {
	out := t.TempDir()
	_, _, _, err := run(t, animals, "-o", out)
	require.NoError(t, err)

	stdout, _, _, err := run(t, "check", animals, "-o", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "3 descriptor(s) up to date")

	horse := filepath.Join(out, "META-INF/services/com.example.Horse")
	require.NoError(t, os.WriteFile(horse, []byte("com.example.Pony\n"), 0o644))
	require.NoError(t, os.Remove(filepath.Join(out, "META-INF/services/com.example.Animal")))

	stdout, _, _, err = run(t, "check", animals, "-o", out)
	require.ErrorIs(t, err, ErrDrift)
	assert.Contains(t, stdout, "missing: META-INF/services/com.example.Animal")
	assert.Contains(t, stdout, "changed: META-INF/services/com.example.Horse")
	assert.Contains(t, stdout, "-com.example.Pony")
	assert.Contains(t, stdout, "+com.example.Mule")
}

func TestInputArg(t *testing.T) {
	assert.Equal(t, ".", inputArg(nil))
	assert.Equal(t, "x.yaml", inputArg([]string{"x.yaml"}))
}
