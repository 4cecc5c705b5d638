package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingScenario = `name: index_slice
description: index slicing drops a dimension
input: |
  %s = linalg.slice %v[%i] {dim = 0} : !linalg.view<?x?xf32>, index
assertions:
  - type: valid
  - type: round_trip
`

const failingScenario = `name: wrong_code
description: expects the wrong verifier code
input: |
  %s = linalg.slice %v[%i] {dim = 4} : !linalg.view<?x?xf32>, index
assertions:
  - type: verify_error
    op: 0
    code: E203
`

func scenarioDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestTestCommandUpdateThenCompare(t *testing.T) {
	dir := scenarioDir(t, map[string]string{"index_slice.yaml": passingScenario})

	stdout, _, err := executeCommand(t, "test", "--update", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ index_slice (golden updated)")

	golden, err := os.ReadFile(filepath.Join(dir, "golden", "index_slice.golden"))
	require.NoError(t, err)
	assert.Equal(t,
		"// scenario: index_slice\n%s = linalg.slice %v[%i] {dim = 0} : !linalg.view<?x?xf32>, index\n",
		string(golden))

	stdout, _, err = executeCommand(t, "test", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ index_slice\n")
	assert.Contains(t, stdout, "Test Summary: 1 passed, 0 failed, 1 total")
	assert.Contains(t, stdout, "✓ All scenarios passed")
}

func TestTestCommandGoldenMismatch(t *testing.T) {
	dir := scenarioDir(t, map[string]string{"index_slice.yaml": passingScenario})
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "golden"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "golden", "index_slice.golden"), []byte("stale\n"), 0o644))

	stdout, _, err := executeCommand(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "✗ index_slice")
	assert.Contains(t, stdout, "output does not match golden file (run with --update to regenerate)")
}

func TestTestCommandAssertionFailure(t *testing.T) {
	dir := scenarioDir(t, map[string]string{
		"index_slice.yaml": passingScenario,
		"wrong_code.yaml":  failingScenario,
	})

	stdout, _, err := executeCommand(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "✓ index_slice")
	assert.Contains(t, stdout, "✗ wrong_code")
	assert.Contains(t, stdout, "expected code E203, got E202")
	assert.Contains(t, stdout, "Test Summary: 1 passed, 1 failed, 2 total")
}

func TestTestCommandFilter(t *testing.T) {
	dir := scenarioDir(t, map[string]string{
		"index_slice.yaml": passingScenario,
		"wrong_code.yaml":  failingScenario,
	})

	stdout, _, err := executeCommand(t, "test", "--filter", "index_*", dir)
	require.NoError(t, err)
	assert.NotContains(t, stdout, "wrong_code")
	assert.Contains(t, stdout, "1 total")
}

func TestTestCommandInvalidScenario(t *testing.T) {
	dir := scenarioDir(t, map[string]string{"broken.yaml": "name: broken\n"})

	stdout, _, err := executeCommand(t, "test", dir)
	require.Error(t, err)
	assert.Contains(t, stdout, "✗ broken.yaml")
	assert.Contains(t, stdout, "failed to load scenario")
}

func TestTestCommandJSON(t *testing.T) {
	dir := scenarioDir(t, map[string]string{
		"index_slice.yaml": passingScenario,
		"wrong_code.yaml":  failingScenario,
	})

	stdout, _, err := executeCommand(t, "--format", "json", "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
		Error  *CLIError  `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E_TEST_FAILED", resp.Error.Code)
	assert.Equal(t, 2, resp.Data.Total)
	assert.Equal(t, 1, resp.Data.Passed)
	assert.Equal(t, 1, resp.Data.Failed)
}

func TestTestCommandEmptyDir(t *testing.T) {
	stdout, _, err := executeCommand(t, "test", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "No scenarios found.\n", stdout)
}

func TestTestCommandMissingDir(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")

	stdout, _, err := executeCommand(t, "test", missing)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "Error [E002]")
}

func TestGoldenFilePath(t *testing.T) {
	assert.Equal(t,
		filepath.Join("scenarios", "golden", "slice.golden"),
		goldenFilePath(filepath.Join("scenarios", "slice.yaml")))
}
