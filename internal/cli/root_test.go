package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// executeCommand runs the root command with args and captures its output.
func executeCommand(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

// writeFile writes content to name inside a fresh temp dir.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "linalg-opt", cmd.Use)
	assert.Contains(t, cmd.Long, "linalg dialect")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"verify", "print", "inspect", "test"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "", configFlag.DefValue)
}

func TestVerifyCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	verifyCmd, _, err := cmd.Find([]string{"verify"})
	require.NoError(t, err)

	cacheFlag := verifyCmd.Flags().Lookup("cache")
	require.NotNil(t, cacheFlag)
	assert.Equal(t, "", cacheFlag.DefValue)
}

func TestPrintCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	printCmd, _, err := cmd.Find([]string{"print"})
	require.NoError(t, err)

	outputFlag := printCmd.Flags().Lookup("output")
	require.NotNil(t, outputFlag)
	assert.Equal(t, "o", outputFlag.Shorthand)

	genericFlag := printCmd.Flags().Lookup("generic")
	require.NotNil(t, genericFlag)
	assert.Equal(t, "false", genericFlag.DefValue)
}

func TestTestCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	testCmd, _, err := cmd.Find([]string{"test"})
	require.NoError(t, err)

	updateFlag := testCmd.Flags().Lookup("update")
	require.NotNil(t, updateFlag)
	assert.Equal(t, "false", updateFlag.DefValue)

	filterFlag := testCmd.Flags().Lookup("filter")
	require.NotNil(t, filterFlag)
}

func TestFormatValidation(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	_, _, err := executeCommand(t, "--format", "invalid", "verify", "x.mlir")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestConfigSetsDefaults(t *testing.T) {
	cfg := writeFile(t, "linalg.cue", `format: "json"`+"\n"+`generic: true`+"\n")
	in := writeFile(t, "in.mlir", validIR)

	stdout, _, err := executeCommand(t, "--config", cfg, "print", in)
	require.NoError(t, err)
	assert.Contains(t, stdout, `"status": "ok"`)
	assert.Contains(t, stdout, `\"linalg.slice\"(%v, %i)`, "config enables generic form")
}

func TestFlagsOverrideConfig(t *testing.T) {
	cfg := writeFile(t, "linalg.cue", `format: "json"`)
	in := writeFile(t, "in.mlir", validIR)

	stdout, _, err := executeCommand(t, "--config", cfg, "--format", "text", "print", in)
	require.NoError(t, err)
	assert.Equal(t, validIR, stdout)
}

func TestInvalidConfig(t *testing.T) {
	cfg := writeFile(t, "linalg.cue", `format: "yaml"`)
	in := writeFile(t, "in.mlir", validIR)

	stdout, _, err := executeCommand(t, "--config", cfg, "verify", in)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "Error [E006]")
}

func TestVerboseLogsToStderr(t *testing.T) {
	in := writeFile(t, "in.mlir", validIR)

	stdout, stderr, err := executeCommand(t, "--verbose", "--format", "json", "verify", in)
	require.NoError(t, err)
	assert.Contains(t, stdout, `"valid": true`)
	assert.Contains(t, stderr, "Parsed 2 op(s)")
	assert.NotContains(t, stdout, "Parsed", "diagnostics never mix with JSON")
}
