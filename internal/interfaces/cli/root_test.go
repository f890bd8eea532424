package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milo0914/ChemPatent-Pro/internal/config"
	"github.com/milo0914/ChemPatent-Pro/pkg/errors"
)

const testConfigYAML = `
log:
  level: warn
analysis:
  length_threshold: 250
`

// runCLI executes the root command with args and stdin, returning stdout,
// stderr and the command error.
func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	prevDotEnv := config.DotEnvFile
	config.DotEnvFile = ""
	prevNoColor := color.NoColor
	t.Cleanup(func() {
		config.DotEnvFile = prevDotEnv
		color.NoColor = prevNoColor
	})

	cfgPath := filepath.Join(t.TempDir(), "chempatent.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(testConfigYAML), 0o644))

	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", cfgPath, "--no-color"}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestNewRootCommand_Structure(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "chempatent", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.True(t, cmd.SilenceUsage)

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"analyze", "phrases", "db", "cache", "history", "version"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
}

func TestNewRootCommand_GlobalFlags(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"config", "log-level", "output", "verbose", "no-color", "timeout", "server", "api-key"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "missing flag %q", name)
	}
	assert.Equal(t, "text", cmd.PersistentFlags().Lookup("output").DefValue)
	assert.Equal(t, "30s", cmd.PersistentFlags().Lookup("timeout").DefValue)
}

func TestRoot_RejectsUnknownOutputFormat(t *testing.T) {
	_, _, err := runCLI(t, "1. A compound.", "-o", "xml", "analyze")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))
}

func TestRoot_MissingConfigFile(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "absent.yaml"), "phrases"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config initialization failed")
}

func TestGetCLIContext_Missing(t *testing.T) {
	cmd := NewAnalyzeCmd()
	_, err := GetCLIContext(cmd)
	require.Error(t, err)
}

func TestVersion_SkipsConfig(t *testing.T) {
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", "/nonexistent/chempatent.yaml", "version"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "chempatent "+Version)
	assert.Contains(t, out.String(), GitCommit)
}

func TestVersion_JSON(t *testing.T) {
	out, _, err := runCLI(t, "", "-o", "json", "version")
	require.NoError(t, err)
	assert.Contains(t, out, `"version": "`+Version+`"`)
	assert.Contains(t, out, `"go_version"`)
}

func TestPrintError(t *testing.T) {
	var errOut bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetErr(&errOut)
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	PrintError(cmd, nil)
	assert.Empty(t, errOut.String())

	PrintError(cmd, errors.New(errors.ErrCodeClaimTextEmpty, "no text provided"))
	assert.Equal(t, "Error: [CLM_001] no text provided\n", errOut.String())
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", truncateString("short", 10))
	assert.Equal(t, "abcdefg...", truncateString("abcdefghijklmnop", 10))
	assert.Equal(t, "权利要...", truncateString("权利要求一二三四", 6))
	assert.Equal(t, "ab", truncateString("abcdef", 2))
}

//Personal.AI order the ending
