package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/Hierarch/internal/orchestrator"
	"github.com/turtacn/Hierarch/pkg/logger"
	"gopkg.in/yaml.v3"
)

func TestCommands(t *testing.T) {
	if rootCmd.Name() != "hierarch" {
		t.Errorf("Expected root command name hierarch, got %s", rootCmd.Name())
	}

	if len(rootCmd.Commands()) < 3 {
		t.Errorf("Expected at least 3 subcommands, got %d", len(rootCmd.Commands()))
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := executeSplit(t, args...)
	return out, err
}

// executeSplit runs the root command with separate stdout and stderr.
func executeSplit(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		metricsPort = ""
		logger.Log = logger.Discard()
	})
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestTree(t *testing.T) {
	out, err := execute(t, "tree")
	require.NoError(t, err)
	assert.Equal(t, "Top\n├── On\n│   └── Dimmer\n└── Off\n", out)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "hierarch dev\n", out)
}

func TestRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hierarch.yaml")
	cfg := `
version: "1"
engine:
  name: CliHsm
  mode: actor
observability:
  log_level: error
scenario:
  events:
    - name: Set
      value: 0
    - name: Toggle
`
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))

	out, err := execute(t, "run", "-c", path)
	require.NoError(t, err)

	var report orchestrator.Report
	require.NoError(t, yaml.Unmarshal([]byte(out), &report))
	assert.Equal(t, "CliHsm", report.Engine)
	assert.Equal(t, "On", report.Final)
	assert.Equal(t, 100, report.Brightness)
	assert.Len(t, report.Steps, 2)
}

func TestRun_LogsStayOffStdout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hierarch.yaml")
	cfg := `
engine:
  name: LoudHsm
observability:
  log_level: debug
  log_format: json
scenario:
  events:
    - name: TurnOff
`
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))

	out, logs, err := executeSplit(t, "run", "-c", path)
	require.NoError(t, err)
	assert.Contains(t, logs, "Booting Hierarch engine...")
	assert.NotContains(t, out, "Booting")

	var report orchestrator.Report
	require.NoError(t, yaml.Unmarshal([]byte(out), &report))
	assert.Equal(t, "LoudHsm", report.Engine)
	assert.Equal(t, "Off", report.Final)
}

func TestRun_MetricsPortHasNoImplicitDefault(t *testing.T) {
	flag := runCmd.Flags().Lookup("metrics-port")
	require.NotNil(t, flag)
	assert.Equal(t, "", flag.DefValue)
}

func TestRun_MissingConfig(t *testing.T) {
	_, err := execute(t, "run", "-c", filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
