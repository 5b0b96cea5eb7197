package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/hbnb/internal/jsonl"
	"github.com/mesh-intelligence/hbnb/internal/sqlite"
)

// env isolates a test from HBNB_* variables set in the developer's shell.
// Prompts are switched off so stdout holds only command output.
func env(t *testing.T) (configDir, dataDir string) {
	t.Helper()
	for _, k := range []string{"HBNB_BACKEND", "HBNB_LOG_LEVEL", "HBNB_CONFIG_DIR", "HBNB_DATA_DIR"} {
		t.Setenv(k, "")
	}
	t.Setenv("HBNB_PROMPT", promptNever)
	root := t.TempDir()
	return filepath.Join(root, "config"), filepath.Join(root, "data")
}

// hbnb runs the root command with stdin and returns stdout, stderr and the
// exit code.
func hbnb(t *testing.T, stdin string, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	code := run(root)
	return stdout.String(), stderr.String(), code
}

func TestShellCreatesAndLists(t *testing.T) {
	configDir, dataDir := env(t)
	flags := []string{"--config-dir", configDir, "--data-dir", dataDir}

	out, _, code := hbnb(t, "create User\n", flags...)
	require.Equal(t, exitSuccess, code)
	id := strings.TrimSpace(out)
	require.Len(t, id, 36)

	assert.FileExists(t, filepath.Join(dataDir, jsonl.FileName))

	out, _, code = hbnb(t, "all User\n", flags...)
	require.Equal(t, exitSuccess, code)
	assert.True(t, strings.HasPrefix(out, "[User] ("+id+") {"), out)
}

func TestShellWritesDefaultConfig(t *testing.T) {
	configDir, dataDir := env(t)

	_, _, code := hbnb(t, "", "--config-dir", configDir, "--data-dir", dataDir)
	require.Equal(t, exitSuccess, code)

	data, err := os.ReadFile(filepath.Join(configDir, configFileExt))
	require.NoError(t, err)
	assert.Contains(t, string(data), "backend: json")
	assert.Contains(t, string(data), "log_level: warn")
	assert.Contains(t, string(data), "prompt: always")
	assert.NotContains(t, string(data), "data_dir")
}

func TestBackendFromEnvironment(t *testing.T) {
	configDir, dataDir := env(t)
	t.Setenv("HBNB_BACKEND", "sqlite")

	_, _, code := hbnb(t, "create State\n", "--config-dir", configDir, "--data-dir", dataDir)
	require.Equal(t, exitSuccess, code)

	assert.FileExists(t, filepath.Join(dataDir, sqlite.FileName))
	assert.NoFileExists(t, filepath.Join(dataDir, jsonl.FileName))
}

func TestDataDirPrecedence(t *testing.T) {
	configDir, dataDir := env(t)
	envDir := filepath.Join(t.TempDir(), "env")
	t.Setenv("HBNB_DATA_DIR", envDir)

	require.NoError(t, os.MkdirAll(configDir, 0o755))
	cfg := "backend: json\ndata_dir: " + dataDir + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(configDir, configFileExt), []byte(cfg), 0o644))

	_, _, code := hbnb(t, "create City\n", "--config-dir", configDir)
	require.Equal(t, exitSuccess, code)

	assert.FileExists(t, filepath.Join(dataDir, jsonl.FileName))
	assert.NoDirExists(t, envDir)
}

func TestConfigErrorsExitUserError(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
		want string
	}{
		{"unknown backend", "HBNB_BACKEND", "postgres", "unknown backend"},
		{"bad log level", "HBNB_LOG_LEVEL", "loud", "log_level"},
		{"bad prompt mode", "HBNB_PROMPT", "sometimes", "prompt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configDir, dataDir := env(t)
			t.Setenv(tt.key, tt.val)

			out, stderr, code := hbnb(t, "create User\n", "--config-dir", configDir, "--data-dir", dataDir)
			assert.Equal(t, exitUserError, code)
			assert.Empty(t, out)
			assert.Contains(t, stderr, tt.want)
		})
	}
}

func TestUnusableDataDirExitsSysError(t *testing.T) {
	configDir, _ := env(t)
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	_, stderr, code := hbnb(t, "create User\n", "--config-dir", configDir, "--data-dir", blocker)
	assert.Equal(t, exitSysError, code)
	assert.Contains(t, stderr, "Error:")
}

func TestPromptModesOnPipedInput(t *testing.T) {
	tests := []struct {
		name string
		mode string
		want string
	}{
		{"default prompts", "", "(hbnb) ** class name missing **\n(hbnb) "},
		{"always", promptAlways, "(hbnb) ** class name missing **\n(hbnb) "},
		{"auto is silent on a pipe", promptAuto, "** class name missing **\n"},
		{"never", promptNever, "** class name missing **\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configDir, dataDir := env(t)
			t.Setenv("HBNB_PROMPT", tt.mode)

			out, _, code := hbnb(t, "show\n", "--config-dir", configDir, "--data-dir", dataDir)
			require.Equal(t, exitSuccess, code)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestShowPrompt(t *testing.T) {
	tests := []struct {
		mode string
		tty  bool
		want bool
	}{
		{promptAlways, false, true},
		{promptAlways, true, true},
		{promptAuto, false, false},
		{promptAuto, true, true},
		{promptNever, true, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, showPrompt(tt.mode, tt.tty), "mode %s tty %v", tt.mode, tt.tty)
	}
	assert.False(t, isTerminal(strings.NewReader("")))
}

func TestDotEnvIsLoaded(t *testing.T) {
	configDir, dataDir := env(t)
	// .env never overrides a variable that is already set, even to "".
	require.NoError(t, os.Unsetenv("HBNB_BACKEND"))

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("HBNB_BACKEND=sqlite\n"), 0o644))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	_, _, code := hbnb(t, "create User\n", "--config-dir", configDir, "--data-dir", dataDir)
	require.Equal(t, exitSuccess, code)

	assert.FileExists(t, filepath.Join(dataDir, sqlite.FileName))
	assert.NoFileExists(t, filepath.Join(dataDir, jsonl.FileName))
}

func TestInitIsIdempotent(t *testing.T) {
	configDir, dataDir := env(t)
	flags := []string{"init", "--config-dir", configDir, "--data-dir", dataDir}

	out, _, code := hbnb(t, "", flags...)
	require.Equal(t, exitSuccess, code)
	assert.Contains(t, out, "hbnb initialized")
	assert.FileExists(t, filepath.Join(dataDir, jsonl.FileName))

	cfgPath := filepath.Join(configDir, configFileExt)
	first, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	assert.Contains(t, string(first), "data_dir: "+dataDir)

	_, _, code = hbnb(t, "", flags...)
	require.Equal(t, exitSuccess, code)
	second, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestInitKeepsRecords(t *testing.T) {
	configDir, dataDir := env(t)
	flags := []string{"--config-dir", configDir, "--data-dir", dataDir}

	out, _, code := hbnb(t, "create Amenity\n", flags...)
	require.Equal(t, exitSuccess, code)
	id := strings.TrimSpace(out)

	_, _, code = hbnb(t, "", append([]string{"init"}, flags...)...)
	require.Equal(t, exitSuccess, code)

	out, _, code = hbnb(t, "show Amenity "+id+"\n", flags...)
	require.Equal(t, exitSuccess, code)
	assert.Contains(t, out, "[Amenity] ("+id+")")
}

func TestVersion(t *testing.T) {
	env(t)
	out, _, code := hbnb(t, "", "version")
	require.Equal(t, exitSuccess, code)
	assert.Equal(t, "hbnb v"+Version+"\nmodule: "+modulePath+"\n", out)
}

func TestUnexpectedArgument(t *testing.T) {
	configDir, dataDir := env(t)
	_, stderr, code := hbnb(t, "", "--config-dir", configDir, "--data-dir", dataDir, "extra")
	assert.Equal(t, exitUserError, code)
	assert.NotEmpty(t, stderr)
}
