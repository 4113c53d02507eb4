package commands

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/lidator/internal/errors"
	"github.com/thoreinstein/lidator/internal/logging"
	"github.com/thoreinstein/lidator/internal/paths"
)

// testEnv isolates a command run in fresh config and working directories.
type testEnv struct {
	configDir string
	workDir   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	env := &testEnv{configDir: t.TempDir(), workDir: t.TempDir()}
	t.Setenv(paths.ConfigDirEnv, env.configDir)
	t.Setenv(debugEnv, "")
	t.Chdir(env.workDir)

	cfg, configLoadErr = nil, nil
	return env
}

// write creates a file under the working directory and returns its path.
func (e *testEnv) write(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(e.workDir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o700))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

// resetFlags restores every flag of c and its children to its default.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, child := range c.Commands() {
		resetFlags(child)
	}
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(bytes.NewReader(nil))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		slog.SetDefault(logging.Default())
	})

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func exitCode(err error) int {
	var buf bytes.Buffer
	return ReportError(&buf, err)
}

func TestSetupLogging_VerbosityFlags(t *testing.T) {
	newTestEnv(t)

	tests := []struct {
		name      string
		args      []string
		wantLevel slog.Level
	}{
		{"default", nil, slog.LevelWarn},
		{"verbose", []string{"-v"}, slog.LevelInfo},
		{"debug", []string{"-vv"}, slog.LevelDebug},
		{"trace", []string{"-vvv"}, logging.LevelTrace},
		{"quiet", []string{"-q"}, slog.LevelError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, append([]string{"version"}, tt.args...)...)
			require.NoError(t, err)

			logger := slog.Default()
			assert.True(t, logger.Enabled(t.Context(), tt.wantLevel))
			assert.False(t, logger.Enabled(t.Context(), tt.wantLevel-1))
		})
	}
}

func TestSetupLogging_EnvVar(t *testing.T) {
	tests := []struct {
		val       string
		wantLevel slog.Level
	}{
		{"1", slog.LevelDebug},
		{"true", slog.LevelDebug},
		{"2", logging.LevelTrace},
		{"0", slog.LevelWarn},
		{"foo", slog.LevelWarn},
	}
	for _, tt := range tests {
		t.Run(tt.val, func(t *testing.T) {
			newTestEnv(t)
			t.Setenv(debugEnv, tt.val)

			_, _, err := execute(t, "version")
			require.NoError(t, err)
			assert.True(t, slog.Default().Enabled(t.Context(), tt.wantLevel))
			assert.False(t, slog.Default().Enabled(t.Context(), tt.wantLevel-1))
		})
	}
}

func TestSetupLogging_Errors(t *testing.T) {
	newTestEnv(t)

	_, _, err := execute(t, "version", "-q", "-v")
	require.Error(t, err)
	assert.Equal(t, errors.ExitUser, exitCode(err))

	_, _, err = execute(t, "version", "--log-format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log format")
}

func TestSetupLogging_LogFile(t *testing.T) {
	env := newTestEnv(t)
	logPath := filepath.Join(env.workDir, "lidator.log")

	_, _, err := execute(t, "version", "-v", "--log-file", logPath)
	require.NoError(t, err)

	slog.Info("hello from test")
	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello from test"`)
}

func TestReportError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantOut  string
	}{
		{
			name:     "plain error",
			err:      errors.New("boom"),
			wantCode: errors.ExitUser,
			wantOut:  "Error: boom\n",
		},
		{
			name:     "user error with suggestion",
			err:      errors.NewUserError(errors.New("bad flag"), "Try --help"),
			wantCode: errors.ExitUser,
			wantOut:  "Error: bad flag\nTry --help\n",
		},
		{
			name:     "validation failure is silent",
			err:      errors.NewInvalidError(errors.ErrValidationFailed),
			wantCode: errors.ExitInvalid,
			wantOut:  "",
		},
		{
			name:     "system error",
			err:      errors.NewSystemError(errors.New("disk"), ""),
			wantCode: errors.ExitSystem,
			wantOut:  "Error: disk\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			assert.Equal(t, tt.wantCode, ReportError(&buf, tt.err))
			assert.Equal(t, tt.wantOut, buf.String())
		})
	}
}

func TestRoot_InvalidConfig(t *testing.T) {
	env := newTestEnv(t)
	env.write(t, "config.yaml", "version: 1\noutput_format: xml\n")
	rules := env.write(t, "rules.yaml", testRules)
	doc := env.write(t, "doc.yaml", "name: x\n")

	_, _, err := execute(t, "validate", doc, "--rules", rules)
	require.Error(t, err)
	assert.Equal(t, errors.ExitUser, exitCode(err))
	assert.Contains(t, err.Error(), "output_format")

	// Commands that do not read configuration still work.
	_, _, err = execute(t, "version")
	require.NoError(t, err)
}
