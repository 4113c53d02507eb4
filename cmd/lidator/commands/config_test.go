package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/lidator/internal/config"
	"github.com/thoreinstein/lidator/internal/errors"
)

func TestConfigList(t *testing.T) {
	newTestEnv(t)
	t.Setenv("LIDATOR_OUTPUT_FORMAT", "json")

	for _, args := range [][]string{{"config"}, {"config", "list"}} {
		out, _, err := execute(t, args...)
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, yaml.Unmarshal([]byte(out), &got))
		assert.Equal(t, "json", got[config.KeyOutputFormat])
		assert.Equal(t, true, got[config.KeyIncludeFieldName])
		assert.Len(t, got, len(config.Keys()))
	}
}

func TestConfigGet(t *testing.T) {
	env := newTestEnv(t)
	env.write(t, "config.yaml", "version: 1\nrules_file: intake\n")

	out, _, err := execute(t, "config", "get", config.KeyRulesFile)
	require.NoError(t, err)
	assert.Equal(t, "intake\n", out)

	out, _, err = execute(t, "config", "get", config.KeyFailOnWarnings)
	require.NoError(t, err)
	assert.Equal(t, "false\n", out)

	_, _, err = execute(t, "config", "get", "colour")
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrUnknownKey))
}

func TestConfigSet(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := execute(t, "config", "set", config.KeyOutputFormat, "grouped")
	require.NoError(t, err)
	assert.Equal(t, "Set output_format = grouped\n", out)

	saved := filepath.Join(env.configDir, "config.yaml")
	data, err := os.ReadFile(saved)
	require.NoError(t, err)
	assert.Contains(t, string(data), "output_format: grouped")

	out, _, err = execute(t, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, saved, strings.TrimSpace(out))
}

func TestConfigSet_Rejects(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown key", []string{"config", "set", "colour", "red"}},
		{"bad bool", []string{"config", "set", config.KeyFailOnWarnings, "maybe"}},
		{"invalid value", []string{"config", "set", config.KeyOutputFormat, "xml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, errors.ExitUser, exitCode(err))
		})
	}

	_, err := os.Stat(filepath.Join(env.configDir, "config.yaml"))
	assert.True(t, os.IsNotExist(err), "rejected values are not saved")
}

func TestConfigPath(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := execute(t, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(env.configDir, "config.yaml")+"\n", out)

	out, _, err = execute(t, "config", "path", "--rules")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(env.configDir, "rules")+"\n", out)
}

func TestGenDoc(t *testing.T) {
	newTestEnv(t)
	dir := filepath.Join(t.TempDir(), "docs")

	_, _, err := execute(t, "gen-doc")
	require.Error(t, err)

	out, _, err := execute(t, "gen-doc", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, dir)

	data, err := os.ReadFile(filepath.Join(dir, "lidator_validate.md"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "---\ntitle: \"lidator validate\""))
}
