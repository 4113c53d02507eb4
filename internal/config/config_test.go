package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/lidator/internal/errors"
	"github.com/thoreinstein/lidator/internal/paths"
)

func setup(t *testing.T) string {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	t.Setenv(paths.ConfigDirEnv, dir)
	t.Chdir(t.TempDir())
	Init()
	return dir
}

func TestInit_Defaults(t *testing.T) {
	setup(t)

	cfg := Current()
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, []string{
		KeyFailOnWarnings,
		KeyIncludeFieldName,
		KeyOutputFormat,
		KeyRulesFile,
		KeyValidationType,
		KeyVersion,
	}, Keys())
}

func TestLoad_NoConfigFile(t *testing.T) {
	setup(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FromConfigDir(t *testing.T) {
	dir := setup(t)
	content := "validation_type: intake\noutput_format: json\nfail_on_warnings: true\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "intake", cfg.ValidationType)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.True(t, cfg.FailOnWarnings)
	assert.True(t, cfg.IncludeFieldName, "unset keys keep their defaults")
	assert.Equal(t, 1, cfg.Version)
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	setup(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestLoad_InvalidYAML(t *testing.T) {
	setup(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: [1\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.False(t, errors.Is(err, errors.ErrNotFound))
}

func TestLoad_EnvOverride(t *testing.T) {
	setup(t)
	t.Setenv("LIDATOR_OUTPUT_FORMAT", "plain")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "plain", cfg.OutputFormat)
}

func TestParse(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		want    any
		wantErr bool
	}{
		{key: KeyVersion, value: "2", want: 2},
		{key: KeyVersion, value: "two", wantErr: true},
		{key: KeyFailOnWarnings, value: "true", want: true},
		{key: KeyIncludeFieldName, value: "no", wantErr: true},
		{key: KeyOutputFormat, value: "json", want: "json"},
		{key: KeyRulesFile, value: "~/rules.yaml", want: "~/rules.yaml"},
		{key: "default_platforms", value: "x", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			got, err := Parse(tt.key, tt.value)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Parse("nope", "1")
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestSetAndSave(t *testing.T) {
	dir := setup(t)

	require.NoError(t, Set(KeyValidationType, "intake"))
	require.NoError(t, Set(KeyFailOnWarnings, "true"))
	assert.Equal(t, filepath.Join(dir, "config.yaml"), File())

	path := filepath.Join(dir, "nested", "config.yaml")
	require.NoError(t, Save(path, Current()))

	viper.Reset()
	Init()
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "intake", cfg.ValidationType)
	assert.True(t, cfg.FailOnWarnings)
}

func TestConfig_Lookup(t *testing.T) {
	cfg := Default()

	v, ok := cfg.Lookup(KeyOutputFormat)
	assert.True(t, ok)
	assert.Equal(t, "text", v)

	_, ok = cfg.Lookup("missing")
	assert.False(t, ok)
}
