package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/grovetools/sessionlog/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromBytesYAML(t *testing.T) {
	t.Setenv(EnvSessionsFile, "")
	t.Setenv(EnvOnDuplicate, "")
	data := []byte(`
sessions_file: /tmp/sessions/.current-sessions
on_duplicate: discard
timestamp_policy: strict
backup:
  enabled: false
  keep: 3
logging:
  level: debug
`)

	cfg, err := LoadFromBytes(data, FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/sessions/.current-sessions", cfg.SessionsFile)
	assert.Equal(t, "discard", cfg.OnDuplicate)
	assert.Equal(t, "strict", cfg.TimestampPolicy)
	assert.False(t, cfg.BackupEnabled())
	assert.Equal(t, 3, cfg.Backup.Keep)
	assert.Equal(t, DefaultDebounceMs, cfg.Watch.DebounceMs)
	assert.Contains(t, cfg.Extensions, "logging")
}

func TestLoadFromBytesTOML(t *testing.T) {
	t.Setenv(EnvSessionsFile, "")
	t.Setenv(EnvOnDuplicate, "")
	data := []byte(`
on_duplicate = "demote"

[watch]
debounce_ms = 500

[logging]
level = "warn"
`)

	cfg, err := LoadFromBytes(data, FormatTOML)
	require.NoError(t, err)

	assert.Equal(t, "demote", cfg.OnDuplicate)
	assert.Equal(t, 500, cfg.Watch.DebounceMs)
	assert.True(t, cfg.BackupEnabled())

	var logCfg struct {
		Level string `yaml:"level"`
	}
	require.NoError(t, cfg.UnmarshalExtension("logging", &logCfg))
	assert.Equal(t, "warn", logCfg.Level)
}

func TestLoadFromBytesRejectsUnknownPolicy(t *testing.T) {
	t.Setenv(EnvOnDuplicate, "")
	_, err := LoadFromBytes([]byte("on_duplicate: shred\n"), FormatYAML)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeConfigValidation, errors.GetCode(err))
}

func TestLoadFromBytesRejectsUnknownNestedKey(t *testing.T) {
	_, err := LoadFromBytes([]byte("backup:\n  retention: 3\n"), FormatYAML)
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvSessionsFile, "/override/.current-sessions")
	t.Setenv(EnvOnDuplicate, "bogus")

	_, err := LoadFromBytes([]byte("on_duplicate: demote\n"), FormatYAML)
	require.Error(t, err, "env override should be validated")

	t.Setenv(EnvOnDuplicate, "discard")
	cfg, err := LoadFromBytes([]byte("on_duplicate: demote\n"), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "discard", cfg.OnDuplicate)
	assert.Equal(t, "/override/.current-sessions", cfg.SessionsFile)
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv(EnvSessionsFile, "")
	t.Setenv("SESSIONS_ROOT", "/data")

	cfg, err := LoadFromBytes([]byte("sessions_file: ${SESSIONS_ROOT}/.current-sessions\n"), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "/data/.current-sessions", cfg.SessionsFile)

	resolved, err := cfg.ResolveSessionsFile()
	require.NoError(t, err)
	assert.Equal(t, "/data/.current-sessions", resolved)
}

func TestFindConfigFileWalksUp(t *testing.T) {
	t.Setenv("SESSIONLOG_HOME", t.TempDir())
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))
	configPath := filepath.Join(root, "sessionlog.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("on_duplicate = \"discard\"\n"), 0644))

	found, err := FindConfigFile(nested)
	require.NoError(t, err)
	assert.Equal(t, configPath, found)

	t.Setenv(EnvOnDuplicate, "")
	cfg, err := LoadFrom(nested)
	require.NoError(t, err)
	assert.Equal(t, "discard", cfg.OnDuplicate)
}

func TestLoadFromWithoutConfigUsesDefaults(t *testing.T) {
	t.Setenv("SESSIONLOG_HOME", t.TempDir())
	t.Setenv(EnvOnDuplicate, "")

	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultOnDuplicate, cfg.OnDuplicate)
	assert.Equal(t, DefaultTimestampPolicy, cfg.TimestampPolicy)
	assert.Equal(t, DefaultBackupKeep, cfg.Backup.Keep)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "sessionlog.yml"))
	assert.True(t, errors.Is(err, errors.ErrCodeConfigNotFound))
}

func TestGenerateSchema(t *testing.T) {
	data, err := GenerateSchema()
	require.NoError(t, err)
	assert.Contains(t, string(data), "on_duplicate")
	assert.Contains(t, string(data), "debounce_ms")
}
