package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Config is the sessionlog configuration (sessionlog.yml or sessionlog.toml).
type Config struct {
	// SessionsFile is the sessions log to maintain. Supports ~ and $VARS.
	SessionsFile string `yaml:"sessions_file,omitempty" json:"sessions_file,omitempty" jsonschema:"description=Path of the sessions log (default ~/.claude/sessions/.current-sessions)"`
	// OnDuplicate is "demote" or "discard".
	OnDuplicate string `yaml:"on_duplicate,omitempty" json:"on_duplicate,omitempty" jsonschema:"enum=demote,enum=demote_to_completed,enum=discard,description=What to do with surplus active sessions"`
	// TimestampPolicy is "oldest", "now" or "strict".
	TimestampPolicy string       `yaml:"timestamp_policy,omitempty" json:"timestamp_policy,omitempty" jsonschema:"enum=oldest,enum=now,enum=strict,description=How unparseable Started values are ordered"`
	Backup          BackupConfig `yaml:"backup,omitempty" json:"backup,omitempty" jsonschema:"description=Backup behaviour before rewrites"`
	Watch           WatchConfig  `yaml:"watch,omitempty" json:"watch,omitempty" jsonschema:"description=Settings for the watch command"`

	// Extensions holds top-level sections not known to the core config,
	// such as "logging".
	Extensions map[string]interface{} `yaml:"-" json:"-"`
}

// BackupConfig controls backups.
type BackupConfig struct {
	// Enabled defaults to true.
	Enabled *bool `yaml:"enabled,omitempty" json:"enabled,omitempty" jsonschema:"description=Copy the sessions file aside before rewriting it"`
	// Dir is where snapshots are written.
	Dir string `yaml:"dir,omitempty" json:"dir,omitempty" jsonschema:"description=Directory for session snapshots"`
	// Keep is how many snapshots to retain.
	Keep int `yaml:"keep,omitempty" json:"keep,omitempty" jsonschema:"minimum=0,description=Number of snapshots to keep"`
}

// WatchConfig controls the watch command.
type WatchConfig struct {
	DebounceMs int `yaml:"debounce_ms,omitempty" json:"debounce_ms,omitempty" jsonschema:"minimum=0,description=Quiet period before re-running after a change"`
}

// BackupEnabled reports whether backups are on.
func (c *Config) BackupEnabled() bool {
	return c.Backup.Enabled == nil || *c.Backup.Enabled
}

// SetDefaults fills in unset values.
func (c *Config) SetDefaults() {
	if c.OnDuplicate == "" {
		c.OnDuplicate = DefaultOnDuplicate
	}
	if c.TimestampPolicy == "" {
		c.TimestampPolicy = DefaultTimestampPolicy
	}
	if c.Backup.Keep == 0 {
		c.Backup.Keep = DefaultBackupKeep
	}
	if c.Watch.DebounceMs == 0 {
		c.Watch.DebounceMs = DefaultDebounceMs
	}
	if c.Extensions == nil {
		c.Extensions = make(map[string]interface{})
	}
}

// UnmarshalExtension decodes the named extension section into target,
// which must be a pointer. A missing section leaves target untouched.
//
// Example:
//
//	var logCfg logging.Config
//	err := cfg.UnmarshalExtension("logging", &logCfg)
func (c *Config) UnmarshalExtension(key string, target interface{}) error {
	extensionConfig, ok := c.Extensions[key]
	if !ok {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "yaml",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(extensionConfig); err != nil {
		return fmt.Errorf("failed to decode extension config for '%s': %w", key, err)
	}

	return nil
}
