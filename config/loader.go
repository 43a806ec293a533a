package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/grovetools/sessionlog/errors"
	"github.com/grovetools/sessionlog/pkg/paths"
	"github.com/grovetools/sessionlog/util/pathutil"
	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Defaults applied by SetDefaults.
const (
	DefaultOnDuplicate     = "demote"
	DefaultTimestampPolicy = "oldest"
	DefaultBackupKeep      = 5
	DefaultDebounceMs      = 250
)

// Environment overrides.
const (
	EnvSessionsFile = "SESSIONLOG_FILE"
	EnvOnDuplicate  = "SESSIONLOG_ON_DUPLICATE"
)

// configNames are searched in order in every directory.
var configNames = []string{
	"sessionlog.yml",
	"sessionlog.yaml",
	".sessionlog.yml",
	".sessionlog.yaml",
	"sessionlog.toml",
	".sessionlog.toml",
}

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// Format is a config file syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFor picks the syntax from a file extension.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.SetDefaults()
	cfg.ApplyEnv()
	return cfg
}

// Load reads and parses a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config file").
			WithDetail("path", path)
	}

	cfg, err := LoadFromBytes(data, FormatFor(path))
	if err != nil {
		if sessErr, ok := errors.As(err); ok {
			sessErr.WithDetail("path", path)
		}
		return nil, err
	}
	return cfg, nil
}

// LoadDefault loads the config found from the current directory, or the
// defaults when there is none.
func LoadDefault() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to get current directory")
	}
	return LoadFrom(cwd)
}

// LoadFrom loads the config found from startDir, or the defaults when there
// is none.
func LoadFrom(startDir string) (*Config, error) {
	path, err := FindConfigFile(startDir)
	if err != nil {
		if errors.Is(err, errors.ErrCodeConfigNotFound) {
			return Default(), nil
		}
		return nil, err
	}
	return Load(path)
}

// LoadFromBytes parses configuration data.
func LoadFromBytes(data []byte, format Format) (*Config, error) {
	expanded := []byte(expandEnvVars(string(data)))

	raw := make(map[string]interface{})
	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(expanded, &raw)
	default:
		err = yaml.Unmarshal(expanded, &raw)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse "+string(format)+" configuration")
	}

	validator, err := NewSchemaValidator()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create validator")
	}
	if err := validator.Validate(raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigValidation, "schema validation failed")
	}

	cfg, err := decode(raw)
	if err != nil {
		return nil, err
	}

	cfg.SetDefaults()
	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode maps the generic document onto Config. Unknown top-level keys
// become extensions.
func decode(raw map[string]interface{}) (*Config, error) {
	var cfg Config
	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		TagName:          "yaml",
		Metadata:         &md,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create config decoder")
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to decode configuration")
	}

	cfg.Extensions = make(map[string]interface{})
	for _, key := range md.Unused {
		if strings.Contains(key, ".") {
			continue
		}
		cfg.Extensions[key] = raw[key]
	}
	return &cfg, nil
}

// ApplyEnv applies environment overrides.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvSessionsFile); v != "" {
		c.SessionsFile = v
	}
	if v := os.Getenv(EnvOnDuplicate); v != "" {
		c.OnDuplicate = v
	}
}

// ResolveSessionsFile returns the absolute sessions log path.
func (c *Config) ResolveSessionsFile() (string, error) {
	if c.SessionsFile == "" {
		return paths.SessionsFile(), nil
	}
	return pathutil.Expand(c.SessionsFile)
}

// ResolveBackupsDir returns the absolute snapshot directory.
func (c *Config) ResolveBackupsDir() (string, error) {
	if c.Backup.Dir == "" {
		return paths.BackupsDir(), nil
	}
	return pathutil.Expand(c.Backup.Dir)
}

// FindConfigFile searches for a config file from startDir up to the
// filesystem root, then in the user config directory.
func FindConfigFile(startDir string) (string, error) {
	dir := startDir
	for {
		if path := findIn(dir); path != "" {
			return path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if configDir := paths.ConfigDir(); configDir != "" {
		if path := findIn(configDir); path != "" {
			return path, nil
		}
	}

	return "", errors.ConfigNotFound(startDir)
}

func findIn(dir string) string {
	for _, name := range configNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// expandEnvVars replaces ${VAR} references with environment values.
func expandEnvVars(s string) string {
	return envVarRegex.ReplaceAllStringFunc(s, func(match string) string {
		name := envVarRegex.FindStringSubmatch(match)[1]
		return os.Getenv(name)
	})
}
