package config

import (
	"fmt"
	"strings"

	"github.com/grovetools/sessionlog/errors"
)

var (
	validOnDuplicate     = []string{"demote", "demote_to_completed", "discard"}
	validTimestampPolicy = []string{"oldest", "now", "strict"}
)

// Validate checks the configuration after defaults and environment
// overrides have been applied.
func (c *Config) Validate() error {
	if !contains(validOnDuplicate, c.OnDuplicate) {
		return errors.New(errors.ErrCodeConfigValidation,
			fmt.Sprintf("on_duplicate must be one of %s, got %q", strings.Join(validOnDuplicate, ", "), c.OnDuplicate)).
			WithDetail("field", "on_duplicate")
	}
	if !contains(validTimestampPolicy, c.TimestampPolicy) {
		return errors.New(errors.ErrCodeConfigValidation,
			fmt.Sprintf("timestamp_policy must be one of %s, got %q", strings.Join(validTimestampPolicy, ", "), c.TimestampPolicy)).
			WithDetail("field", "timestamp_policy")
	}
	if c.Backup.Keep < 0 {
		return errors.New(errors.ErrCodeConfigValidation, "backup.keep must not be negative").
			WithDetail("field", "backup.keep")
	}
	if c.Watch.DebounceMs < 0 {
		return errors.New(errors.ErrCodeConfigValidation, "watch.debounce_ms must not be negative").
			WithDetail("field", "watch.debounce_ms")
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
