package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Values is the merged key/value view over the settings file and the
// environment. Keys are case-insensitive and may use ':' or '.' to address
// nested sections. A nil *Values behaves as an empty lookup.
type Values struct {
	v *viper.Viper
}

// FromMap builds Values from an in-memory tree. It is mainly useful for
// callers that already hold their settings and for tests.
func FromMap(settings map[string]any) *Values {
	v := viper.New()
	if settings != nil {
		// MergeConfigMap never reports an error.
		_ = v.MergeConfigMap(settings)
	}
	return &Values{v: v}
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.ReplaceAll(key, ":", "."))
}

// Get returns the raw value stored under key, or nil when it is absent.
func (c *Values) Get(key string) any {
	if c == nil || c.v == nil {
		return nil
	}
	return c.v.Get(normalizeKey(key))
}

// GetString returns the value under key as a string. Absent keys and
// sections yield "".
func (c *Values) GetString(key string) string {
	if c == nil || c.v == nil {
		return ""
	}
	return c.v.GetString(normalizeKey(key))
}

// IsSet reports whether key has a value in any source.
func (c *Values) IsSet(key string) bool {
	if c == nil || c.v == nil {
		return false
	}
	return c.v.IsSet(normalizeKey(key))
}

// Section returns the sub-tree rooted at name. A missing section yields an
// empty lookup, never nil.
func (c *Values) Section(name string) *Values {
	if c == nil || c.v == nil {
		return FromMap(nil)
	}
	sub := c.v.Sub(normalizeKey(name))
	if sub == nil {
		return FromMap(nil)
	}
	return &Values{v: sub}
}

// Host holds settings that configure the function host itself rather than
// the work it performs.
type Host struct {
	LogLevel string `validate:"required,oneof=debug info warn error"`
}

// LogLevelKey is the setting that selects the minimum log level.
const LogLevelKey = "LogLevel"

// LoadHost reads host settings from values, applying defaults for anything
// left unset.
func LoadHost(values *Values) (*Host, error) {
	host := &Host{
		LogLevel: strings.ToLower(strings.TrimSpace(values.GetString(LogLevelKey))),
	}
	switch host.LogLevel {
	case "":
		host.LogLevel = "info"
	case "warning":
		host.LogLevel = "warn"
	}

	if err := validate.Struct(host); err != nil {
		return nil, fmt.Errorf("%w: host settings: %v", ErrValidation, err)
	}

	return host, nil
}
