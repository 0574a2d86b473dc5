package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// SettingsFileName is the optional settings file read from the function app
// directory.
const SettingsFileName = "local.settings.json"

// valuesSection is the object inside the settings file whose keys are lifted
// to the top level, mirroring how the hosting tools expose them as app settings.
const valuesSection = "values"

// Load merges the optional settings file found in appDir with the process
// environment. Environment variables take precedence over file values.
// A missing settings file is not an error; a malformed one is.
func Load(appDir string) (*Values, error) {
	return load(appDir, os.Environ())
}

func load(appDir string, environ []string) (*Values, error) {
	v := viper.New()
	v.SetConfigType("json")

	path := filepath.Join(appDir, SettingsFileName)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSettingsFile, path, err)
		}
		if err := liftValues(v); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSettingsFile, path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}

	if err := v.MergeConfigMap(environmentTree(environ)); err != nil {
		return nil, fmt.Errorf("failed to merge environment variables: %w", err)
	}

	return &Values{v: v}, nil
}

// liftValues copies the Values object to the top level. Entries holding an
// object are merged as sections; flat names such as "CustomerOptions:Name" or
// "CustomerOptions__Address__Street" are split like environment variables and
// merged on top.
func liftValues(v *viper.Viper) error {
	lifted := v.GetStringMap(valuesSection)
	if len(lifted) == 0 {
		return nil
	}

	sections := make(map[string]any)
	flat := make(map[string]any)
	for name, value := range lifted {
		if _, isSection := value.(map[string]any); isSection {
			sections[name] = value
			continue
		}
		insertPath(flat, splitSettingName(name), value)
	}

	if err := v.MergeConfigMap(sections); err != nil {
		return err
	}
	return v.MergeConfigMap(flat)
}

// splitSettingName splits a setting name into its section path.
func splitSettingName(name string) []string {
	return strings.Split(strings.ReplaceAll(name, ":", "__"), "__")
}

// environmentTree turns NAME=value pairs into a nested map, splitting names
// on "__" or ":" and lower-casing every segment.
func environmentTree(environ []string) map[string]any {
	tree := make(map[string]any)

	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}

		insertPath(tree, splitSettingName(name), value)
	}

	return tree
}

// insertPath stores value under the nested path. Names with empty segments
// and paths that collide with an existing value of a different shape are
// skipped.
func insertPath(tree map[string]any, segments []string, value any) {
	for _, segment := range segments {
		if segment == "" {
			return
		}
	}

	node := tree
	for i, segment := range segments {
		segment = strings.ToLower(segment)

		if i == len(segments)-1 {
			if _, isSection := node[segment].(map[string]any); !isSection {
				node[segment] = value
			}
			return
		}

		child, exists := node[segment]
		if !exists {
			child = make(map[string]any)
			node[segment] = child
		}

		next, isSection := child.(map[string]any)
		if !isSection {
			return
		}
		node = next
	}
}
