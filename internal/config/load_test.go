package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupEnv sets environment variables for the duration of the test.
func setupEnv(t *testing.T, envVars map[string]string) {
	t.Helper()
	for name, value := range envVars {
		t.Setenv(name, value)
	}
}

// writeSettingsFile writes a local settings file into a fresh directory and
// returns the directory.
func writeSettingsFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, SettingsFileName), []byte(content), 0o600)
	require.NoError(t, err, "Failed to write settings file")
	return dir
}

// TestLoadFromEnvironmentOnly verifies that environment variables alone populate
// settings when no settings file exists.
func TestLoadFromEnvironmentOnly(t *testing.T) {
	setupEnv(t, map[string]string{
		"BlobPath": "samples-workitems/from-env",
	})

	values, err := Load(t.TempDir())

	require.NoError(t, err, "Load() should not fail without a settings file")
	assert.Equal(t, "samples-workitems/from-env", values.GetString("BlobPath"))
	assert.Equal(t, "samples-workitems/from-env", values.GetString("blobpath"), "Keys should be case-insensitive")
}

// TestLoadFromSettingsFile verifies that the Values object of the settings
// file is exposed at the top level, alongside regular top-level keys.
func TestLoadFromSettingsFile(t *testing.T) {
	dir := writeSettingsFile(t, `{
		"IsEncrypted": false,
		"Values": {
			"BlobPath": "samples-workitems/from-file",
			"BlobStorageConnection": ""
		},
		"CustomerOptions": {
			"Name": "Contoso",
			"Address": { "Street": "1 Main St" }
		}
	}`)

	values, err := load(dir, nil)

	require.NoError(t, err)
	assert.Equal(t, "samples-workitems/from-file", values.GetString("BlobPath"))
	assert.Equal(t, "Contoso", values.GetString("CustomerOptions:Name"))
	assert.Equal(t, "1 Main St", values.Section("CustomerOptions").GetString("Address:Street"))
	assert.True(t, values.IsSet("BlobStorageConnection"))
}

// TestLoadSplitsSectionNamesInValues verifies that flat section names inside
// the Values object bind the same way as the equivalent environment variables.
func TestLoadSplitsSectionNamesInValues(t *testing.T) {
	dir := writeSettingsFile(t, `{
		"Values": {
			"BlobPath": "samples-workitems/from-file",
			"CustomerOptions:Name": "Contoso",
			"CustomerOptions__Address__Street": "1 Main St",
			"CustomerOptions:CustomerNumber": "42",
			"CustomerOptions:Address:City": "Springfield"
		}
	}`)

	t.Run("from file", func(t *testing.T) {
		values, err := load(dir, nil)
		require.NoError(t, err)

		opts, err := BindCustomerOptions(values)

		require.NoError(t, err)
		assert.Equal(t, "Contoso", opts.Name)
		assert.Equal(t, 42, opts.CustomerNumber)
		assert.Equal(t, "1 Main St", opts.Address.Street)
		assert.Equal(t, "Springfield", opts.Address.City)
		assert.Equal(t, "samples-workitems/from-file", values.GetString("BlobPath"))
	})

	t.Run("environment still wins", func(t *testing.T) {
		values, err := load(dir, []string{"CustomerOptions__Name=Fabrikam"})
		require.NoError(t, err)

		opts, err := BindCustomerOptions(values)

		require.NoError(t, err)
		assert.Equal(t, "Fabrikam", opts.Name)
		assert.Equal(t, "1 Main St", opts.Address.Street)
	})

	t.Run("merges with a nested section", func(t *testing.T) {
		dir := writeSettingsFile(t, `{
			"Values": {
				"CustomerOptions": { "Name": "Contoso", "Address": { "City": "Springfield" } },
				"CustomerOptions:Address:Street": "1 Main St"
			}
		}`)
		values, err := load(dir, nil)
		require.NoError(t, err)

		opts, err := BindCustomerOptions(values)

		require.NoError(t, err)
		assert.Equal(t, "Contoso", opts.Name)
		assert.Equal(t, "Springfield", opts.Address.City)
		assert.Equal(t, "1 Main St", opts.Address.Street)
	})
}

// TestEnvironmentOverridesSettingsFile verifies that the environment wins when
// both sources define the same key.
func TestEnvironmentOverridesSettingsFile(t *testing.T) {
	dir := writeSettingsFile(t, `{"Values": {"BlobPath": "samples-workitems/from-file"}}`)
	setupEnv(t, map[string]string{
		"BlobPath": "samples-workitems/from-env",
	})

	values, err := Load(dir)

	require.NoError(t, err)
	assert.Equal(t, "samples-workitems/from-env", values.GetString("BlobPath"))
}

// TestEnvironmentOverridesNestedKeys verifies that "__" separated variable
// names address nested sections without clobbering sibling keys.
func TestEnvironmentOverridesNestedKeys(t *testing.T) {
	dir := writeSettingsFile(t, `{
		"CustomerOptions": {
			"Name": "Contoso",
			"Address": { "Street": "1 Main St", "City": "Springfield" }
		}
	}`)

	values, err := load(dir, []string{
		"CustomerOptions__Address__Street=2 Side St",
		"CUSTOMEROPTIONS:ADDRESS:STATE=WA",
	})

	require.NoError(t, err)
	customer := values.Section("CustomerOptions")
	assert.Equal(t, "Contoso", customer.GetString("Name"))
	assert.Equal(t, "2 Side St", customer.GetString("Address:Street"))
	assert.Equal(t, "Springfield", customer.GetString("Address:City"))
	assert.Equal(t, "WA", customer.GetString("Address:State"))
}

// TestLoadMalformedSettingsFile verifies that a settings file that exists but
// cannot be parsed fails loudly.
func TestLoadMalformedSettingsFile(t *testing.T) {
	dir := writeSettingsFile(t, `{"Values": {"BlobPath": `)

	values, err := load(dir, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSettingsFile)
	assert.Nil(t, values)
}

func TestEnvironmentTree(t *testing.T) {
	t.Run("nests on separators", func(t *testing.T) {
		tree := environmentTree([]string{
			"PLAIN=value",
			"Section__Key=nested",
			"Section:Other=colon",
			"WITH_EQUALS=a=b",
		})

		assert.Equal(t, "value", tree["plain"])
		assert.Equal(t, "a=b", tree["with_equals"])
		assert.Equal(t, map[string]any{"key": "nested", "other": "colon"}, tree["section"])
	})

	t.Run("skips malformed and colliding names", func(t *testing.T) {
		tree := environmentTree([]string{
			"NOEQUALS",
			"=hidden",
			"Empty____Segment=x",
			"Scalar=1",
			"Scalar__Child=2",
			"Section__Key=3",
			"Section=4",
		})

		assert.NotContains(t, tree, "noequals")
		assert.NotContains(t, tree, "empty")
		assert.Equal(t, "1", tree["scalar"])
		assert.Equal(t, map[string]any{"key": "3"}, tree["section"])
	})
}

func TestValuesSection(t *testing.T) {
	values := FromMap(map[string]any{
		"Outer": map[string]any{"Inner": "value"},
	})

	assert.Equal(t, "value", values.Section("outer").GetString("inner"))
	assert.Equal(t, "", values.Section("missing").GetString("inner"), "Missing sections should read as empty")
	assert.Equal(t, "", values.GetString("Outer"), "Sections should not read as strings")

	var nilValues *Values
	assert.Equal(t, "", nilValues.GetString("anything"))
	assert.False(t, nilValues.IsSet("anything"))
}

func TestLoadHost(t *testing.T) {
	testCases := []struct {
		name        string
		settings    map[string]any
		expected    string
		expectError bool
	}{
		{name: "defaults to info", settings: nil, expected: "info"},
		{name: "normalizes case", settings: map[string]any{"LogLevel": " DEBUG "}, expected: "debug"},
		{name: "accepts warning", settings: map[string]any{"LogLevel": "Warning"}, expected: "warn"},
		{name: "rejects unknown level", settings: map[string]any{"LogLevel": "verbose"}, expectError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			host, err := LoadHost(FromMap(tc.settings))

			if tc.expectError {
				assert.ErrorIs(t, err, ErrValidation)
				assert.Nil(t, host)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, host.LogLevel)
		})
	}
}
