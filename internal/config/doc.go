// Package config loads function settings from an optional local settings file
// and the process environment, and parses named sections into typed options.
//
// Settings are merged into a single case-insensitive lookup (Values). The
// environment always wins over the file. Section separators are ':' or '.'
// in keys and '__' in environment variable names, so the environment
// variable CustomerOptions__Address__Street overrides the file key
// CustomerOptions:Address:Street.
package config
