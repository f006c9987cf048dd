package config

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

// FileConfig is a read-only view of the configuration document. The zero
// value, and the value returned for an empty path, reports every key absent.
type FileConfig struct {
	path string
	v    *viper.Viper
}

// LoadFile reads and parses the document at path. The format follows the file
// extension (json, yaml, toml, ...); files with no extension, or one viper does
// not parse (".conf", ".cfg"), are read as JSON. An empty path is not an error
// and yields an empty FileConfig.
func LoadFile(path string) (*FileConfig, error) {
	if path == "" {
		return &FileConfig{}, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if !slices.Contains(viper.SupportedExts, strings.TrimPrefix(filepath.Ext(path), ".")) {
		v.SetConfigType("json")
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	return &FileConfig{path: path, v: v}, nil
}

// Path returns the document path, or "" for an empty FileConfig.
func (f *FileConfig) Path() string {
	if f == nil {
		return ""
	}
	return f.path
}

// Lookup returns the value stored under key rendered as a string. Keys match
// case-insensitively, as everywhere in viper. Keys that
// are absent, null, or empty report ok=false. Numbers are rendered in decimal,
// so {"ws_server_port": 8080} yields "8080".
func (f *FileConfig) Lookup(key string) (string, bool) {
	if f == nil || f.v == nil || !f.v.IsSet(key) {
		return "", false
	}

	if f.v.Get(key) == nil {
		return "", false
	}

	// Objects and arrays do not render as scalars and read as absent.
	value := f.v.GetString(key)
	return value, value != ""
}
