package roster

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a snapshot file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from the file extension, ignoring a
// trailing ".br". Unknown extensions default to JSON.
func FormatFromPath(p string) Format {
	p = strings.TrimSuffix(strings.ToLower(p), ".br")
	switch filepath.Ext(p) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Decode reads a snapshot in the given format.
func Decode(r io.Reader, format Format) (*Snapshot, error) {
	var s Snapshot
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&s); err != nil && err != io.EOF {
			return nil, fmt.Errorf("roster: decode yaml: %w", err)
		}
	case FormatJSON, "":
		if err := json.NewDecoder(r).Decode(&s); err != nil {
			return nil, fmt.Errorf("roster: decode json: %w", err)
		}
	default:
		return nil, fmt.Errorf("roster: unknown format %q", format)
	}
	return &s, nil
}

// LoadFile reads a snapshot from disk. Files ending in ".br" are
// brotli-compressed (roster.json.br, roster.yaml.br).
func LoadFile(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("roster: open snapshot: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(strings.ToLower(path), ".br") {
		r = brotli.NewReader(f)
	}
	return Decode(r, FormatFromPath(path))
}

// Encode writes s as indented JSON. Used for snapshot fixtures and exports.
func Encode(w io.Writer, s *Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("roster: encode json: %w", err)
	}
	return nil
}
