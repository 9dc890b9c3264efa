package pkgconfig

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a catalog document encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ErrUnknownFormat is returned for formats other than json, yaml and toml.
var ErrUnknownFormat = errors.New("unknown format")

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatJSON, FormatYAML, FormatTOML}
}

// String implements pflag.Value.
func (f *Format) String() string {
	if *f == "" {
		return string(FormatJSON)
	}
	return string(*f)
}

// Set implements pflag.Value.
func (f *Format) Set(s string) error {
	parsed, err := ParseFormat(s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Type implements pflag.Value.
func (f *Format) Type() string {
	return "format"
}

// ParseFormat parses a format name. "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	}
	return "", errors.Wrapf(ErrUnknownFormat, "%q", s)
}

// FormatFromPath infers the format from a file extension, defaulting to
// JSON.
func FormatFromPath(path string) Format {
	f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return FormatJSON
	}
	return f
}

// Encode renders cfg in the given format.
func Encode(cfg *RuntimeConfig, f Format) ([]byte, error) {
	out := cfg.Clone()
	switch f {
	case FormatJSON, "":
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "marshaling json")
		}
		return append(data, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return nil, errors.Wrap(err, "marshaling yaml")
		}
		if err := enc.Close(); err != nil {
			return nil, errors.Wrap(err, "marshaling yaml")
		}
		return buf.Bytes(), nil
	case FormatTOML:
		data, err := toml.Marshal(out)
		if err != nil {
			return nil, errors.Wrap(err, "marshaling toml")
		}
		return data, nil
	}
	return nil, errors.Wrapf(ErrUnknownFormat, "%q", f)
}

// Decode parses a catalog document. Nil collections are normalised to
// empty ones.
func Decode(data []byte, f Format) (*RuntimeConfig, error) {
	var cfg RuntimeConfig
	switch f {
	case FormatJSON, "":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrap(err, "unmarshaling json")
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrap(err, "unmarshaling yaml")
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrap(err, "unmarshaling toml")
		}
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "%q", f)
	}
	return cfg.Clone(), nil
}
