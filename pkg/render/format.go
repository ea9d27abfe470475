package render

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format represents an output file format
type Format string

const (
	FormatMIDI    Format = "midi"
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatUnknown Format = "unknown"
)

// DetectFormat detects the output format from a file extension
func DetectFormat(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".mid", ".midi":
		return FormatMIDI
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatUnknown
	}
}

// MIDIOptions tune the MIDI renderer. Zero values keep the defaults.
type MIDIOptions struct {
	TicksPerQuarter uint16
	Velocity        uint8
	Program         uint8
}

// ForPath returns the renderer matching the extension of path
func ForPath(path string, opts MIDIOptions) (Renderer, error) {
	f := DetectFormat(path)
	if f == FormatUnknown {
		return nil, fmt.Errorf("cannot determine output format from filename %q", path)
	}
	return build(f, path, opts)
}

// EncoderFor returns an in-memory encoder for format f
func EncoderFor(f Format, opts MIDIOptions) (Encoder, error) {
	return build(f, "", opts)
}

type fileRenderer interface {
	Renderer
	Encoder
}

func build(f Format, path string, opts MIDIOptions) (fileRenderer, error) {
	switch f {
	case FormatMIDI:
		m := NewMIDIRenderer(path)
		if opts.TicksPerQuarter != 0 {
			m.TicksPerQuarter = opts.TicksPerQuarter
		}
		if opts.Velocity != 0 {
			m.Velocity = opts.Velocity
		}
		m.Program = opts.Program
		return m, nil
	case FormatJSON:
		return &JSONRenderer{Path: path}, nil
	case FormatYAML:
		return &YAMLRenderer{Path: path}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", f)
	}
}

// ContentType returns the MIME type served for f
func ContentType(f Format) string {
	switch f {
	case FormatMIDI:
		return "audio/midi"
	case FormatJSON:
		return "application/json"
	case FormatYAML:
		return "application/yaml"
	default:
		return "application/octet-stream"
	}
}

// Extension returns the preferred file extension for f
func Extension(f Format) string {
	switch f {
	case FormatMIDI:
		return ".mid"
	case FormatJSON:
		return ".json"
	case FormatYAML:
		return ".yaml"
	default:
		return ""
	}
}

// GetSupportedFormats returns the output formats and their extensions
func GetSupportedFormats() map[Format][]string {
	return map[Format][]string{
		FormatMIDI: {".mid", ".midi"},
		FormatJSON: {".json"},
		FormatYAML: {".yaml", ".yml"},
	}
}
