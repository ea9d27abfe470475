// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd/dna2midi)
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/james-see/dna2midi/pkg/render"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load
const EnvPrefix = "DNA2MIDI"

// SongConfig are the musical parameters of a generated song
type SongConfig struct {
	// tonic letter, one of C D E F G A B
	Tonic string `mapstructure:"tonic"`

	// major or minor
	Mode string `mapstructure:"mode"`

	// beats per minute
	Tempo int `mapstructure:"tempo"`
}

// MIDIConfig tunes the MIDI renderer
type MIDIConfig struct {
	TicksPerQuarter uint16 `mapstructure:"ticks-per-quarter"`
	Velocity        uint8  `mapstructure:"velocity"`

	// General MIDI program number
	Program uint8 `mapstructure:"program"`
}

// ServerConfig is for the REST API
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// Config is the root-level settings struct and is a mix of settings from
// an optional config file, the environment and the command line
type Config struct {
	// path of the rendered artifact; its extension picks the format
	Output string `mapstructure:"output"`

	// print the codon trace
	Verbose bool `mapstructure:"verbose"`

	Song   SongConfig   `mapstructure:"song"`
	MIDI   MIDIConfig   `mapstructure:"midi"`
	Server ServerConfig `mapstructure:"server"`
}

// SetDefaults registers the default settings on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("output", "dna_song.mid")
	v.SetDefault("verbose", false)
	v.SetDefault("song.tonic", "C")
	v.SetDefault("song.mode", "major")
	v.SetDefault("song.tempo", 120)
	v.SetDefault("midi.ticks-per-quarter", 480)
	v.SetDefault("midi.velocity", 100)
	v.SetDefault("midi.program", 0)
	v.SetDefault("server.port", 8080)
}

// New returns a viper instance with defaults and environment binding.
// A non-empty configFile is read as well.
func New(configFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return v, nil
}

// Load decodes the settings held by v
func Load(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects settings no run could use
func (c *Config) Validate() error {
	if c.Song.Tempo <= 0 {
		return fmt.Errorf("song.tempo must be positive, got %d", c.Song.Tempo)
	}
	if c.MIDI.TicksPerQuarter == 0 || c.MIDI.TicksPerQuarter > 0x7FFF {
		return fmt.Errorf("midi.ticks-per-quarter must be in 1..32767, got %d", c.MIDI.TicksPerQuarter)
	}
	if c.MIDI.Velocity > 127 {
		return fmt.Errorf("midi.velocity must be at most 127, got %d", c.MIDI.Velocity)
	}
	if c.MIDI.Program > 127 {
		return fmt.Errorf("midi.program must be at most 127, got %d", c.MIDI.Program)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Output == "" {
		return errors.New("output path is empty")
	}
	return nil
}

// MIDIOptions converts the midi section for the renderer
func (c *Config) MIDIOptions() render.MIDIOptions {
	return render.MIDIOptions{
		TicksPerQuarter: c.MIDI.TicksPerQuarter,
		Velocity:        c.MIDI.Velocity,
		Program:         c.MIDI.Program,
	}
}
