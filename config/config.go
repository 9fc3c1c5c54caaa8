// Package config holds beepy's configuration: one immutable sub-struct per
// output backend, resolved once at startup from the optional config file
// and the command line, then passed by value at construction.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// BeepConfig configures the external-command output.
type BeepConfig struct {
	Command string `json:"command,omitempty"` // beep executable, looked up on PATH
	Print   bool   `json:"print,omitempty"`   // print the generated command line
}

// EvdevConfig configures the speaker event-device output.
type EvdevConfig struct {
	Device string `json:"device,omitempty"`
}

// PCMConfig configures the raw sample-stream output.
type PCMConfig struct {
	SampleRate int    `json:"sampleRate,omitempty"`
	Output     string `json:"output,omitempty"` // file path; "-" or empty is stdout
}

// MIDIConfig configures the MIDI port output.
type MIDIConfig struct {
	Port     string `json:"port,omitempty"` // substring match; empty picks the first port
	Channel  uint8  `json:"channel,omitempty"`
	Velocity uint8  `json:"velocity,omitempty"`
}

// PortAudioConfig configures live soundcard playback.
type PortAudioConfig struct {
	SampleRate int `json:"sampleRate,omitempty"`
}

// Config is the main configuration structure.
type Config struct {
	Encoding string `json:"encoding,omitempty"`
	Notation string `json:"notation,omitempty"`
	Output   string `json:"output,omitempty"`
	Debug    bool   `json:"debug,omitempty"`

	Beep      BeepConfig      `json:"beep,omitempty"`
	Evdev     EvdevConfig     `json:"evdev,omitempty"`
	PCM       PCMConfig       `json:"pcm,omitempty"`
	MIDI      MIDIConfig      `json:"midi,omitempty"`
	PortAudio PortAudioConfig `json:"portaudio,omitempty"`
}

// Default returns the configuration used when no file and no flags are
// present. The defaults match the Python beepy tool this replaces.
func Default() *Config {
	return &Config{
		Encoding:  "UTF-8",
		Notation:  "qb",
		Output:    "evdev",
		Beep:      BeepConfig{Command: "beep"},
		Evdev:     EvdevConfig{Device: "/dev/input/by-path/platform-pcspkr-event-spkr"},
		PCM:       PCMConfig{SampleRate: 48000, Output: "-"},
		MIDI:      MIDIConfig{Velocity: 100},
		PortAudio: PortAudioConfig{SampleRate: 48000},
	}
}

// Dir returns the config directory path.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "beepy"), nil
}

// Path returns the full path to config.json.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk. A missing or unresolvable file yields
// the defaults; fields absent from the file keep their default values.
func Load() (*Config, error) {
	cfg := Default()

	path, err := Path()
	if err != nil {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to disk, creating the directory if needed.
func (c *Config) Save() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	path, err := Path()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
