package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings are the user-tunable knobs read from a YAML file. Zero values
// mean "use the default"; DefaultSettings documents the defaults.
type Settings struct {
	// Indent is the export indent unit. Default is a single tab.
	Indent string `yaml:"indent"`

	// LocalTagPlaceholder, when set, is the name of a BOOL local tag emitted
	// into otherwise empty AOI LOCAL_TAGS blocks for tools that reject empty
	// blocks. Empty means emit the block with no entries.
	LocalTagPlaceholder string `yaml:"local_tag_placeholder"`

	// ExtraBaseTypes extends the set of type names treated as primitives
	// during normalization, for vendor types not built into the parser.
	ExtraBaseTypes []string `yaml:"extra_base_types"`

	// NoColor disables colored terminal output.
	NoColor bool `yaml:"no_color"`
}

// DefaultSettings returns the settings used when no file is present.
func DefaultSettings() Settings {
	return Settings{Indent: "\t"}
}

// LoadSettings reads settings from path. A missing file is not an error and
// yields the defaults. Environment overrides (L5KTUNE_INDENT, L5KTUNE_NO_COLOR)
// are applied on top.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	if path == "" {
		path = Env().SettingsFile
	}
	if path == "" {
		path = DefaultSettingsPath()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return s, fmt.Errorf("read settings: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse settings %s: %w", path, err)
	}
	if s.Indent == "" {
		s.Indent = "\t"
	}
	if e := Env(); e.Indent != "" {
		s.Indent = e.Indent
	}
	if Env().NoColor {
		s.NoColor = true
	}
	return s, nil
}

// SaveSettings writes settings as YAML.
func SaveSettings(path string, s Settings) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
