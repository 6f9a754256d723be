package testutil

import (
	"embed"
	"encoding/json"

	"github.com/BurntSushi/toml"

	"github.com/firefly-engineering/dev-tools/internal/config"
	"github.com/firefly-engineering/dev-tools/internal/suffix"
)

//go:embed fixtures/*
var fixturesFS embed.FS

// LoadFixture loads a fixture file by name.
func LoadFixture(name string) ([]byte, error) {
	return fixturesFS.ReadFile("fixtures/" + name)
}

// LoadSettingsFixture decodes a settings fixture over the defaults, the
// same way LoadSettings layers the settings file. It does not validate.
func LoadSettingsFixture(name string) (*config.Settings, error) {
	data, err := LoadFixture(name)
	if err != nil {
		return nil, err
	}
	s := config.DefaultSettings()
	if _, err := toml.Decode(string(data), s); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadStateFixture decodes a state document fixture.
func LoadStateFixture(name string) (*suffix.Document, error) {
	data, err := LoadFixture(name)
	if err != nil {
		return nil, err
	}
	var doc suffix.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ValidSettings returns the valid settings fixture.
func ValidSettings() (*config.Settings, error) {
	return LoadSettingsFixture("valid_settings.toml")
}

// InvalidSettings returns the invalid settings fixture.
func InvalidSettings() (*config.Settings, error) {
	return LoadSettingsFixture("invalid_settings.toml")
}

// TakenState returns a full pool with 00, 01 and 03 taken.
func TakenState() (*suffix.Document, error) {
	return LoadStateFixture("state_taken.json")
}

// ComposePSArray is docker compose ps output in the JSON array shape.
func ComposePSArray() []byte {
	data, _ := LoadFixture("compose_ps_array.json")
	return data
}

// ComposePSLines is docker compose ps output with one JSON object per line.
func ComposePSLines() []byte {
	data, _ := LoadFixture("compose_ps_lines.json")
	return data
}
