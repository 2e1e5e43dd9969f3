package layout

import (
	"embed"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/forcefield/pkg/errors"
)

// Built-in presets are TOML files embedded into the binary, so the CLI
// and the API resolve the same names to the same parameters.

//go:embed presets/*.toml
var presetFS embed.FS

// Presets returns the names of the built-in presets, sorted.
func Presets() []string {
	entries, err := presetFS.ReadDir("presets")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".toml"))
	}
	sort.Strings(names)
	return names
}

// LoadPreset returns the built-in preset with the given name, with
// defaults already applied.
func LoadPreset(name string) (Config, error) {
	data, err := presetFS.ReadFile("presets/" + name + ".toml")
	if err != nil {
		return Config{}, errors.New(errors.ErrCodeInvalidPreset, "unknown preset: %q (available: %s)", name, strings.Join(Presets(), ", "))
	}
	return decodePreset(data)
}

// LoadPresetFile reads layout parameters from a TOML file on disk.
func LoadPresetFile(path string) (Config, error) {
	if err := errors.ValidatePath(path); err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read preset %s", path)
	}
	return decodePreset(data)
}

func decodePreset(data []byte) (Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidPreset, err, "parse preset")
	}
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "validate preset")
	}
	return cfg, nil
}
