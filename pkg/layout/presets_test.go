package layout

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/matzehuels/forcefield/pkg/errors"
)

func TestPresets(t *testing.T) {
	got := Presets()
	want := []string{"clusters", "default", "fast", "quality"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Presets = %v, want %v", got, want)
	}
}

func TestLoadPreset(t *testing.T) {
	cfg, err := LoadPreset("default")
	if err != nil {
		t.Fatalf("LoadPreset: %v", err)
	}
	if cfg.Algorithm != "forceatlas2" {
		t.Errorf("Algorithm = %q, want forceatlas2", cfg.Algorithm)
	}
	if cfg.Iterations != 300 {
		t.Errorf("Iterations = %d, want 300", cfg.Iterations)
	}
}

func TestLoadPresetFillsDefaults(t *testing.T) {
	cfg, err := LoadPreset("fast")
	if err != nil {
		t.Fatalf("LoadPreset: %v", err)
	}
	if cfg.Iterations != 100 {
		t.Errorf("Iterations = %d, want 100", cfg.Iterations)
	}
	if cfg.Theta != 0.9 {
		t.Errorf("Theta = %v, want 0.9", cfg.Theta)
	}
	// Fields the preset leaves out still get defaults.
	if cfg.LinkDistance != DefaultLinkDistance {
		t.Errorf("LinkDistance = %v, want %v", cfg.LinkDistance, DefaultLinkDistance)
	}
}

func TestLoadPresetUnknown(t *testing.T) {
	_, err := LoadPreset("missing")
	if err == nil {
		t.Fatal("want error, got nil")
	}
	if !errors.Is(err, errors.ErrCodeInvalidPreset) {
		t.Errorf("error code = %v, want INVALID_PRESET", errors.GetCode(err))
	}
}

func TestLoadPresetFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	if err := os.WriteFile(path, []byte("iterations = 42\ntheta = 0.7\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadPresetFile(path)
	if err != nil {
		t.Fatalf("LoadPresetFile: %v", err)
	}
	if cfg.Iterations != 42 || cfg.Theta != 0.7 {
		t.Errorf("got iterations=%d theta=%v, want 42, 0.7", cfg.Iterations, cfg.Theta)
	}
}

func TestLoadPresetFileInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(path, []byte("iterations = [not toml"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := LoadPresetFile(path); !errors.Is(err, errors.ErrCodeInvalidPreset) {
		t.Errorf("error = %v, want INVALID_PRESET", err)
	}
}
