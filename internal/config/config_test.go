package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/zetasim/internal/grid"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Domain.ReMin != 0.4 || cfg.Domain.ReMax != 0.6 {
		t.Errorf("real bounds = [%v, %v], want [0.4, 0.6]", cfg.Domain.ReMin, cfg.Domain.ReMax)
	}
	if cfg.Domain.ImMax != 50 {
		t.Errorf("im_max = %v, want 50", cfg.Domain.ImMax)
	}
	if cfg.Field.Terms <= 0 {
		t.Error("terms should be positive")
	}
	if cfg.Backend != "auto" {
		t.Errorf("backend = %q, want auto", cfg.Backend)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadSave_RoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Domain.ImMax = 25
	cfg.Field.Alpha = 2.5
	cfg.Backend = "serial"

	path := filepath.Join(t.TempDir(), "zetasim.yaml")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, cfg)
	}
}

func TestLoad_PartialFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := []byte("domain:\n  im_max: 20\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Domain.ImMax != 20 {
		t.Errorf("im_max = %v, want 20", cfg.Domain.ImMax)
	}
	if cfg.Domain.ReMin != DefaultReMin {
		t.Errorf("re_min = %v, want default %v", cfg.Domain.ReMin, DefaultReMin)
	}
	if cfg.Field.Terms != DefaultTerms {
		t.Errorf("terms = %v, want default %v", cfg.Field.Terms, DefaultTerms)
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Domain.ReMin = 0.8
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for reversed bounds")
	}
	if !errors.Is(err, grid.ErrInvalidDomain) {
		t.Errorf("error %v does not wrap ErrInvalidDomain", err)
	}

	cfg = DefaultConfig()
	cfg.Field.Alpha = -2
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative alpha")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("first-zero")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Domain.ImMin != 13 || cfg.Domain.ImMax != 15 {
		t.Errorf("imaginary bounds = [%v, %v], want [13, 15]", cfg.Domain.ImMin, cfg.Domain.ImMax)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("preset invalid: %v", err)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestGetPreset_ReturnsCopy(t *testing.T) {
	a := GetPreset("coarse")
	a.Domain.Step = 99

	b := GetPreset("coarse")
	if b.Domain.Step == 99 {
		t.Error("preset table mutated through returned copy")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("ListPresets() returned %d names, want %d", len(names), len(Presets))
	}
	for i := 1; i < len(names); i++ {
		if names[i] < names[i-1] {
			t.Errorf("names not sorted at %d: %q < %q", i, names[i], names[i-1])
		}
	}
	for _, name := range names {
		cfg := GetPreset(name)
		if cfg == nil {
			t.Errorf("listed preset %q not gettable", name)
			continue
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %q invalid: %v", name, err)
		}
	}
}
