package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.World.Width != 10 || cfg.World.Height != 8 {
		t.Errorf("world = %vx%v, want 10x8", cfg.World.Width, cfg.World.Height)
	}
	if cfg.Physics.InfluenceRadius != 0.25 {
		t.Errorf("influence radius = %v, want 0.25", cfg.Physics.InfluenceRadius)
	}
	if cfg.Particles.Color != [4]uint8{255, 255, 255, 255} {
		t.Errorf("particle color = %v, want opaque white", cfg.Particles.Color)
	}

	// int(5 * 0.25) == 1, int((8/10) / (2.5*0.03)) == 10
	if cfg.Derived.SpawnInterval != 1 {
		t.Errorf("SpawnInterval = %d, want 1", cfg.Derived.SpawnInterval)
	}
	if cfg.Derived.SpawnRows != 10 {
		t.Errorf("SpawnRows = %d, want 10", cfg.Derived.SpawnRows)
	}
	if cfg.Derived.PixelsPerUnit != 100 {
		t.Errorf("PixelsPerUnit = %v, want 100", cfg.Derived.PixelsPerUnit)
	}
}

func TestLoadMergesUserFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fluid.yaml")
	data := []byte("physics:\n  gravity: 3\n  influence_radius: 0.5\nparticles:\n  count: 500\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Physics.Gravity != 3 || cfg.Particles.Count != 500 {
		t.Errorf("overrides not applied: gravity=%v count=%d", cfg.Physics.Gravity, cfg.Particles.Count)
	}
	// Untouched keys keep their defaults.
	if cfg.Physics.RestDensity != 120 || cfg.Particles.Radius != 0.03 {
		t.Errorf("defaults lost: rest=%v radius=%v", cfg.Physics.RestDensity, cfg.Particles.Radius)
	}
	if cfg.Derived.SpawnInterval != 2 {
		t.Errorf("SpawnInterval = %d, want 2", cfg.Derived.SpawnInterval)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero influence", "physics:\n  influence_radius: 0\n"},
		{"damping above one", "physics:\n  collision_damping: 1.5\n"},
		{"negative count", "particles:\n  count: -1\n"},
		{"negative workers", "parallel:\n  workers: -2\n"},
		{"zero world", "world:\n  width: 0\n"},
		{"malformed", "physics: [\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tc.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Physics.ViscosityMultiplier = 42

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if back.Physics != cfg.Physics {
		t.Errorf("physics = %+v, want %+v", back.Physics, cfg.Physics)
	}
}

func TestCfgPanicsBeforeInit(t *testing.T) {
	saved := global
	global = nil
	defer func() {
		global = saved
		if recover() == nil {
			t.Error("Cfg() did not panic")
		}
	}()
	Cfg()
}
