package pipeline

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadConfig_PartialOverride(t *testing.T) {
	path := writeTempFile(t, "cfg.yaml", "block_size: 16\neffects:\n  vignette: 0.3\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	want := DefaultConfig()
	want.BlockSize = 16
	want.Effects.Vignette = 0.3
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("config mismatch:\n got %+v\nwant %+v", cfg, want)
	}
}

func TestLoadConfig_FontCandidates(t *testing.T) {
	path := writeTempFile(t, "cfg.yaml", "font_candidates:\n  - /fonts/a.ttf\n  - /fonts/b.ttc\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	want := []string{"/fonts/a.ttf", "/fonts/b.ttc"}
	if !reflect.DeepEqual(cfg.FontCandidates, want) {
		t.Errorf("FontCandidates: got %v, want %v", cfg.FontCandidates, want)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"malformed yaml", "block_size: [1, 2", "failed to parse"},
		{"wrong type", "block_size: large", "failed to parse"},
		{"zero block size", "block_size: 0", "block_size"},
		{"floor above max", "ascii_floor: 0.95", "ascii_floor"},
		{"empty charset", "charset: \"\"", "charset"},
		{"negative shift", "effects:\n  chromatic_shift: -1", "chromatic_shift"},
		{"bad grid color", "map_grid_color: \"#12\"", "map_grid_color"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempFile(t, "cfg.yaml", tt.content)
			_, err := LoadConfig(path)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestConfig_FinalGrainIsHalf(t *testing.T) {
	cfg := DefaultConfig()
	g := cfg.finalGrain()
	if g.Intensity != 11 || g.Seed != 137 {
		t.Errorf("final grain: got %+v, want intensity 11 seed 137", g)
	}

	cfg.GrainIntensity = 23
	if got := cfg.finalGrain().Intensity; got != 11 {
		t.Errorf("odd intensity: got %v, want 11", got)
	}
}
