package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("default spec should validate: %v", err)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*BenchSpec)
	}{
		{"empty template", func(s *BenchSpec) { s.CommandTemplate = "" }},
		{"missing binfile placeholder", func(s *BenchSpec) { s.CommandTemplate = "./countpairs {threads}" }},
		{"missing threads placeholder", func(s *BenchSpec) { s.CommandTemplate = "./countpairs {binfile}" }},
		{"empty binfile path", func(s *BenchSpec) { s.BinfilePath = "" }},
		{"empty store path", func(s *BenchSpec) { s.StorePath = "" }},
		{"zero min threads", func(s *BenchSpec) { s.MinThreads = 0 }},
		{"max below min", func(s *BenchSpec) { s.MinThreads = 8; s.MaxThreads = 4 }},
		{"single trial", func(s *BenchSpec) { s.TrialsPerSetting = 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := Default()
			tt.mutate(spec)
			if err := spec.Validate(); err == nil {
				t.Errorf("expected validation error for %s", tt.name)
			}
		})
	}
}

func TestLoadMissingDefaultConfigUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	spec, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if spec.MaxThreads != 16 || spec.TrialsPerSetting != 5 {
		t.Errorf("expected default sweep bounds, got %+v", spec)
	}
}

func TestLoadExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.yaml")
	content := `command_template: "/opt/paircount --bins={binfile} --nthreads={threads}"
binfile_path: edges.txt
store_path: out.dat
min_threads: 1
max_threads: 8
trials_per_setting: 3
strict_workload: true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	spec, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if spec.MaxThreads != 8 {
		t.Errorf("max_threads = %d, want 8", spec.MaxThreads)
	}
	if spec.TrialsPerSetting != 3 {
		t.Errorf("trials_per_setting = %d, want 3", spec.TrialsPerSetting)
	}
	if !spec.StrictWorkload {
		t.Error("strict_workload should be true")
	}
	if spec.CommandTemplate != "/opt/paircount --bins={binfile} --nthreads={threads}" {
		t.Errorf("unexpected template: %q", spec.CommandTemplate)
	}
}

func TestLoadExplicitFileMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestLoadRejectsInvalidSpec(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("trials_per_setting: 1\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected validation error for single-trial config")
	}
}

func TestSweepCounts(t *testing.T) {
	spec := Default()
	spec.MinThreads = 2
	spec.MaxThreads = 5
	spec.TrialsPerSetting = 3

	if got := spec.ThreadSettings(); got != 4 {
		t.Errorf("ThreadSettings = %d, want 4", got)
	}
	if got := spec.TotalInvocations(); got != 12 {
		t.Errorf("TotalInvocations = %d, want 12", got)
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pairscale.yaml")

	if err := WriteDefault(Default(), path); err != nil {
		t.Fatalf("WriteDefault failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read config: %v", err)
	}
	if !strings.Contains(string(data), "command_template") {
		t.Error("written config missing command_template key")
	}

	// Round-trip through the loader.
	spec, err := Load(path)
	if err != nil {
		t.Fatalf("Load of written config failed: %v", err)
	}
	if spec.MaxThreads != Default().MaxThreads {
		t.Errorf("round-trip max_threads = %d, want %d", spec.MaxThreads, Default().MaxThreads)
	}

	// Refuses to overwrite.
	if err := WriteDefault(Default(), path); err == nil {
		t.Error("expected error when config already exists")
	}
}
