package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ProblemThreshold != DefaultProblemThreshold {
		t.Errorf("ProblemThreshold = %v, want %v", cfg.ProblemThreshold, DefaultProblemThreshold)
	}
	if cfg.TopServices != DefaultTopServices {
		t.Errorf("TopServices = %d, want %d", cfg.TopServices, DefaultTopServices)
	}
	if len(cfg.Campuses) != len(DefaultCampuses) {
		t.Errorf("Campuses = %v, want %v", cfg.Campuses, DefaultCampuses)
	}
	if !cfg.Output.Color || cfg.Output.Width != 80 {
		t.Errorf("Output = %+v, want color on, width 80", cfg.Output)
	}
	if filepath.Base(cfg.DBPath) != DefaultDBName {
		t.Errorf("DBPath = %q, want basename %q", cfg.DBPath, DefaultDBName)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `db_path: /tmp/arta/test.db
problem_threshold: 80
top_services: 0
offices:
  - Registrar
  - Library
output:
  color: false
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "/tmp/arta/test.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.ProblemThreshold != 80 {
		t.Errorf("ProblemThreshold = %v, want 80", cfg.ProblemThreshold)
	}
	if cfg.TopServices != DefaultTopServices {
		t.Errorf("TopServices = %d, want default for non-positive value", cfg.TopServices)
	}
	if len(cfg.Offices) != 2 || cfg.Offices[0] != "Registrar" {
		t.Errorf("Offices = %v", cfg.Offices)
	}
	if cfg.Output.Color {
		t.Error("expected color disabled")
	}
	if cfg.Output.Width != 80 {
		t.Errorf("Width = %d, want default 80", cfg.Output.Width)
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("ARTAWATCH_PROBLEM_THRESHOLD", "65")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ProblemThreshold != 65 {
		t.Errorf("ProblemThreshold = %v, want 65", cfg.ProblemThreshold)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := expandPath("~/x/y"); got != filepath.Join(home, "x", "y") {
		t.Errorf("expandPath = %q", got)
	}
	if got := expandPath("/abs"); got != "/abs" {
		t.Errorf("expandPath(/abs) = %q", got)
	}
}

func TestLoad_RejectsOutOfRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("problem_threshold: 120\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for problem_threshold above 100")
	}
	if !strings.Contains(err.Error(), "problem_threshold") {
		t.Errorf("error should name the key, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	cfg := Config{DBPath: "x.db", ProblemThreshold: 70, LowOfficeMinResponses: 5, DissatisfactionAlert: 10}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg.LowOfficeMinResponses = 0
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "low_office_min_responses") {
		t.Errorf("expected low_office_min_responses error, got %v", err)
	}

	cfg.LowOfficeMinResponses = 5
	cfg.Offices = []string{"HR", ""}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for blank office name")
	}
}
