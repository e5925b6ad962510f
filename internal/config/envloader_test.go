package config

import (
	"testing"
)

type testNested struct {
	Retries int `env:"SYMDEX_TEST_RETRIES"`
}

type testConfig struct {
	Name    string `env:"SYMDEX_TEST_NAME"`
	Verbose bool   `env:"SYMDEX_TEST_VERBOSE"`
	Nested  testNested
	NoTag   string
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SYMDEX_TEST_NAME", "value")
	t.Setenv("SYMDEX_TEST_VERBOSE", "true")
	t.Setenv("SYMDEX_TEST_RETRIES", "3")

	cfg := &testConfig{NoTag: "untouched"}
	if err := LoadFromEnv(cfg); err != nil {
		t.Fatalf("LoadFromEnv() failed: %v", err)
	}

	if cfg.Name != "value" {
		t.Errorf("Name = %q, want %q", cfg.Name, "value")
	}
	if !cfg.Verbose {
		t.Error("Verbose = false, want true")
	}
	if cfg.Nested.Retries != 3 {
		t.Errorf("Nested.Retries = %d, want 3", cfg.Nested.Retries)
	}
	if cfg.NoTag != "untouched" {
		t.Errorf("NoTag = %q, want %q", cfg.NoTag, "untouched")
	}
}

func TestLoadFromEnvUnsetLeavesDefaults(t *testing.T) {
	cfg := &testConfig{Name: "default"}
	if err := LoadFromEnv(cfg); err != nil {
		t.Fatalf("LoadFromEnv() failed: %v", err)
	}
	if cfg.Name != "default" {
		t.Errorf("Name = %q, want %q", cfg.Name, "default")
	}
}

func TestLoadFromEnvInvalidValue(t *testing.T) {
	t.Setenv("SYMDEX_TEST_VERBOSE", "not-a-bool")

	if err := LoadFromEnv(&testConfig{}); err == nil {
		t.Error("expected error for invalid boolean")
	}
}
