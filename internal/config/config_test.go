package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

// setupHome points the config dir at a temp directory and resets viper's
// global state so tests don't leak into each other.
func setupHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("PYBAKE_HOME", dir)
	viper.Reset()
	t.Cleanup(viper.Reset)
	return dir
}

func TestDirHonorsEnvOverride(t *testing.T) {
	dir := setupHome(t)
	if got := Dir(); got != dir {
		t.Errorf("Dir() = %q, want %q", got, dir)
	}
	if got := FilePath(); got != filepath.Join(dir, "config.yaml") {
		t.Errorf("FilePath() = %q", got)
	}
}

func TestSetAndGet(t *testing.T) {
	dir := setupHome(t)
	Load()

	if err := Set("full_name", "Jane Doe"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if got := Get("full_name"); got != "Jane Doe" {
		t.Errorf("Get(full_name) = %q, want Jane Doe", got)
	}

	// The value persists to disk.
	data, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("reading config file: %v", err)
	}
	if !strings.Contains(string(data), "Jane Doe") {
		t.Errorf("config file missing stored value:\n%s", data)
	}

	// A fresh load reads it back.
	viper.Reset()
	Load()
	if got := Get("full_name"); got != "Jane Doe" {
		t.Errorf("Get(full_name) after reload = %q", got)
	}
}

func TestDefaults(t *testing.T) {
	setupHome(t)
	Load()

	if err := Set("full_name", "Jane Doe"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if err := Set("email", "jane@example.com"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	// A key outside DefaultKeys must not leak into prompt defaults.
	if err := Set("unrelated", "x"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	defaults := Defaults()
	if defaults["full_name"] != "Jane Doe" || defaults["email"] != "jane@example.com" {
		t.Errorf("Defaults() = %v", defaults)
	}
	if _, ok := defaults["unrelated"]; ok {
		t.Error("Defaults() leaked a key outside DefaultKeys")
	}
}

func TestGetUnset(t *testing.T) {
	setupHome(t)
	Load()
	if got := Get("never_set"); got != "" {
		t.Errorf("Get(never_set) = %q, want empty", got)
	}
}
