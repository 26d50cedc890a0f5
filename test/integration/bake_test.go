//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/mickeykkim/pybake/internal/bake"
	"github.com/mickeykkim/pybake/internal/config"
	"github.com/mickeykkim/pybake/internal/manifest"
	"github.com/mickeykkim/pybake/internal/prompt"
	"github.com/spf13/viper"
)

// TestInteractiveBakeFlow drives the full pipeline the way `pybake new`
// does: saved settings -> prompt session -> context -> generated tree.
func TestInteractiveBakeFlow(t *testing.T) {
	home := t.TempDir()
	t.Setenv("PYBAKE_HOME", home)
	viper.Reset()
	t.Cleanup(viper.Reset)

	// Save user settings that should become prompt defaults.
	config.Load()
	if err := config.Set("full_name", "Grace Hopper"); err != nil {
		t.Fatalf("config.Set: %v", err)
	}
	if err := config.Set("email", "grace@example.com"); err != nil {
		t.Fatalf("config.Set: %v", err)
	}

	man, err := bake.LoadManifest("pypackage")
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}

	// Resolve defaults the way the new command does: manifest defaults,
	// then saved settings, then the computed slug, year, and date.
	now := time.Now()
	defaults := map[string]string{}
	for _, v := range man.Variables {
		if v.Default != "" {
			defaults[v.Name] = v.Default
		}
	}
	for k, v := range config.Defaults() {
		defaults[k] = v
	}
	defaults["project_name"] = "Compiler Tools"
	defaults["project_slug"] = bake.DeriveSlug("Compiler Tools")
	defaults["year"] = strconv.Itoa(now.Year())
	defaults["release_date"] = now.Format("2006-01-02")

	// Answer every prompt with an empty line, accepting each default.
	var toAsk []manifest.Variable
	for _, v := range man.Variables {
		if v.Name != "project_name" {
			toAsk = append(toAsk, v)
		}
	}
	input := strings.Repeat("\n", len(toAsk))

	var promptOut strings.Builder
	collector := prompt.New(strings.NewReader(input), &promptOut)
	answers, err := collector.Collect(toAsk, defaults)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	answers["project_name"] = "Compiler Tools"

	// Saved settings surfaced as defaults in the prompt transcript.
	if !strings.Contains(promptOut.String(), "[Grace Hopper]") {
		t.Errorf("prompt transcript missing saved full_name default:\n%s", promptOut.String())
	}

	ctx, err := bake.NewContext(answers)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	if ctx.FullName != "Grace Hopper" || ctx.Email != "grace@example.com" {
		t.Errorf("saved settings not applied: %q <%q>", ctx.FullName, ctx.Email)
	}
	if ctx.ProjectSlug != "compiler_tools" {
		t.Errorf("ProjectSlug = %q", ctx.ProjectSlug)
	}

	outDir := filepath.Join(t.TempDir(), ctx.ProjectSlug)
	result, err := bake.Generate("pypackage", ctx, outDir)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	// The baked tree carries the saved identity and the console script.
	pyproject := readFile(t, outDir, "pyproject.toml")
	if !strings.Contains(pyproject, "Grace Hopper <grace@example.com>") {
		t.Errorf("pyproject missing author: %s", pyproject)
	}
	if !strings.Contains(pyproject, `compiler_tools = "compiler_tools.cli:main"`) {
		t.Error("pyproject missing console-script entry")
	}
	assertExists(t, filepath.Join(outDir, "compiler_tools", "cli.py"))
	assertExists(t, filepath.Join(outDir, "tests", "test_compiler_tools.py"))

	if len(result.Warnings) > 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}
}

// TestTrialBakeEveryTemplateSet mirrors the doctor command: every embedded
// set must bake cleanly with default answers.
func TestTrialBakeEveryTemplateSet(t *testing.T) {
	sets, err := bake.Sets()
	if err != nil {
		t.Fatalf("Sets: %v", err)
	}
	if len(sets) == 0 {
		t.Fatal("no embedded template sets")
	}

	for _, set := range sets {
		t.Run(set, func(t *testing.T) {
			man, err := bake.LoadManifest(set)
			if err != nil {
				t.Fatalf("LoadManifest: %v", err)
			}

			answers := map[string]string{}
			for _, v := range man.Variables {
				if v.Default != "" {
					answers[v.Name] = v.Default
				}
			}
			answers["project_name"] = "Trial Project"

			ctx, err := bake.NewContext(answers)
			if err != nil {
				t.Fatalf("NewContext: %v", err)
			}

			outDir := filepath.Join(t.TempDir(), ctx.ProjectSlug)
			if _, err := bake.Generate(set, ctx, outDir); err != nil {
				t.Fatalf("Generate: %v", err)
			}
		})
	}
}

func readFile(t *testing.T, dir, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("reading %s: %v", rel, err)
	}
	return string(data)
}

func assertExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected %s: %v", path, err)
	}
}
