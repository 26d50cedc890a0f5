package prompt

import (
	"strings"
	"testing"

	"github.com/mickeykkim/pybake/internal/manifest"
)

func collect(t *testing.T, input string, vars []manifest.Variable, defaults map[string]string) (map[string]string, string) {
	t.Helper()

	var out strings.Builder
	c := New(strings.NewReader(input), &out)
	answers, err := c.Collect(vars, defaults)
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	return answers, out.String()
}

func TestCollectAcceptsDefaults(t *testing.T) {
	vars := []manifest.Variable{
		{Name: "full_name", Kind: manifest.KindString, Default: "Jane Doe"},
		{Name: "use_mypy", Kind: manifest.KindBool, Default: "true"},
		{Name: "line_length", Kind: manifest.KindInt, Default: "120"},
		{Name: "open_source_license", Kind: manifest.KindChoice, Default: "ISC", Choices: []string{"MIT", "ISC"}},
	}

	// Four empty lines accept every default.
	answers, output := collect(t, "\n\n\n\n", vars, nil)

	if answers["full_name"] != "Jane Doe" {
		t.Errorf("full_name = %q, want default", answers["full_name"])
	}
	if answers["use_mypy"] != "true" {
		t.Errorf("use_mypy = %q, want true", answers["use_mypy"])
	}
	if answers["line_length"] != "120" {
		t.Errorf("line_length = %q, want 120", answers["line_length"])
	}
	if answers["open_source_license"] != "ISC" {
		t.Errorf("open_source_license = %q, want ISC", answers["open_source_license"])
	}

	// Defaults show in the prompts.
	if !strings.Contains(output, "[Jane Doe]") {
		t.Errorf("prompt output missing default hint: %q", output)
	}
	if !strings.Contains(output, "Enter number [2]") {
		t.Errorf("choice prompt should mark ISC (2) as default: %q", output)
	}
}

func TestCollectExplicitAnswers(t *testing.T) {
	vars := []manifest.Variable{
		{Name: "full_name", Kind: manifest.KindString, Default: "Jane Doe"},
		{Name: "use_mypy", Kind: manifest.KindBool, Default: "true"},
		{Name: "line_length", Kind: manifest.KindInt, Default: "120"},
		{Name: "open_source_license", Kind: manifest.KindChoice, Default: "MIT", Choices: []string{"MIT", "ISC"}},
	}

	answers, _ := collect(t, "Grace Hopper\nn\n88\n2\n", vars, nil)

	if answers["full_name"] != "Grace Hopper" {
		t.Errorf("full_name = %q", answers["full_name"])
	}
	if answers["use_mypy"] != "false" {
		t.Errorf("use_mypy = %q, want false", answers["use_mypy"])
	}
	if answers["line_length"] != "88" {
		t.Errorf("line_length = %q, want 88", answers["line_length"])
	}
	if answers["open_source_license"] != "ISC" {
		t.Errorf("open_source_license = %q, want ISC", answers["open_source_license"])
	}
}

func TestCollectResolvedDefaultWinsOverManifest(t *testing.T) {
	vars := []manifest.Variable{
		{Name: "email", Kind: manifest.KindString, Default: "jane@example.com"},
	}

	answers, output := collect(t, "\n", vars, map[string]string{"email": "saved@example.com"})

	if answers["email"] != "saved@example.com" {
		t.Errorf("email = %q, want saved config default", answers["email"])
	}
	if !strings.Contains(output, "[saved@example.com]") {
		t.Errorf("prompt should show the resolved default: %q", output)
	}
}

func TestCollectRepromptsOnBadInput(t *testing.T) {
	t.Run("int", func(t *testing.T) {
		vars := []manifest.Variable{{Name: "line_length", Kind: manifest.KindInt, Default: "120"}}
		answers, output := collect(t, "abc\n99\n", vars, nil)
		if answers["line_length"] != "99" {
			t.Errorf("line_length = %q, want 99", answers["line_length"])
		}
		if !strings.Contains(output, "whole number") {
			t.Errorf("missing re-prompt message: %q", output)
		}
	})

	t.Run("bool", func(t *testing.T) {
		vars := []manifest.Variable{{Name: "use_mypy", Kind: manifest.KindBool, Default: "true"}}
		answers, output := collect(t, "maybe\nno\n", vars, nil)
		if answers["use_mypy"] != "false" {
			t.Errorf("use_mypy = %q, want false", answers["use_mypy"])
		}
		if !strings.Contains(output, "answer y or n") {
			t.Errorf("missing re-prompt message: %q", output)
		}
	})

	t.Run("choice out of range", func(t *testing.T) {
		vars := []manifest.Variable{{Name: "license", Kind: manifest.KindChoice, Choices: []string{"MIT", "ISC"}}}
		answers, output := collect(t, "7\n1\n", vars, nil)
		if answers["license"] != "MIT" {
			t.Errorf("license = %q, want MIT", answers["license"])
		}
		if !strings.Contains(output, "Invalid selection") {
			t.Errorf("missing re-prompt message: %q", output)
		}
	})
}

func TestCollectIntEmptyWithoutDefault(t *testing.T) {
	// A session where every line is blank must not fail on int or date
	// variables that carry no default, such as year and release_date;
	// those answers stay empty and the computed values apply later.
	vars := []manifest.Variable{
		{Name: "year", Kind: manifest.KindInt},
		{Name: "release_date", Kind: manifest.KindDate},
	}

	answers, _ := collect(t, "\n\n", vars, nil)

	if answers["year"] != "" {
		t.Errorf("year = %q, want empty", answers["year"])
	}
	if answers["release_date"] != "" {
		t.Errorf("release_date = %q, want empty", answers["release_date"])
	}
}

func TestCollectIntRequiredWithoutDefault(t *testing.T) {
	vars := []manifest.Variable{{Name: "year", Kind: manifest.KindInt, Required: true}}

	answers, output := collect(t, "\n1999\n", vars, nil)
	if answers["year"] != "1999" {
		t.Errorf("year = %q, want 1999", answers["year"])
	}
	if !strings.Contains(output, "required") {
		t.Errorf("missing required message: %q", output)
	}
}

func TestCollectGivesUpAfterMaxAttempts(t *testing.T) {
	vars := []manifest.Variable{{Name: "line_length", Kind: manifest.KindInt}}

	var out strings.Builder
	c := New(strings.NewReader("a\nb\nc\n"), &out)
	if _, err := c.Collect(vars, nil); err == nil {
		t.Fatal("Collect() expected error after repeated bad input, got nil")
	}
}

func TestCollectRequiredWithoutDefault(t *testing.T) {
	vars := []manifest.Variable{{Name: "full_name", Kind: manifest.KindString, Required: true}}

	// First line empty, second provides a value.
	answers, output := collect(t, "\nGrace Hopper\n", vars, nil)
	if answers["full_name"] != "Grace Hopper" {
		t.Errorf("full_name = %q", answers["full_name"])
	}
	if !strings.Contains(output, "required") {
		t.Errorf("missing required message: %q", output)
	}
}

func TestCollectErrorOnClosedInput(t *testing.T) {
	vars := []manifest.Variable{{Name: "full_name", Kind: manifest.KindString}}

	var out strings.Builder
	c := New(strings.NewReader(""), &out)
	if _, err := c.Collect(vars, nil); err == nil {
		t.Fatal("Collect() on empty input expected error, got nil")
	}
}
