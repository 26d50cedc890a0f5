package manifest

import (
	"errors"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// Parse unmarshals raw YAML into a Manifest and runs the structural checks
// that the JSON Schema cannot express (choice variables need choices, the
// default of a choice variable must be one of them).
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing template manifest: %w", err)
	}
	if err := checkVariables(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ParseFile reads and parses a template manifest from a file path.
func ParseFile(path string) (*Manifest, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// checkVariables runs the cross-field variable checks; the first problem
// found becomes the parse error.
func checkVariables(m *Manifest) error {
	issues := crossFieldIssues(m)
	if len(issues) == 0 {
		return nil
	}
	return errors.New(issues[0].Message)
}

func validKind(kind string) bool {
	return contains(ValidKinds, kind)
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// readFile reads the contents of a file at the given path.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}
