package manifest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/template.schema.json
var schemaBytes []byte

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

// ValidationResult contains the outcome of a manifest validation: the
// schema check plus the cross-field checks the schema cannot express.
type ValidationResult struct {
	Valid  bool
	Issues []ValidationIssue
}

// ValidationIssue is one problem found in a manifest.
type ValidationIssue struct {
	Path    string // Instance location (e.g., "/name", "/variables/0/kind")
	Message string // Human-readable error message
	Keyword string // Failing schema keyword, or the cross-field check name
}

// getSchema compiles the embedded JSON schema once and returns it.
func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("template.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("template.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// Validate checks raw manifest YAML against the embedded schema and then,
// if the shape holds, runs the cross-field variable checks. The error
// return is for I/O or schema compilation failures only; problems with
// the manifest itself land in the ValidationResult.
func Validate(data []byte) (*ValidationResult, error) {
	schema, err := getSchema()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	// The validator wants json.Number-decoded input, so round-trip the
	// YAML value through JSON.
	jsonData, err := json.Marshal(toJSONTypes(raw))
	if err != nil {
		return nil, fmt.Errorf("converting to JSON: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("preparing JSON for validation: %w", err)
	}

	if err := schema.Validate(inst); err != nil {
		ve, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return nil, fmt.Errorf("unexpected validation error type: %w", err)
		}
		return &ValidationResult{Issues: issuesFromSchemaError(ve)}, nil
	}

	// Shape is good; decode the typed manifest and check the invariants
	// between fields.
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing template manifest: %w", err)
	}
	issues := crossFieldIssues(&m)
	return &ValidationResult{Valid: len(issues) == 0, Issues: issues}, nil
}

// ValidateFile reads a manifest file and validates it.
func ValidateFile(path string) (*ValidationResult, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return Validate(data)
}

// crossFieldIssues checks the invariants between variable fields: names
// are unique, kinds are known, choices appear exactly when the kind is
// choice, and a choice default is one of its choices.
func crossFieldIssues(m *Manifest) []ValidationIssue {
	var issues []ValidationIssue
	report := func(i int, field, check, msg string) {
		issues = append(issues, ValidationIssue{
			Path:    fmt.Sprintf("/variables/%d/%s", i, field),
			Message: msg,
			Keyword: check,
		})
	}

	seen := make(map[string]bool, len(m.Variables))
	for i, v := range m.Variables {
		if seen[v.Name] {
			report(i, "name", "uniqueName", fmt.Sprintf("duplicate variable %q", v.Name))
		}
		seen[v.Name] = true

		if !validKind(v.Kind) {
			report(i, "kind", "knownKind", fmt.Sprintf("variable %q has unknown kind %q", v.Name, v.Kind))
			continue
		}
		if v.Kind == KindChoice {
			if len(v.Choices) == 0 {
				report(i, "choices", "choiceList", fmt.Sprintf("choice variable %q declares no choices", v.Name))
			} else if v.Default != "" && !contains(v.Choices, v.Default) {
				report(i, "default", "choiceDefault",
					fmt.Sprintf("choice variable %q default %q is not among its choices", v.Name, v.Default))
			}
		} else if len(v.Choices) > 0 {
			report(i, "choices", "choiceList", fmt.Sprintf("variable %q has choices but kind %q", v.Name, v.Kind))
		}
	}
	return issues
}

// issuesFromSchemaError flattens a ValidationError tree into leaf issues.
func issuesFromSchemaError(ve *jsonschema.ValidationError) []ValidationIssue {
	var issues []ValidationIssue
	appendLeafIssues(ve, &issues)

	if len(issues) == 0 {
		// Nothing below the root was specific enough; report the root.
		return []ValidationIssue{{Message: ve.Error()}}
	}
	return dedupeIssues(issues)
}

// appendLeafIssues walks the cause tree, keeping only leaves that name a
// concrete keyword. Container keywords (oneOf, allOf, $ref) restate what
// their causes already say.
func appendLeafIssues(ve *jsonschema.ValidationError, issues *[]ValidationIssue) {
	if len(ve.Causes) > 0 {
		for _, cause := range ve.Causes {
			appendLeafIssues(cause, issues)
		}
		return
	}
	if ve.ErrorKind == nil {
		return
	}

	kwPath := ve.ErrorKind.KeywordPath()
	if len(kwPath) == 0 {
		return
	}
	keyword := kwPath[len(kwPath)-1]
	switch keyword {
	case "oneOf", "allOf", "$ref":
		return
	}

	path := ""
	if len(ve.InstanceLocation) > 0 {
		path = "/" + strings.Join(ve.InstanceLocation, "/")
	}
	*issues = append(*issues, ValidationIssue{
		Path:    path,
		Message: ve.ErrorKind.LocalizedString(printer),
		Keyword: keyword,
	})
}

// dedupeIssues drops repeated path/keyword/message triples; branching
// schema keywords surface the same leaf more than once.
func dedupeIssues(issues []ValidationIssue) []ValidationIssue {
	seen := make(map[string]bool, len(issues))
	result := issues[:0]
	for _, issue := range issues {
		key := issue.Path + "|" + issue.Keyword + "|" + issue.Message
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, issue)
	}
	return result
}

// toJSONTypes rebuilds a YAML-decoded value with JSON-compatible
// containers so it can be marshaled for the schema validator.
func toJSONTypes(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		m := make(map[string]interface{}, len(val))
		for k, v := range val {
			m[k] = toJSONTypes(v)
		}
		return m
	case []interface{}:
		a := make([]interface{}, len(val))
		for i, v := range val {
			a[i] = toJSONTypes(v)
		}
		return a
	default:
		return val
	}
}
