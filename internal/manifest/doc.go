// Package manifest handles parsing and validation of template-set manifests
// (template.yaml). A manifest names the set and declares the prompt variables
// a user answers when baking a project from it. Validation runs against an
// embedded JSON Schema.
package manifest
