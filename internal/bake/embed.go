package bake

import "embed"

// templateFS holds the built-in template sets. Each set lives under
// templates/<name>/ with a template.yaml manifest next to a files/ tree.
// The all: prefix keeps dot-files like .gitignore.tmpl in the embed.
//
//go:embed all:templates
var templateFS embed.FS
