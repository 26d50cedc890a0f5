// Package license holds the embedded license texts a baked project can ship
// with and maps each SPDX identifier to its PyPI trove classifier.
package license

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"
)

//go:embed texts
var textFS embed.FS

// NotOpenSource is the selection that suppresses LICENSE emission entirely.
const NotOpenSource = "Not open source"

// Choices lists the selectable licenses in prompt order.
var Choices = []string{
	"MIT",
	"BSD-3-Clause",
	"ISC",
	"Apache-2.0",
	"GPL-3.0-only",
	NotOpenSource,
}

// classifiers maps SPDX identifiers to PyPI trove classifiers.
var classifiers = map[string]string{
	"MIT":          "License :: OSI Approved :: MIT License",
	"BSD-3-Clause": "License :: OSI Approved :: BSD License",
	"ISC":          "License :: OSI Approved :: ISC License (ISCL)",
	"Apache-2.0":   "License :: OSI Approved :: Apache Software License",
	"GPL-3.0-only": "License :: OSI Approved :: GNU General Public License v3 (GPLv3)",
}

// textFiles maps SPDX identifiers to embedded text files.
var textFiles = map[string]string{
	"MIT":          "texts/mit.txt",
	"BSD-3-Clause": "texts/bsd-3-clause.txt",
	"ISC":          "texts/isc.txt",
	"Apache-2.0":   "texts/apache-2.0.txt",
	"GPL-3.0-only": "texts/gpl-3.0-only.txt",
}

// holderData fills the copyright line of a license text.
type holderData struct {
	Year   int
	Holder string
}

// Valid reports whether id is a known license selection.
func Valid(id string) bool {
	if id == NotOpenSource {
		return true
	}
	_, ok := textFiles[id]
	return ok
}

// IsOpenSource reports whether the selection carries a license file.
func IsOpenSource(id string) bool {
	_, ok := textFiles[id]
	return ok
}

// Classifier returns the PyPI trove classifier for a license, or empty
// for the Not open source selection.
func Classifier(id string) string {
	return classifiers[id]
}

// Render returns the full LICENSE text with the copyright year and holder
// substituted. Calling it for the Not open source selection is an error.
func Render(id string, year int, holder string) (string, error) {
	file, ok := textFiles[id]
	if !ok {
		return "", fmt.Errorf("no license text for %q", id)
	}

	raw, err := textFS.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("reading license text %s: %w", file, err)
	}

	tmpl, err := template.New(id).Parse(string(raw))
	if err != nil {
		return "", fmt.Errorf("parsing license text %s: %w", file, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, holderData{Year: year, Holder: holder}); err != nil {
		return "", fmt.Errorf("rendering license text %s: %w", file, err)
	}
	return buf.String(), nil
}
