package bake

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/mickeykkim/pybake/internal/license"
	"github.com/mickeykkim/pybake/internal/manifest"
)

// slugToken marks path segments that are replaced with the project slug,
// so the package directory and test file are named after the project.
const slugToken = "__project_slug__"

// tmplSuffix is stripped from template file names on output.
const tmplSuffix = ".tmpl"

// templateFuncs are the helpers available inside template files. repeat
// exists for reStructuredText title underlines, which must match the
// rendered title length.
var templateFuncs = template.FuncMap{
	"repeat": strings.Repeat,
}

// Result holds the outcome of a bake.
type Result struct {
	OutputDir string
	Files     []string
	Warnings  []string
}

// Sets returns the names of the built-in template sets.
func Sets() ([]string, error) {
	entries, err := fs.ReadDir(templateFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("reading embedded templates: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// LoadManifest parses and schema-validates the template.yaml of a set.
func LoadManifest(set string) (*manifest.Manifest, error) {
	raw, err := fs.ReadFile(templateFS, path.Join("templates", set, "template.yaml"))
	if err != nil {
		return nil, fmt.Errorf("template set %q not found: %w", set, err)
	}

	result, err := manifest.Validate(raw)
	if err != nil {
		return nil, fmt.Errorf("validating manifest for %q: %w", set, err)
	}
	if !result.Valid {
		msgs := make([]string, len(result.Issues))
		for i, issue := range result.Issues {
			msgs[i] = issue.Path + ": " + issue.Message
		}
		return nil, fmt.Errorf("manifest for %q is invalid: %s", set, strings.Join(msgs, "; "))
	}

	return manifest.Parse(raw)
}

// Generate bakes a project from a template set into outputDir. Every .tmpl
// file is rendered through text/template against the Context; slug tokens
// in paths are replaced; files excluded by feature toggles are skipped; a
// LICENSE is emitted for open-source selections. Rendered output containing
// leftover placeholder tokens aborts the bake.
func Generate(set string, ctx *Context, outputDir string) (*Result, error) {
	filesRoot := path.Join("templates", set, "files")
	if _, err := fs.Stat(templateFS, filesRoot); err != nil {
		return nil, fmt.Errorf("template set %q not found: %w", set, err)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	// Check for existing files to prevent accidental overwrites.
	existing, err := os.ReadDir(outputDir)
	if err == nil && len(existing) > 0 {
		return nil, fmt.Errorf("output directory %s is not empty; remove existing files first", outputDir)
	}

	result := &Result{
		OutputDir: outputDir,
	}

	walkErr := fs.WalkDir(templateFS, filesRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel := strings.TrimPrefix(p, filesRoot+"/")
		outRel := outputPath(rel, ctx)

		if skipFile(outRel, ctx) {
			return nil
		}

		raw, err := fs.ReadFile(templateFS, p)
		if err != nil {
			return fmt.Errorf("reading template %s: %w", p, err)
		}

		rendered, err := renderFile(rel, raw, ctx)
		if err != nil {
			return err
		}

		outPath := filepath.Join(outputDir, filepath.FromSlash(outRel))
		if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
			return fmt.Errorf("creating directory for %s: %w", outRel, err)
		}
		if err := os.WriteFile(outPath, rendered, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", outPath, err)
		}

		result.Files = append(result.Files, outRel)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	if ctx.OpenSource() {
		text, err := license.Render(ctx.OpenSourceLicense, ctx.Year, ctx.FullName)
		if err != nil {
			return nil, fmt.Errorf("rendering license: %w", err)
		}
		outPath := filepath.Join(outputDir, "LICENSE")
		if err := os.WriteFile(outPath, []byte(text), 0644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", outPath, err)
		}
		result.Files = append(result.Files, "LICENSE")
	}

	sort.Strings(result.Files)
	return result, nil
}

// renderFile executes one template and scans the output for leftover
// placeholder tokens.
func renderFile(name string, raw []byte, ctx *Context) ([]byte, error) {
	if !strings.HasSuffix(name, tmplSuffix) {
		// Non-template files copy through verbatim.
		return raw, nil
	}

	tmpl, err := template.New(name).Option("missingkey=error").Funcs(templateFuncs).Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx); err != nil {
		return nil, fmt.Errorf("executing template %s: %w", name, err)
	}

	if tok := leftoverToken(buf.String()); tok != "" {
		return nil, fmt.Errorf("template %s left unsubstituted token %q in output", name, tok)
	}
	return buf.Bytes(), nil
}

// outputPath maps a template-relative path to its output path: slug tokens
// substitute and the .tmpl suffix drops.
func outputPath(rel string, ctx *Context) string {
	out := strings.ReplaceAll(rel, slugToken, ctx.ProjectSlug)
	return strings.TrimSuffix(out, tmplSuffix)
}

// skipFile implements the conditional parts of the template set: author
// files honor create_author_file, the pylint config honors use_pylint.
func skipFile(outRel string, ctx *Context) bool {
	if !ctx.CreateAuthorFile {
		if outRel == "AUTHORS.rst" || outRel == "docs/authors.rst" {
			return true
		}
	}
	if !ctx.UsePylint && outRel == ".pylintrc" {
		return true
	}
	return false
}

// leftoverToken returns the first placeholder remnant found in rendered
// output, or empty. Template actions and slug tokens must never survive
// into a baked project.
func leftoverToken(s string) string {
	for _, tok := range []string{"{{", "}}", "<no value>", slugToken} {
		if strings.Contains(s, tok) {
			return tok
		}
	}
	return ""
}
