package bake

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/gosimple/slug"

	"github.com/mickeykkim/pybake/internal/license"
)

// slugPattern matches import-safe Python package names.
var slugPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// dateLayout is the accepted release_date format.
const dateLayout = "2006-01-02"

// Context holds all template variables available to a template set, with
// answers parsed into their native types. Template files reference these
// fields directly, e.g. {{ .ProjectSlug }}.
type Context struct {
	FullName                string
	Email                   string
	GitlabUsername          string
	ProjectName             string
	ProjectSlug             string
	ProjectShortDescription string
	ReleaseDate             string // YYYY-MM-DD
	PypiUsername            string
	Year                    int
	Version                 string
	UseMypy                 bool
	UsePylint               bool
	LineLength              int
	OpenSourceLicense       string
	CreateAuthorFile        bool
}

// OpenSource reports whether the baked project ships a LICENSE file.
func (c *Context) OpenSource() bool {
	return license.IsOpenSource(c.OpenSourceLicense)
}

// LicenseClassifier returns the PyPI trove classifier for the selected
// license, or empty when not open source.
func (c *Context) LicenseClassifier() string {
	return license.Classifier(c.OpenSourceLicense)
}

// DeriveSlug converts a human-readable project name into an import-safe
// package name: "My Project" becomes "my_project".
func DeriveSlug(projectName string) string {
	return strings.ReplaceAll(slug.Make(projectName), "-", "_")
}

// NewContext parses raw prompt answers into a typed Context, filling
// computed fields (slug, year, release date) when absent, then validates.
func NewContext(answers map[string]string) (*Context, error) {
	now := time.Now()

	c := &Context{
		FullName:                answers["full_name"],
		Email:                   answers["email"],
		GitlabUsername:          answers["gitlab_username"],
		ProjectName:             answers["project_name"],
		ProjectSlug:             answers["project_slug"],
		ProjectShortDescription: answers["project_short_description"],
		ReleaseDate:             answers["release_date"],
		PypiUsername:            answers["pypi_username"],
		Version:                 answers["version"],
		OpenSourceLicense:       answers["open_source_license"],
	}

	if c.ProjectSlug == "" {
		c.ProjectSlug = DeriveSlug(c.ProjectName)
	}
	if c.ReleaseDate == "" {
		c.ReleaseDate = now.Format(dateLayout)
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
	if c.OpenSourceLicense == "" {
		c.OpenSourceLicense = "MIT"
	}

	var err error
	if c.Year, err = parseIntAnswer(answers, "year", now.Year()); err != nil {
		return nil, err
	}
	if c.LineLength, err = parseIntAnswer(answers, "line_length", 120); err != nil {
		return nil, err
	}
	if c.UseMypy, err = parseBoolAnswer(answers, "use_mypy", true); err != nil {
		return nil, err
	}
	if c.UsePylint, err = parseBoolAnswer(answers, "use_pylint", true); err != nil {
		return nil, err
	}
	if c.CreateAuthorFile, err = parseBoolAnswer(answers, "create_author_file", true); err != nil {
		return nil, err
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// validate enforces the variable constraints before any file is written.
func (c *Context) validate() error {
	if c.ProjectName == "" {
		return fmt.Errorf("project_name must not be empty")
	}
	if !slugPattern.MatchString(c.ProjectSlug) {
		return fmt.Errorf("project_slug %q is not import-safe: must match [a-z][a-z0-9_]*", c.ProjectSlug)
	}
	if c.Email != "" && !strings.Contains(c.Email, "@") {
		return fmt.Errorf("email %q is not a valid address", c.Email)
	}
	if _, err := semver.NewVersion(strings.TrimPrefix(c.Version, "v")); err != nil {
		return fmt.Errorf("version %q is not a valid semantic version: %w", c.Version, err)
	}
	if _, err := time.Parse(dateLayout, c.ReleaseDate); err != nil {
		return fmt.Errorf("release_date %q is not a valid date (want YYYY-MM-DD): %w", c.ReleaseDate, err)
	}
	if c.Year < 1 {
		return fmt.Errorf("year must be positive, got %d", c.Year)
	}
	if c.LineLength < 1 {
		return fmt.Errorf("line_length must be positive, got %d", c.LineLength)
	}
	if !license.Valid(c.OpenSourceLicense) {
		return fmt.Errorf("unknown license %q: choose one of %s",
			c.OpenSourceLicense, strings.Join(license.Choices, ", "))
	}
	return nil
}

func parseIntAnswer(answers map[string]string, key string, def int) (int, error) {
	raw, ok := answers[key]
	if !ok || raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s %q is not a whole number", key, raw)
	}
	return n, nil
}

func parseBoolAnswer(answers map[string]string, key string, def bool) (bool, error) {
	raw, ok := answers[key]
	if !ok || raw == "" {
		return def, nil
	}
	switch strings.ToLower(raw) {
	case "true", "y", "yes", "1":
		return true, nil
	case "false", "n", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("%s %q is not a boolean (want y/n)", key, raw)
}
