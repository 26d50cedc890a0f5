package cli

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mickeykkim/pybake/internal/bake"
	"github.com/mickeykkim/pybake/internal/config"
	"github.com/mickeykkim/pybake/internal/manifest"
	"github.com/mickeykkim/pybake/internal/prompt"
	"github.com/spf13/cobra"
)

var (
	newTemplate  string
	newOutputDir string
	newNoInput   bool
	newVars      []string
)

var newCmd = &cobra.Command{
	Use:   "new <project-name>",
	Short: "Bake a new project from a template set",
	Long: `Bake a new Python package from a built-in template set.

Variables are answered interactively; saved user settings (see 'pybake
config') and values given with --var pre-fill the defaults. With --no-input
every variable takes its resolved default without prompting.

Examples:
  pybake new "My Project"
  pybake new "My Project" --no-input --var use_mypy=false
  pybake new "My Project" --var open_source_license=Apache-2.0 -o ./out`,
	Args: cobra.ExactArgs(1),
	RunE: runNew,
}

func init() {
	newCmd.Flags().StringVar(&newTemplate, "template", "pypackage", "Template set to bake from")
	newCmd.Flags().StringVarP(&newOutputDir, "output-dir", "o", "", "Output directory (default: ./<project_slug>)")
	newCmd.Flags().BoolVar(&newNoInput, "no-input", false, "Accept all defaults without prompting")
	newCmd.Flags().StringArrayVar(&newVars, "var", nil, "Override a variable (key=value, repeatable)")
	rootCmd.AddCommand(newCmd)
}

func runNew(cmd *cobra.Command, args []string) error {
	projectName := args[0]

	man, err := bake.LoadManifest(newTemplate)
	if err != nil {
		return err
	}

	overrides, err := parseVarFlags(newVars)
	if err != nil {
		return err
	}

	config.Load()
	defaults := resolveDefaults(man, config.Defaults(), projectName)
	for k, v := range overrides {
		if man.Lookup(k) == nil {
			return fmt.Errorf("unknown variable %q for template %q", k, newTemplate)
		}
		defaults[k] = v
	}

	answers := defaults
	if !newNoInput {
		// Variables pinned on the command line are not re-asked.
		fixed := map[string]bool{"project_name": true}
		for k := range overrides {
			fixed[k] = true
		}

		var toAsk []manifest.Variable
		for _, v := range man.Variables {
			if !fixed[v.Name] {
				toAsk = append(toAsk, v)
			}
		}

		collector := prompt.New(cmd.InOrStdin(), cmd.ErrOrStderr())
		asked, err := collector.Collect(toAsk, defaults)
		if err != nil {
			return err
		}
		for k, v := range asked {
			answers[k] = v
		}
	}

	ctx, err := bake.NewContext(answers)
	if err != nil {
		return err
	}

	outDir := newOutputDir
	if outDir == "" {
		outDir = filepath.Join(".", ctx.ProjectSlug)
	}

	result, err := bake.Generate(newTemplate, ctx, outDir)
	if err != nil {
		return err
	}

	printResult(result)

	fmt.Println("\nNext steps:")
	fmt.Printf("  1. cd %s\n", result.OutputDir)
	fmt.Println("  2. Run 'poetry install' to set up the environment")
	fmt.Printf("  3. Run '%s --help' to try the console script\n", ctx.ProjectSlug)
	return nil
}

// resolveDefaults layers manifest defaults, saved user settings, and computed
// values (slug, year, release date) into one defaults map.
func resolveDefaults(man *manifest.Manifest, saved map[string]string, projectName string) map[string]string {
	now := time.Now()

	defaults := make(map[string]string, len(man.Variables))
	for _, v := range man.Variables {
		if v.Default != "" {
			defaults[v.Name] = v.Default
		}
	}
	for k, v := range saved {
		defaults[k] = v
	}

	defaults["project_name"] = projectName
	defaults["project_slug"] = bake.DeriveSlug(projectName)
	defaults["year"] = strconv.Itoa(now.Year())
	defaults["release_date"] = now.Format("2006-01-02")
	return defaults
}

// parseVarFlags splits repeated --var key=value flags into a map.
func parseVarFlags(pairs []string) (map[string]string, error) {
	vars := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --var %q: expected key=value", pair)
		}
		vars[key] = value
	}
	return vars, nil
}

func printResult(result *bake.Result) {
	fmt.Printf("Baked project at %s/\n", result.OutputDir)
	for _, f := range result.Files {
		fmt.Printf("  %s\n", f)
	}
	if len(result.Warnings) > 0 {
		fmt.Println("\nWarnings:")
		for _, w := range result.Warnings {
			fmt.Printf("  - %s\n", w)
		}
	}
}
