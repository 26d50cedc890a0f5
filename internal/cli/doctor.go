package cli

import (
	"fmt"
	"os"

	"github.com/mickeykkim/pybake/internal/bake"
	"github.com/mickeykkim/pybake/internal/config"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Health check for the pybake installation",
	Long: `Run diagnostic checks: the config directory, every built-in template
set's manifest, and a trial bake of each set with default answers into a
temporary directory.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	failures := 0

	// Config directory.
	config.Load()
	fmt.Fprintf(out, "Config file: %s\n", config.FilePath())
	if err := config.EnsureDir(); err != nil {
		fmt.Fprintf(out, "  ✗ %v\n", err)
		failures++
	} else {
		fmt.Fprintf(out, "  ✓ config directory writable\n")
	}

	// Template sets.
	sets, err := bake.Sets()
	if err != nil {
		return err
	}
	for _, set := range sets {
		fmt.Fprintf(out, "Template set %q:\n", set)

		man, err := bake.LoadManifest(set)
		if err != nil {
			fmt.Fprintf(out, "  ✗ manifest: %v\n", err)
			failures++
			continue
		}
		fmt.Fprintf(out, "  ✓ manifest valid (%d variables)\n", len(man.Variables))

		if err := trialBake(set); err != nil {
			fmt.Fprintf(out, "  ✗ trial bake: %v\n", err)
			failures++
			continue
		}
		fmt.Fprintf(out, "  ✓ trial bake with defaults succeeds\n")
	}

	if failures > 0 {
		return fmt.Errorf("%d check(s) failed", failures)
	}
	fmt.Fprintln(out, "All checks passed.")
	return nil
}

// trialBake renders a set with default answers into a throwaway directory.
// Generate's leftover-placeholder scan makes this catch broken templates.
func trialBake(set string) error {
	man, err := bake.LoadManifest(set)
	if err != nil {
		return err
	}

	answers := resolveDefaults(man, nil, "Doctor Trial Project")
	ctx, err := bake.NewContext(answers)
	if err != nil {
		return err
	}

	tmpDir, err := os.MkdirTemp("", "pybake-doctor-*")
	if err != nil {
		return fmt.Errorf("creating temp directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	outDir := tmpDir + "/" + ctx.ProjectSlug
	_, err = bake.Generate(set, ctx, outDir)
	return err
}
