package cli

import (
	"fmt"

	"github.com/mickeykkim/pybake/internal/manifest"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <template.yaml>",
	Short: "Validate a template manifest file",
	Long: `Validate a template manifest against the built-in JSON Schema and the
structural rules (unique variable names, choice defaults among choices).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		result, err := manifest.ValidateFile(path)
		if err != nil {
			return err
		}
		if !result.Valid {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is invalid:\n", path)
			for _, issue := range result.Issues {
				msg := issue.Message
				if issue.Path != "" {
					msg = issue.Path + ": " + msg
				}
				fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", msg)
			}
			return fmt.Errorf("%d validation issue(s)", len(result.Issues))
		}

		// Schema passed; run the cross-field checks too.
		if _, err := manifest.ParseFile(path); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s is valid.\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
