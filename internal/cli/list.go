package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/mickeykkim/pybake/internal/bake"
	"github.com/spf13/cobra"
)

var (
	listVars bool
	listJSON bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in template sets",
	Long:  `List the template sets compiled into this binary and, with --vars, the variables each one prompts for.`,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listVars, "vars", false, "Show the variables of each template set")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

// listEntry represents a template set for display.
type listEntry struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Version     string        `json:"version"`
	Variables   []listVarInfo `json:"variables,omitempty"`
}

type listVarInfo struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Default string `json:"default,omitempty"`
}

func runList(cmd *cobra.Command, args []string) error {
	sets, err := bake.Sets()
	if err != nil {
		return err
	}

	var entries []listEntry
	for _, set := range sets {
		man, err := bake.LoadManifest(set)
		if err != nil {
			return fmt.Errorf("loading template set %q: %w", set, err)
		}

		entry := listEntry{
			Name:        man.Name,
			Description: man.Description,
			Version:     man.Version,
		}
		if listVars || listJSON {
			for _, v := range man.Variables {
				entry.Variables = append(entry.Variables, listVarInfo{
					Name:    v.Name,
					Kind:    v.Kind,
					Default: v.Default,
				})
			}
		}
		entries = append(entries, entry)
	}

	out := cmd.OutOrStdout()

	if listJSON {
		encoded, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling list output: %w", err)
		}
		fmt.Fprintln(out, string(encoded))
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tVERSION\tDESCRIPTION")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.Name, e.Version, e.Description)
	}
	w.Flush()

	if listVars {
		for _, e := range entries {
			fmt.Fprintf(out, "\nVariables of %s:\n", e.Name)
			vw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(vw, "  NAME\tKIND\tDEFAULT")
			for _, v := range e.Variables {
				fmt.Fprintf(vw, "  %s\t%s\t%s\n", v.Name, v.Kind, v.Default)
			}
			vw.Flush()
		}
	}
	return nil
}
