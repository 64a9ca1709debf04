package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List available templates",
	RunE:  runTemplates,
}

func init() {
	rootCmd.AddCommand(templatesCmd)
}

func runTemplates(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	b, err := backend(ctx)
	if err != nil {
		return err
	}

	templates, err := b.Templates(ctx)
	if err != nil {
		return err
	}

	if useJSON() {
		return printJSON(cmd.OutOrStdout(), templates)
	}

	if len(templates) == 0 {
		logInfo("No templates found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tVERSION\tPARENTS")
	fmt.Fprintln(w, "--\t----\t-------\t-------")

	for _, tmpl := range templates {
		name := tmpl.Name
		if name == "" {
			name = "-"
		}

		version, parents := "-", "-"
		if rec, err := b.TemplateConfig(ctx, tmpl.ID); err == nil && rec != nil {
			if rec.Version != "" {
				version = rec.Version
			}
			if len(rec.From) > 0 {
				parents = strings.Join(rec.From, ",")
			}
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", tmpl.ID, name, version, parents)
	}

	return w.Flush()
}
