package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var instancesCmd = &cobra.Command{
	Use:     "instances",
	Aliases: []string{"ls"},
	Short:   "List all instances",
	RunE:    runInstances,
}

func init() {
	rootCmd.AddCommand(instancesCmd)
}

func runInstances(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	b, err := backend(ctx)
	if err != nil {
		return err
	}

	instances, err := b.Instances(ctx)
	if err != nil {
		return err
	}

	if useJSON() {
		return printJSON(cmd.OutOrStdout(), instances)
	}

	if len(instances) == 0 {
		logInfo("No instances found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTATUS\tPINNED")
	fmt.Fprintln(w, "--\t----\t------\t------")

	for _, inst := range instances {
		status := "● stopped"
		if inst.Running {
			status = "▶ running"
		}
		pinned := ""
		if inst.Pinned {
			pinned = "yes"
		}
		name := inst.Name
		if name == "" {
			name = "-"
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", inst.ID, name, status, pinned)
	}

	return w.Flush()
}
