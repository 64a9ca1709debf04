package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Nitrolaunch/nitroctl/internal/config"
	"github.com/Nitrolaunch/nitroctl/internal/errors"
)

var stopCmd = &cobra.Command{
	Use:   "stop <id>",
	Short: "Stop a running instance",
	Args:  cobra.ExactArgs(1),
	RunE:  runStop,
}

func init() {
	rootCmd.AddCommand(stopCmd)
}

func runStop(cmd *cobra.Command, args []string) error {
	id := args[0]
	if err := config.ValidateID(id); err != nil {
		return errors.ValidationError(err.Error())
	}

	ctx, cancel := commandContext()
	defer cancel()

	b, err := backend(ctx)
	if err != nil {
		return err
	}

	logInfo("Stopping instance %s...", id)
	if err := b.StopInstance(ctx, id); err != nil {
		return err
	}

	logSuccess("Stopped instance %s", id)
	return nil
}
