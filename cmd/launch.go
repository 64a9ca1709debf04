package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Nitrolaunch/nitroctl/internal/config"
	"github.com/Nitrolaunch/nitroctl/internal/errors"
)

var launchCmd = &cobra.Command{
	Use:   "launch <id>",
	Short: "Launch an instance",
	Args:  cobra.ExactArgs(1),
	RunE:  runLaunch,
}

func init() {
	rootCmd.AddCommand(launchCmd)
}

func runLaunch(cmd *cobra.Command, args []string) error {
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

	rec, err := b.Config(ctx, config.ModeInstance, id)
	if err != nil {
		return err
	}
	if rec == nil {
		return errors.InstanceNotFound(id)
	}

	logInfo("Launching instance %s...", id)
	if err := b.LaunchInstance(ctx, id); err != nil {
		return err
	}

	logSuccess("Launched instance %s", id)
	return nil
}
