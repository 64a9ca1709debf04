package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Nitrolaunch/nitroctl/internal/config"
	"github.com/Nitrolaunch/nitroctl/internal/logging"
	"github.com/Nitrolaunch/nitroctl/internal/tui"
)

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Interactive instance picker",
	Long: `Opens an interactive TUI for selecting and managing instances.

Use arrow keys or j/k to navigate, / to filter.

Actions:
  Enter  - Launch selected instance
  c      - Edit the instance config
  s      - Stop the instance if running
  q/Esc  - Quit`,
	RunE: runPick,
}

func init() {
	rootCmd.AddCommand(pickCmd)
}

func runPick(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	logging.Debug("picker mode started")

	b, err := backend(ctx)
	if err != nil {
		return err
	}

	instances, err := b.Instances(ctx)
	if err != nil {
		return err
	}

	if len(instances) == 0 {
		logInfo("No instances found.")
		return nil
	}

	result, err := tui.RunPicker(instances)
	if err != nil {
		return fmt.Errorf("picker error: %w", err)
	}

	logging.Debug("picker result", "action", result.Action)

	switch result.Action {
	case tui.ActionLaunch:
		if result.Instance != nil {
			return runLaunch(cmd, []string{result.Instance.ID})
		}

	case tui.ActionEdit:
		if result.Instance != nil {
			sess, err := openSession(ctx, config.ModeInstance, result.Instance.ID)
			if err != nil {
				return err
			}
			saved, err := tui.RunEditor(sess)
			if err != nil {
				return fmt.Errorf("editor error: %w", err)
			}
			if saved {
				logSuccess("Saved config for instance %s", result.Instance.ID)
			}
		}

	case tui.ActionStop:
		if result.Instance != nil {
			return runStop(cmd, []string{result.Instance.ID})
		}

	case tui.ActionQuit:
		// Just exit cleanly
	}

	return nil
}
