package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Nitrolaunch/nitroctl/internal/config"
	"github.com/Nitrolaunch/nitroctl/internal/errors"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an instance or template",
	Long: `Deletes an instance or, with --template, a template.

Deleting an instance removes its files. Deleting a template fails while
any instance or template still inherits from it.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

var deleteTemplate bool

func init() {
	deleteCmd.Flags().BoolVarP(&deleteTemplate, "template", "t", false, "Delete a template instead of an instance")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
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

	if deleteTemplate {
		if err := b.DeleteTemplate(ctx, id); err != nil {
			return err
		}
		logSuccess("Deleted template %s", id)
		return nil
	}

	if err := b.DeleteInstance(ctx, id); err != nil {
		return err
	}
	logSuccess("Deleted instance %s", id)
	return nil
}
