package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/spf13/cobra"

	"github.com/Nitrolaunch/nitroctl/internal/config"
	"github.com/Nitrolaunch/nitroctl/internal/errors"
)

var exportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a config record to a file",
	Long: `Writes a config record to <dir>/<id>.json.

By default the backend-merged view is exported. Use --editable for only
the fields set on the record itself, suitable for re-importing.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

var (
	exportDir      string
	exportEditable bool
)

func init() {
	exportCmd.Flags().StringVarP(&exportDir, "dir", "d", ".", "Directory to write the export into")
	exportCmd.Flags().BoolVarP(&exportTemplate, "template", "t", false, "Export a template instead of an instance")
	exportCmd.Flags().BoolVar(&exportBaseTemplate, "base-template", false, "Export the base template")
	exportCmd.Flags().BoolVar(&exportEditable, "editable", false, "Export only fields set on the record itself")
	rootCmd.AddCommand(exportCmd)
}

var (
	exportTemplate     bool
	exportBaseTemplate bool
)

func runExport(cmd *cobra.Command, args []string) error {
	mode := recordMode(exportTemplate, exportBaseTemplate)

	id := ""
	if mode == config.ModeBaseTemplate {
		if len(args) > 0 {
			return errors.ValidationError("the base template takes no id")
		}
		id = "base_template"
	} else {
		if len(args) == 0 {
			return errors.ValidationError("an instance or template id is required")
		}
		id = args[0]
	}

	ctx, cancel := commandContext()
	defer cancel()

	b, err := backend(ctx)
	if err != nil {
		return err
	}

	targetID := id
	if mode == config.ModeBaseTemplate {
		targetID = ""
	}

	var rec *config.Record
	if exportEditable {
		rec, err = b.EditableConfig(ctx, mode, targetID)
	} else {
		rec, err = b.Config(ctx, mode, targetID)
	}
	if err != nil {
		return err
	}
	if rec == nil {
		if mode == config.ModeTemplate {
			return errors.TemplateNotFound(id)
		}
		return errors.InstanceNotFound(id)
	}

	// The id comes from the daemon or the user; keep the output inside
	// the export directory even if it contains path separators.
	path, err := securejoin.SecureJoin(exportDir, id+".json")
	if err != nil {
		return errors.ConfigError("invalid export path", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	logSuccess("Exported %s to %s", displayTarget(mode, id), path)
	return nil
}
