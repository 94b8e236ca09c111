package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rankerhq/agentic/internal/task"
	"github.com/rankerhq/agentic/internal/workspace"
)

var featureCmd = &cobra.Command{
	Use:   "feature <slug>",
	Short: "Generate a feature task from a slug",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectDir, _ := cmd.Flags().GetString("project-dir")
		title, _ := cmd.Flags().GetString("title")
		typ, _ := cmd.Flags().GetString("type")
		force, _ := cmd.Flags().GetBool("force")

		if !task.IsFeatureType(typ) {
			return fmt.Errorf("invalid feature type %q (one of: %s)", typ, strings.Join(task.FeatureTypes, ", "))
		}
		slug := task.SanitizeSlug(args[0])
		if slug == "" {
			return errors.New("invalid slug")
		}

		root, err := resolveRoot(projectDir)
		if err != nil {
			return err
		}
		tasksDir := workspace.At(root).TasksDir()
		if _, err := os.Stat(tasksDir); err != nil {
			return fmt.Errorf("missing workflow tasks directory: %s", tasksDir)
		}

		path := filepath.Join(tasksDir, fmt.Sprintf("feature-%s.yml", slug))
		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("task already exists: %s", path)
		}

		id := task.NextFeatureID(tasksDir)
		if err := os.WriteFile(path, []byte(task.FeatureYAML(id, slug, title, typ)), 0o644); err != nil {
			return fmt.Errorf("write task: %w", err)
		}
		if report := task.ValidateFile(path); !report.OK() {
			return fmt.Errorf("generated task invalid: missing %s", strings.Join(report.Missing, ", "))
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Feature task created: %s\n", path)
		fmt.Fprintf(out, "Task id: %s\n", id)
		fmt.Fprintf(out, "Task type: %s\n", typ)
		return nil
	},
}

func init() {
	featureCmd.Flags().String("project-dir", ".", "project root directory")
	featureCmd.Flags().String("title", "", "task title (defaults from slug)")
	featureCmd.Flags().String("type", "standard", "feature type: standard|api|data|ui|performance")
	featureCmd.Flags().Bool("force", false, "overwrite an existing task file")
}
