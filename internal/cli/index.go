package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/rankerhq/agentic/internal/index"
	"github.com/rankerhq/agentic/internal/workspace"
)

var indexCmd = &cobra.Command{
	Use:   "index [project-dir]",
	Short: "Generate the project context index",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}
		root, err := resolveRoot(dir)
		if err != nil {
			return err
		}

		idx, err := index.Build(root, time.Now())
		if err != nil {
			return err
		}
		contextDir := workspace.At(root).ContextDir()
		if err := idx.WriteTo(contextDir); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Context index generated: %s\n",
			filepath.Join(contextDir, "index.json"))
		return nil
	},
}
