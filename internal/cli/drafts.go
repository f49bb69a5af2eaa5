package cli

import (
	"fmt"

	"github.com/mgpai22/bcutsrt/internal/workspace"
	"github.com/spf13/cobra"
)

var draftsCmd = &cobra.Command{
	Use:   "drafts",
	Short: "List Bcut drafts and their newest project file",
	Args:  cobra.NoArgs,
	RunE:  runDrafts,
}

func init() {
	rootCmd.AddCommand(draftsCmd)
}

func runDrafts(cmd *cobra.Command, args []string) error {
	drafts, err := workspace.OpenDrafts(cfg.DraftsDir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Drafts in %s\n", drafts.Dir())
	for _, d := range drafts.List() {
		fmt.Fprintf(out, "\n%s\n", workspace.Describe(d))
		fmt.Fprintf(out, "  id: %s\n", d.ID)

		path, err := drafts.LatestProjectFile(d.ID)
		if err != nil {
			logger.Debugw("No project file for draft",
				"id", d.ID,
				"error", err,
			)
			fmt.Fprintf(out, "  project file: none\n")
			continue
		}
		fmt.Fprintf(out, "  project file: %s\n", path)
	}
	return nil
}
