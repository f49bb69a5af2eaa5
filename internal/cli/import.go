package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mgpai22/bcutsrt/internal/workspace"
	"github.com/spf13/cobra"
)

var errCancelled = errors.New("cancelled by user")

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import the newest subtitle file into a chosen draft",
	Long: `Pick the most recently modified .srt/.vtt file from the workspace input/
directory, let you choose a draft from the Bcut draft list, back up the
draft's newest project file to backup/, write the subtitles into it and move
the subtitle file to completed/.

The draft directory defaults to ~/Documents/Bcut Drafts on Windows and
~/Movies/Bcut Drafts on macOS. Set drafts_dir in bcutsrt.yaml or
BCUTSRT_DRAFTS_DIR elsewhere.

Examples:
  bcutsrt import
  bcutsrt import --draft 27b1e7cc-0907-4f15-bfc9-ff77fbf0c586`,
	Args: cobra.NoArgs,
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().
		String("draft", "", "Draft id to import into (skips the interactive prompt)")
	importCmd.Flags().
		Bool("strict", false, "Fail when a .json draft has no subtitle track instead of creating one")
}

func runImport(cmd *cobra.Command, args []string) error {
	draftID, _ := cmd.Flags().GetString("draft")
	strict, _ := cmd.Flags().GetBool("strict")
	out := cmd.OutOrStdout()

	drafts, err := workspace.OpenDrafts(cfg.DraftsDir)
	if err != nil {
		return err
	}

	staging := workspace.NewStaging(cfg.WorkspaceDir)
	if err := staging.Ensure(); err != nil {
		return err
	}

	subtitlePath, err := staging.LatestSubtitle()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Found subtitle file: %s\n", filepath.Base(subtitlePath))

	var selected workspace.Draft
	if draftID != "" {
		selected, err = drafts.Find(draftID)
	} else {
		selected, err = selectDraft(cmd.InOrStdin(), out, drafts.List())
	}
	if errors.Is(err, errCancelled) {
		fmt.Fprintln(out, "Cancelled")
		return nil
	}
	if err != nil {
		return err
	}

	projectPath, err := drafts.LatestProjectFile(selected.ID)
	if err != nil {
		return err
	}

	backupPath, err := staging.Backup(projectPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Project file backed up: %s\n", filepath.Base(backupPath))

	result, err := convertFile(projectPath, subtitlePath, strict || cfg.StrictTrack)
	if err != nil {
		return err
	}
	printResult(out, result)

	completedPath, err := staging.Complete(subtitlePath)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Subtitle file moved to: %s\n", filepath.Base(completedPath))

	return nil
}

// prompts until a valid draft number is entered; q or end of input cancels
func selectDraft(in io.Reader, out io.Writer, drafts []workspace.Draft) (workspace.Draft, error) {
	fmt.Fprintln(out, "\n=== Drafts ===")
	for i, d := range drafts {
		fmt.Fprintf(out, "[%d] %s\n", i+1, workspace.Describe(d))
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "\nSelect a draft to import into (q to quit): ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return workspace.Draft{}, err
			}
			return workspace.Draft{}, errCancelled
		}

		choice := strings.TrimSpace(scanner.Text())
		if strings.EqualFold(choice, "q") {
			return workspace.Draft{}, errCancelled
		}

		n, err := strconv.Atoi(choice)
		if err != nil {
			fmt.Fprintln(out, "Please enter a number")
			continue
		}
		if n < 1 || n > len(drafts) {
			fmt.Fprintln(out, "Invalid choice, try again")
			continue
		}
		return drafts[n-1], nil
	}
}
