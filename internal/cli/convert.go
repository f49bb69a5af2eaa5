package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mgpai22/bcutsrt/internal/convert"
	"github.com/mgpai22/bcutsrt/internal/workspace"
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert [project_file] [subtitle_file]",
	Short: "Write a subtitle file into a draft project file",
	Long: `Replace the subtitle track of a Bcut project file with the cues of an SRT
or VTT file.

The first existing subtitle entry is used as the style template for every new
entry; without one, Bcut's default subtitle style is used. A missing subtitle
track is created unless --strict is set.

The project file is backed up to the workspace backup/ directory before it is
rewritten, unless --no-backup is given.

Examples:
  bcutsrt convert "~/Movies/Bcut Drafts/{id}/11-44-04-256.json" episode.srt
  bcutsrt convert draft.bjson episode.vtt --no-backup
  bcutsrt convert draft.json episode.srt --strict`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().
		Bool("no-backup", false, "Do not back up the project file before writing it")
	convertCmd.Flags().
		Bool("strict", false, "Fail when a .json draft has no subtitle track instead of creating one")
}

func runConvert(cmd *cobra.Command, args []string) error {
	projectPath := args[0]
	subtitlePath := args[1]

	noBackup, _ := cmd.Flags().GetBool("no-backup")
	strict, _ := cmd.Flags().GetBool("strict")

	for _, path := range []string{projectPath, subtitlePath} {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s", path)
		}
	}

	if !noBackup {
		staging := workspace.NewStaging(cfg.WorkspaceDir)
		backupPath, err := staging.Backup(projectPath)
		if err != nil {
			return err
		}
		logger.Infow("Backed up project file",
			"backup", backupPath,
		)
	}

	result, err := convertFile(projectPath, subtitlePath, strict || cfg.StrictTrack)
	if err != nil {
		return err
	}

	printResult(cmd.OutOrStdout(), result)
	return nil
}

func convertFile(projectPath, subtitlePath string, strict bool) (convert.Result, error) {
	logger.Infow("Importing subtitles",
		"project", projectPath,
		"subtitle", subtitlePath,
		"strict", strict,
	)

	engine := convert.NewEngine(convert.Options{
		StrictTrack: strict,
		Logger:      logger,
	})
	result, err := engine.Convert(projectPath, subtitlePath)
	if err != nil {
		return convert.Result{}, fmt.Errorf("conversion failed: %w", err)
	}
	return result, nil
}

func printResult(w io.Writer, result convert.Result) {
	absOutput, _ := filepath.Abs(result.Path)
	fmt.Fprintf(w, "Subtitles imported successfully: %s\n", absOutput)
	fmt.Fprintf(w, "  Entries: %d\n", result.Entries)
	fmt.Fprintf(w, "  Layout: %s\n", result.Schema)
	if result.TrackCreated {
		fmt.Fprintf(w, "  Subtitle track: created\n")
	}
	if result.Empty() {
		fmt.Fprintf(w, "  Warning: the subtitle file had no cues, the subtitle track is now empty\n")
	}
}
