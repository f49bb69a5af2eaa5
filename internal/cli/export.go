package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mgpai22/bcutsrt/internal/draft"
	"github.com/mgpai22/bcutsrt/internal/subtitle"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [project_file]",
	Short: "Write the subtitle track of a draft project file to a subtitle file",
	Long: `Read the subtitle clips (.json drafts) or captions (.bjson drafts) of a Bcut
project file and save them as SRT or VTT. The project file is not modified.

Examples:
  bcutsrt export draft.json
  bcutsrt export draft.bjson -f vtt -o episode.vtt`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().
		StringP("output", "o", "", "Output file path")
	exportCmd.Flags().
		StringP("format", "f", "srt", "Output subtitle format (srt, vtt)")
}

func runExport(cmd *cobra.Command, args []string) error {
	projectPath := args[0]
	outputPath, _ := cmd.Flags().GetString("output")
	formatStr, _ := cmd.Flags().GetString("format")

	if _, err := os.Stat(projectPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", projectPath)
	}

	format := subtitle.Format(strings.ToLower(formatStr))
	writer, err := subtitle.NewWriter(format)
	if err != nil {
		return fmt.Errorf("unsupported format %q: use srt or vtt", formatStr)
	}

	if outputPath == "" {
		baseName := strings.TrimSuffix(projectPath, filepath.Ext(projectPath))
		outputPath = baseName + subtitle.ExtensionForFormat(format)
	}

	adapter := draft.NewAdapter(projectPath, draft.WithLogger(logger))
	if _, err := adapter.Load(); err != nil {
		return err
	}
	records, err := adapter.Records()
	if err != nil {
		return err
	}

	logger.Infow("Exporting subtitle track",
		"project", projectPath,
		"output", outputPath,
		"entries", len(records),
	)

	if err := writer.Write(records, outputPath); err != nil {
		return fmt.Errorf("failed to write subtitles: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Subtitles exported successfully: %s\n", absOutput)
	fmt.Fprintf(out, "  Entries: %d\n", len(records))
	return nil
}
