package cli

import (
	"github.com/mgpai22/bcutsrt/internal/config"
	"github.com/mgpai22/bcutsrt/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	cfg        config.Config
	logger     *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "bcutsrt",
	Short: "Import SRT subtitles into Bcut (必剪) drafts",
	Long: `bcutsrt writes the cues of an SRT or VTT file into the subtitle track of a
Bcut draft project, so subtitles made elsewhere show up on the timeline
without retyping them.

Both draft layouts are supported: older .json drafts (subtitle clips) and
newer .bjson drafts (caption tracks). The project file is rewritten in place;
back it up first or let the import and convert commands do it for you.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			loaded.Verbose = true
		}
		cfg = loaded
		logger = logging.NewLogger(cfg.Verbose)
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVar(&configPath, "config", "", "Config file (default ./bcutsrt.yaml if present)")
}
