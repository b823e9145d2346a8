package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/shipr/internal/logx"
)

var rootCmd = &cobra.Command{
	Use:   "shipr",
	Short: "shipr automates project releases",
	Long:  "shipr drives a release end to end: version bump, coverage gate, build, commit, tag, push and upload",
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		logx.SetVerbose(verbose)
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")
}
