package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/shipr/internal/config"
	"github.com/VoxDroid/shipr/internal/metadata"
)

var bumpCmd = &cobra.Command{
	Use:   "bump <new-version>",
	Short: "Rewrite the version in the metadata file without releasing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		newVersion := args[0]
		cfgPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}

		old, err := metadata.CurrentVersion(cfg.VersionFile)
		if err != nil {
			return err
		}
		if err := metadata.WriteVersion(cfg.VersionFile, old, newVersion); err != nil {
			return err
		}
		fmt.Printf("bumped %s: %s -> %s\n", cfg.VersionFile, old, newVersion)
		return nil
	},
}

func init() {
	bumpCmd.Flags().String("config", config.DefaultFileName, "Path to the release config file")
	rootCmd.AddCommand(bumpCmd)
}
