package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/shipr/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default release.toml into the current directory",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfgPath, _ := cmd.Flags().GetString("config")
		if err := config.WriteTemplate(cfgPath); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", cfgPath)
		return nil
	},
}

func init() {
	initCmd.Flags().String("config", config.DefaultFileName, "Path for the generated config file")
	rootCmd.AddCommand(initCmd)
}
