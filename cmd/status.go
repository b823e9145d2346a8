package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/shipr/internal/config"
	"github.com/VoxDroid/shipr/internal/executor"
	"github.com/VoxDroid/shipr/internal/gitutil"
	"github.com/VoxDroid/shipr/internal/history"
	"github.com/VoxDroid/shipr/internal/logx"
	"github.com/VoxDroid/shipr/internal/metadata"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show release preflight status for the current repository",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfgPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}

		ctx := context.Background()
		git := gitutil.NewClient(executor.New(false), "")

		fmt.Printf("shipr status:\n")

		files, err := git.Status(ctx)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			fmt.Printf("- Working tree: clean\n")
		} else {
			fmt.Printf("- Working tree: %d uncommitted change(s)\n", len(files))
			for _, f := range files {
				fmt.Printf("    %s %s\n", f.Status, f.Filename)
			}
		}

		if branch, err := git.CurrentBranch(ctx); err == nil {
			fmt.Printf("- Branch: %s (pushes to %s/%s)\n", branch, cfg.Remote, cfg.Branch)
		}

		if v, err := metadata.CurrentVersion(cfg.VersionFile); err == nil {
			fmt.Printf("- Current version: %s (%s)\n", v, cfg.VersionFile)
		} else {
			fmt.Printf("- Current version: %v\n", err)
		}

		printLastRelease()
		return nil
	},
}

func printLastRelease() {
	dbConn, err := history.InitDB()
	if err != nil {
		logx.Debugf("release journal unavailable: %v", err)
		return
	}
	defer func() { _ = dbConn.Close() }()

	last, err := history.NewRepository(dbConn).Last()
	if err != nil || last == nil {
		fmt.Printf("- Last release: none recorded\n")
		return
	}
	fmt.Printf("- Last release: %s (%s) at %s\n", last.Version, last.Outcome, last.CreatedAt)
}

func init() {
	statusCmd.Flags().String("config", config.DefaultFileName, "Path to the release config file")
	rootCmd.AddCommand(statusCmd)
}
