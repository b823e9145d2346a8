package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/shipr/internal/config"
	"github.com/VoxDroid/shipr/internal/executor"
	"github.com/VoxDroid/shipr/internal/gitutil"
	"github.com/VoxDroid/shipr/internal/history"
	"github.com/VoxDroid/shipr/internal/interactive"
	"github.com/VoxDroid/shipr/internal/logx"
	"github.com/VoxDroid/shipr/internal/user"
	"github.com/VoxDroid/shipr/internal/workflow"
)

var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Run the full release workflow",
	Long:  "Check the working tree, bump the version, run tests with a coverage gate, build, commit, tag, push and upload",
	RunE: func(cmd *cobra.Command, _ []string) error {
		newVersion, _ := cmd.Flags().GetString("version")
		skipTests, _ := cmd.Flags().GetBool("skip-tests")
		dry, _ := cmd.Flags().GetBool("dry-run")
		yes, _ := cmd.Flags().GetBool("yes")
		cfgPath, _ := cmd.Flags().GetString("config")

		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		if cfg.GitUserName == "" && cfg.GitUserEmail == "" {
			if p, ok, err := user.GetProfile(); err == nil && ok {
				cfg.GitUserName = p.Name
				cfg.GitUserEmail = p.Email
			}
		}

		input := func(current string) (string, error) {
			if newVersion != "" {
				return newVersion, nil
			}
			return interactive.Prompt(fmt.Sprintf("New version (current %s)", current)), nil
		}

		w, err := workflow.New(workflow.Options{
			Config:    cfg,
			Runner:    executor.New(dry),
			Input:     input,
			Out:       os.Stdout,
			SkipTests: skipTests,
			DryRun:    dry,
		})
		if err != nil {
			return err
		}

		if !yes && !dry {
			if !interactive.Confirm("Release from the current tree?") {
				fmt.Println("aborted")
				return nil
			}
		}

		res, runErr := w.Run(context.Background())
		if !dry {
			journalRun(w, res, runErr)
		}
		return runErr
	},
}

// journalRun appends the run to the release journal. Journal trouble is
// logged, not fatal: the release itself already succeeded or failed on its
// own terms.
func journalRun(w *workflow.Workflow, res *workflow.Result, runErr error) {
	if res == nil || res.NewVersion == "" {
		// Aborted before a version was chosen; nothing worth journaling.
		return
	}
	dbConn, err := history.InitDB()
	if err != nil {
		logx.Warnf("release journal unavailable: %v", err)
		return
	}
	defer func() { _ = dbConn.Close() }()

	entry := history.Release{
		Version:    res.NewVersion,
		Tag:        res.Tag,
		Outcome:    history.OutcomeReleased,
		DurationMS: res.Duration.Milliseconds(),
	}
	if res.Coverage != nil {
		entry.Coverage = sql.NullFloat64{Float64: *res.Coverage, Valid: true}
	}
	if runErr != nil {
		entry.Outcome = history.OutcomeFailed
		entry.FailedState = sql.NullString{String: string(w.State()), Valid: true}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if branch, err := gitutil.NewClient(executor.New(false), "").CurrentBranch(ctx); err == nil && branch != "" {
		entry.Branch = sql.NullString{String: branch, Valid: true}
	}

	if _, err := history.NewRepository(dbConn).Record(entry); err != nil {
		logx.Warnf("journal release: %v", err)
	}
}

func init() {
	releaseCmd.Flags().String("version", "", "New version (skips the interactive prompt)")
	releaseCmd.Flags().Bool("skip-tests", false, "Skip the test run and coverage gate")
	releaseCmd.Flags().Bool("dry-run", false, "Log the steps without mutating anything")
	releaseCmd.Flags().Bool("yes", false, "Do not ask for confirmation")
	releaseCmd.Flags().String("config", config.DefaultFileName, "Path to the release config file")
	rootCmd.AddCommand(releaseCmd)
}
