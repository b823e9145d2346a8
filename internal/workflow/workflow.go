// Package workflow drives the release sequence: precondition checks,
// version bump, coverage gate, build, commit/tag, push and publish. Steps
// run in a fixed order and the first failure aborts the run; there is no
// retry and no rollback of side effects already performed.
package workflow

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/VoxDroid/shipr/internal/config"
	"github.com/VoxDroid/shipr/internal/coverage"
	"github.com/VoxDroid/shipr/internal/executor"
	"github.com/VoxDroid/shipr/internal/gitutil"
	"github.com/VoxDroid/shipr/internal/logx"
	"github.com/VoxDroid/shipr/internal/metadata"
	"github.com/VoxDroid/shipr/internal/security"
)

// State labels how far a run has progressed. A failed run keeps the last
// state it reached so callers can report where it stopped.
type State string

const (
	StateIdle            State = "idle"
	StateTreeChecked     State = "tree-checked"
	StateVersionRead     State = "version-read"
	StateVersionEntered  State = "version-entered"
	StateVersionWritten  State = "version-written"
	StateCoverageChecked State = "coverage-checked"
	StateBuilt           State = "built"
	StateCommitted       State = "committed"
	StateTagged          State = "tagged"
	StatePushed          State = "pushed"
	StatePublished       State = "published"
	StateDone            State = "done"
)

var (
	passStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
)

// Options configures a release run. Runner and Input are required; the
// remaining fields have usable zero values.
type Options struct {
	Config config.Project
	// Dir is the repository root. Empty means the current directory.
	Dir    string
	Runner executor.Runner
	// Input supplies the new version string. It receives the current
	// version and must return a non-empty replacement.
	Input func(current string) (string, error)
	// Out receives user-facing progress lines. Defaults to os.Stdout.
	Out io.Writer
	// SkipTests disables the test run and coverage gate for this run.
	SkipTests bool
	// DryRun suppresses filesystem mutations done by the workflow itself;
	// the Runner is expected to be in dry-run mode as well.
	DryRun bool
}

// Result summarizes a completed (or aborted) run.
type Result struct {
	OldVersion string
	NewVersion string
	Tag        string
	// Coverage is nil when the gate was skipped.
	Coverage *float64
	Duration time.Duration
}

// Workflow executes the release sequence once. Not safe for reuse.
type Workflow struct {
	opts   Options
	git    *gitutil.Client
	out    io.Writer
	state  State
	failed bool
}

// New validates opts and returns a ready-to-run Workflow.
func New(opts Options) (*Workflow, error) {
	if opts.Runner == nil {
		return nil, fmt.Errorf("workflow requires a Runner")
	}
	if opts.Input == nil {
		return nil, fmt.Errorf("workflow requires an Input provider")
	}
	if err := config.Validate(opts.Config); err != nil {
		return nil, err
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	return &Workflow{
		opts:  opts,
		git:   gitutil.NewClient(opts.Runner, opts.Dir),
		out:   out,
		state: StateIdle,
	}, nil
}

// State returns the last state the run reached.
func (w *Workflow) State() State { return w.state }

// Failed reports whether the run aborted.
func (w *Workflow) Failed() bool { return w.failed }

func (w *Workflow) advance(s State) { w.state = s }

func (w *Workflow) fail(err error) error {
	w.failed = true
	return err
}

// Run executes every step in order, stopping at the first failure. The
// returned Result is partially filled on failure (whatever had been
// discovered before the aborting step).
func (w *Workflow) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	res := &Result{}
	defer func() { res.Duration = time.Since(start) }()

	if err := w.checkTree(ctx); err != nil {
		return res, w.fail(err)
	}
	if err := w.readVersion(res); err != nil {
		return res, w.fail(err)
	}
	if err := w.inputVersion(res); err != nil {
		return res, w.fail(err)
	}
	if err := w.writeVersion(res); err != nil {
		return res, w.fail(err)
	}
	if !w.opts.SkipTests && !w.opts.Config.SkipTests {
		if err := w.coverageGate(ctx, res); err != nil {
			return res, w.fail(err)
		}
	}
	if err := w.cleanAndBuild(ctx); err != nil {
		return res, w.fail(err)
	}
	if err := w.commitAndTag(ctx, res); err != nil {
		return res, w.fail(err)
	}
	if err := w.push(ctx, res); err != nil {
		return res, w.fail(err)
	}
	if err := w.publish(ctx); err != nil {
		return res, w.fail(err)
	}

	fmt.Fprintln(w.out, successStyle.Render(fmt.Sprintf("Released version %s", res.NewVersion)))
	w.advance(StateDone)
	return res, nil
}

func (w *Workflow) checkTree(ctx context.Context) error {
	files, err := w.git.Status(ctx)
	if err != nil {
		return &ExternalToolError{Step: "precondition", Err: err}
	}
	if len(files) > 0 {
		return &DirtyTreeError{Files: files}
	}
	w.advance(StateTreeChecked)
	return nil
}

func (w *Workflow) versionFilePath() string {
	return filepath.Join(w.opts.Dir, w.opts.Config.VersionFile)
}

func (w *Workflow) readVersion(res *Result) error {
	v, err := metadata.CurrentVersion(w.versionFilePath())
	if err != nil {
		return err
	}
	res.OldVersion = v
	fmt.Fprintf(w.out, "current version: %s\n", v)
	w.advance(StateVersionRead)
	return nil
}

func (w *Workflow) inputVersion(res *Result) error {
	v, err := w.opts.Input(res.OldVersion)
	if err != nil {
		return fmt.Errorf("read new version: %w", err)
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return fmt.Errorf("new version must not be empty")
	}
	res.NewVersion = v
	res.Tag = "v" + v
	w.advance(StateVersionEntered)
	return nil
}

func (w *Workflow) writeVersion(res *Result) error {
	if w.opts.DryRun {
		logx.Infof("dry-run: would set version to %s in %s", res.NewVersion, w.opts.Config.VersionFile)
		w.advance(StateVersionWritten)
		return nil
	}
	if err := metadata.WriteVersion(w.versionFilePath(), res.OldVersion, res.NewVersion); err != nil {
		return err
	}
	w.advance(StateVersionWritten)
	return nil
}

// splitConfigured tokenizes a command line from release.toml after the
// safety check.
func splitConfigured(step, command string) ([]string, error) {
	if err := security.CheckAllowed(command); err != nil {
		return nil, &ExternalToolError{Step: step, Err: fmt.Errorf("refusing configured command %q: %w", command, err)}
	}
	argv, err := executor.Split(command)
	if err != nil {
		return nil, &ExternalToolError{Step: step, Err: err}
	}
	return argv, nil
}

func (w *Workflow) coverageGate(ctx context.Context, res *Result) error {
	argv, err := splitConfigured("test", w.opts.Config.TestCommand)
	if err != nil {
		return err
	}
	out, err := w.opts.Runner.Run(ctx, w.opts.Dir, argv[0], argv[1:]...)
	if err != nil {
		return &ExternalToolError{Step: "test", Err: err}
	}
	if w.opts.DryRun {
		w.advance(StateCoverageChecked)
		return nil
	}
	pct, err := coverage.Parse(out.Stdout + out.Stderr)
	if err != nil {
		return &ExternalToolError{Step: "test", Err: err}
	}
	res.Coverage = &pct
	if err := coverage.Gate(pct, w.opts.Config.CoverageThreshold); err != nil {
		fmt.Fprintln(w.out, failStyle.Render(fmt.Sprintf("coverage %.0f%% is below the %.0f%% threshold", pct, w.opts.Config.CoverageThreshold)))
		return err
	}
	fmt.Fprintln(w.out, passStyle.Render(fmt.Sprintf("coverage %.0f%% meets the %.0f%% threshold", pct, w.opts.Config.CoverageThreshold)))
	w.advance(StateCoverageChecked)
	return nil
}

func (w *Workflow) cleanAndBuild(ctx context.Context) error {
	for _, d := range w.opts.Config.CleanDirs {
		if err := security.CheckCleanPattern(d); err != nil {
			return &ExternalToolError{Step: "build", Err: err}
		}
		matches, err := filepath.Glob(filepath.Join(w.opts.Dir, d))
		if err != nil {
			return &ExternalToolError{Step: "build", Err: fmt.Errorf("bad clean_dirs pattern %q: %w", d, err)}
		}
		for _, m := range matches {
			if w.opts.DryRun {
				logx.Infof("dry-run: would remove %s", m)
				continue
			}
			if err := os.RemoveAll(m); err != nil {
				return &ExternalToolError{Step: "build", Err: fmt.Errorf("clean %s: %w", m, err)}
			}
		}
	}

	argv, err := splitConfigured("build", w.opts.Config.BuildCommand)
	if err != nil {
		return err
	}
	if _, err := w.opts.Runner.Run(ctx, w.opts.Dir, argv[0], argv[1:]...); err != nil {
		return &ExternalToolError{Step: "build", Err: err}
	}
	w.advance(StateBuilt)
	return nil
}

func (w *Workflow) commitAndTag(ctx context.Context, res *Result) error {
	if !w.opts.DryRun {
		if err := w.git.EnsureIdentity(ctx, w.opts.Config.GitUserName, w.opts.Config.GitUserEmail); err != nil {
			return &ExternalToolError{Step: "commit", Err: err}
		}
	}
	if err := w.git.Add(ctx, w.opts.Config.VersionFile); err != nil {
		return &ExternalToolError{Step: "commit", Err: err}
	}
	if err := w.git.Commit(ctx, fmt.Sprintf("Bump version to %s", res.NewVersion)); err != nil {
		return &ExternalToolError{Step: "commit", Err: err}
	}
	w.advance(StateCommitted)

	if err := w.git.Tag(ctx, res.Tag, fmt.Sprintf("Version %s", res.NewVersion)); err != nil {
		return &ExternalToolError{Step: "tag", Err: err}
	}
	w.advance(StateTagged)
	return nil
}

// rejectionMarkers are the stderr fragments git emits when a remote
// refuses a push.
var rejectionMarkers = []string{"[rejected]", "non-fast-forward", "failed to push some refs"}

func (w *Workflow) push(ctx context.Context, res *Result) error {
	for _, ref := range []string{w.opts.Config.Branch, res.Tag} {
		out, err := w.git.Push(ctx, w.opts.Config.Remote, ref)
		if err != nil {
			for _, marker := range rejectionMarkers {
				if strings.Contains(out.Stderr, marker) {
					return &PushRejectedError{Remote: w.opts.Config.Remote, Ref: ref, Err: err}
				}
			}
			return &ExternalToolError{Step: "push", Err: err}
		}
	}
	w.advance(StatePushed)
	return nil
}

func (w *Workflow) publish(ctx context.Context) error {
	artifacts, err := filepath.Glob(filepath.Join(w.opts.Dir, w.opts.Config.ArtifactDir, "*"))
	if err != nil {
		return &ExternalToolError{Step: "publish", Err: err}
	}
	if len(artifacts) == 0 && !w.opts.DryRun {
		return &ExternalToolError{Step: "publish", Err: fmt.Errorf("no artifacts found in %s", w.opts.Config.ArtifactDir)}
	}

	argv, err := splitConfigured("publish", w.opts.Config.PublishCommand)
	if err != nil {
		return err
	}
	argv = append(argv, artifacts...)
	if _, err := w.opts.Runner.Run(ctx, w.opts.Dir, argv[0], argv[1:]...); err != nil {
		return &ExternalToolError{Step: "publish", Err: err}
	}
	w.advance(StatePublished)
	return nil
}
