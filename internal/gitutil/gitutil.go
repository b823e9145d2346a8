// Package gitutil wraps the git command-line client for the operations a
// release needs: tree status, stage/commit/tag, push, and identity config.
package gitutil

import (
	"context"
	"fmt"
	"strings"

	"github.com/VoxDroid/shipr/internal/executor"
	"github.com/VoxDroid/shipr/internal/logx"
)

// StatusFile represents a file entry from git status.
type StatusFile struct {
	Filename    string
	Status      string // XY status code (e.g., ".M", "M.", "??")
	IsUntracked bool
}

// Client runs git in a fixed repository directory through a Runner.
type Client struct {
	run executor.Runner
	dir string
}

// NewClient returns a Client operating on the repository at dir. An empty
// dir means the current working directory.
func NewClient(run executor.Runner, dir string) *Client {
	return &Client{run: run, dir: dir}
}

func (c *Client) git(ctx context.Context, args ...string) (executor.Result, error) {
	return c.run.Run(ctx, c.dir, "git", args...)
}

// Status returns the porcelain status entries for the working tree.
func (c *Client) Status(ctx context.Context) ([]StatusFile, error) {
	res, err := c.git(ctx, "status", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("git status: %w", err)
	}
	var files []StatusFile
	for _, line := range strings.Split(res.Stdout, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if len(line) < 4 {
			continue
		}
		code := line[:2]
		files = append(files, StatusFile{
			Filename:    strings.TrimSpace(line[3:]),
			Status:      code,
			IsUntracked: code == "??",
		})
	}
	return files, nil
}

// IsClean reports whether the working tree has no uncommitted changes.
func (c *Client) IsClean(ctx context.Context) (bool, error) {
	files, err := c.Status(ctx)
	if err != nil {
		return false, err
	}
	return len(files) == 0, nil
}

// CurrentBranch returns the checked-out branch name.
func (c *Client) CurrentBranch(ctx context.Context) (string, error) {
	res, err := c.git(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return strings.TrimSpace(res.Stdout), nil
}

// Add stages the given paths.
func (c *Client) Add(ctx context.Context, paths ...string) error {
	args := append([]string{"add"}, paths...)
	if _, err := c.git(ctx, args...); err != nil {
		return fmt.Errorf("git add: %w", err)
	}
	return nil
}

// Commit records the staged changes with the given message.
func (c *Client) Commit(ctx context.Context, message string) error {
	if _, err := c.git(ctx, "commit", "-m", message); err != nil {
		return fmt.Errorf("git commit: %w", err)
	}
	return nil
}

// Tag creates an annotated tag with the given message.
func (c *Client) Tag(ctx context.Context, name, message string) error {
	if _, err := c.git(ctx, "tag", "-a", name, "-m", message); err != nil {
		return fmt.Errorf("git tag: %w", err)
	}
	return nil
}

// Push pushes ref (a branch or tag name) to remote. The returned Result
// carries git's stderr so callers can classify remote rejections.
func (c *Client) Push(ctx context.Context, remote, ref string) (executor.Result, error) {
	res, err := c.git(ctx, "push", remote, ref)
	if err != nil {
		return res, fmt.Errorf("git push %s %s: %w", remote, ref, err)
	}
	return res, nil
}

// ConfigGet reads a git config value. A missing key returns an empty string
// and no error (git exits 1 for unset keys).
func (c *Client) ConfigGet(ctx context.Context, key string) (string, error) {
	res, err := c.git(ctx, "config", "--get", key)
	if err != nil {
		if res.ExitCode == 1 {
			return "", nil
		}
		return "", fmt.Errorf("git config --get %s: %w", key, err)
	}
	return strings.TrimSpace(res.Stdout), nil
}

// ConfigSet writes a repository-local git config value.
func (c *Client) ConfigSet(ctx context.Context, key, value string) error {
	if _, err := c.git(ctx, "config", key, value); err != nil {
		return fmt.Errorf("git config %s: %w", key, err)
	}
	return nil
}

// EnsureIdentity makes sure user.name and user.email are configured before
// committing. When both name and email are provided they are written to the
// repository config; one without the other is skipped with a warning since
// git needs the pair. When nothing is provided and the existing config has
// no identity, an error is returned so the commit does not fail later with
// git's own less helpful message.
func (c *Client) EnsureIdentity(ctx context.Context, name, email string) error {
	if name != "" && email != "" {
		if err := c.ConfigSet(ctx, "user.name", name); err != nil {
			return err
		}
		if err := c.ConfigSet(ctx, "user.email", email); err != nil {
			return err
		}
		logx.Debugf("git identity set: %s <%s>", name, email)
		return nil
	}
	if name != "" || email != "" {
		logx.Warnf("git user_name and user_email must be provided together; skipping identity configuration")
	}

	existingName, err := c.ConfigGet(ctx, "user.name")
	if err != nil {
		return err
	}
	existingEmail, err := c.ConfigGet(ctx, "user.email")
	if err != nil {
		return err
	}
	if existingName == "" || existingEmail == "" {
		return fmt.Errorf("git identity not configured: set user.name and user.email (or the [git] keys in release.toml)")
	}
	return nil
}
