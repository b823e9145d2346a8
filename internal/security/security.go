// Package security provides conservative safety checks for the commands
// and paths release.toml feeds into the workflow.
package security

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

var dangerousPatterns = []*regexp.Regexp{
	// Destructive filesystem ops
	regexp.MustCompile(`(?i)\brm\s+-rf\s+/?$`),
	regexp.MustCompile(`(?i)\brm\s+-rf\s+/`),
	regexp.MustCompile(`(?i)\bmkfs\b`),
	regexp.MustCompile(`(?i)\bdd\s+if=`),
	// fork bombs (e.g. :(){ :|:& };:)
	regexp.MustCompile(`:\(\)\s*\{`),
	// wipe disk
	regexp.MustCompile(`(?i)\bwipefs\b`),
}

// CheckAllowed returns nil if the configured command is allowed to run, or
// an error describing why it's blocked. Checking is conservative and not
// exhaustive.
func CheckAllowed(command string) error {
	cmd := strings.TrimSpace(command)
	if cmd == "" {
		return errors.New("empty command")
	}
	for _, re := range dangerousPatterns {
		if re.MatchString(cmd) {
			return errors.New("command appears destructive or unsafe")
		}
	}
	return nil
}

// CheckCleanPattern rejects clean_dirs patterns that could reach outside
// the repository: absolute paths and parent-directory traversal.
func CheckCleanPattern(pattern string) error {
	p := strings.TrimSpace(pattern)
	if p == "" {
		return errors.New("empty clean_dirs pattern")
	}
	if filepath.IsAbs(p) {
		return fmt.Errorf("clean_dirs pattern %q must be relative to the repository", pattern)
	}
	for _, part := range strings.Split(filepath.ToSlash(p), "/") {
		if part == ".." {
			return fmt.Errorf("clean_dirs pattern %q must not traverse outside the repository", pattern)
		}
	}
	return nil
}
