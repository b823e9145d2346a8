// Package metadata reads and rewrites the version line of a project
// metadata file (setup.py, pyproject.toml, or anything carrying a
// `version = <value>` line).
package metadata

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// versionLine matches a `version = <value>` assignment, tolerating quotes
// and a trailing comma (the setup.py keyword-argument form).
var versionLine = regexp.MustCompile(`(?m)^\s*version\s*=\s*['"]?([0-9A-Za-z.+-]+)['"]?,?\s*$`)

// VersionNotFoundError reports a metadata file without a recognizable
// version line.
type VersionNotFoundError struct {
	Path string
}

func (e *VersionNotFoundError) Error() string {
	return fmt.Sprintf("no version line found in %s", e.Path)
}

// CurrentVersion extracts the version value from the metadata file at path.
func CurrentVersion(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	m := versionLine.FindSubmatch(data)
	if m == nil {
		return "", &VersionNotFoundError{Path: path}
	}
	return string(m[1]), nil
}

// WriteVersion replaces old with new on the version line of the file at
// path. Only the matched line is touched; other occurrences of the old
// version elsewhere in the file are left alone. Within the matched line the
// first occurrence of old is substituted textually, so an old version that
// is a substring of unrelated text on that same line would be clobbered —
// a known limitation of line-level substitution.
func WriteVersion(path, oldVersion, newVersion string) error {
	if strings.TrimSpace(newVersion) == "" {
		return fmt.Errorf("new version must not be empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	loc := versionLine.FindIndex(data)
	if loc == nil {
		return &VersionNotFoundError{Path: path}
	}
	line := string(data[loc[0]:loc[1]])
	if !strings.Contains(line, oldVersion) {
		return fmt.Errorf("version line in %s does not contain %q", path, oldVersion)
	}
	replaced := strings.Replace(line, oldVersion, newVersion, 1)

	var out strings.Builder
	out.Write(data[:loc[0]])
	out.WriteString(replaced)
	out.Write(data[loc[1]:])

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(out.String()), info.Mode().Perm()); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
