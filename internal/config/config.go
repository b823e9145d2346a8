// Package config provides shipr configuration: per-project release settings
// loaded from release.toml, plus paths for shipr's own data directory.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultFileName is the project config file shipr looks for in the
// repository root.
const DefaultFileName = "release.toml"

// Project holds the release settings for a single repository. Zero values
// are filled in by Load; use DefaultProject for the canonical defaults.
type Project struct {
	// VersionFile is the metadata file carrying a `version = <value>` line.
	VersionFile string
	// ArtifactDir is where the build step leaves distributables.
	ArtifactDir string
	// CleanDirs are removed before building.
	CleanDirs []string

	// TestCommand, BuildCommand and PublishCommand are full command lines;
	// they are split shell-style before execution. PublishCommand gets the
	// artifact paths appended.
	TestCommand    string
	BuildCommand   string
	PublishCommand string

	// CoverageThreshold is the minimum aggregate test coverage (percent)
	// required before a build is allowed.
	CoverageThreshold float64
	// SkipTests disables the test run and coverage gate entirely.
	SkipTests bool

	// Remote and Branch are the push destination.
	Remote string
	Branch string
	// GitUserName and GitUserEmail, when both set, are written to the git
	// config before committing. One without the other is ignored.
	GitUserName  string
	GitUserEmail string
}

// DefaultProject returns the settings used when no release.toml is present.
func DefaultProject() Project {
	return Project{
		VersionFile:       "setup.py",
		ArtifactDir:       "dist",
		CleanDirs:         []string{"dist", "build"},
		TestCommand:       "pytest --cov --cov-report=term",
		BuildCommand:      "python setup.py sdist bdist_wheel",
		PublishCommand:    "twine upload",
		CoverageThreshold: 90,
		Remote:            "origin",
		Branch:            "main",
	}
}

type fileConfig struct {
	Project struct {
		VersionFile string   `toml:"version_file"`
		ArtifactDir string   `toml:"artifact_dir"`
		CleanDirs   []string `toml:"clean_dirs"`
	} `toml:"project"`
	Commands struct {
		Test    string `toml:"test"`
		Build   string `toml:"build"`
		Publish string `toml:"publish"`
	} `toml:"commands"`
	Gate struct {
		CoverageThreshold float64 `toml:"coverage_threshold"`
		SkipTests         bool    `toml:"skip_tests"`
	} `toml:"gate"`
	Git struct {
		Remote    string `toml:"remote"`
		Branch    string `toml:"branch"`
		UserName  string `toml:"user_name"`
		UserEmail string `toml:"user_email"`
	} `toml:"git"`
}

// Load reads the project config at path, layering it over DefaultProject.
// A missing file is not an error: the defaults are returned as-is.
func Load(path string) (Project, error) {
	cfg := DefaultProject()

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Project{}, fmt.Errorf("stat config: %w", err)
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Project{}, fmt.Errorf("load release config: %w", err)
	}

	if meta.IsDefined("project", "version_file") {
		cfg.VersionFile = strings.TrimSpace(raw.Project.VersionFile)
	}
	if meta.IsDefined("project", "artifact_dir") {
		cfg.ArtifactDir = strings.TrimSpace(raw.Project.ArtifactDir)
	}
	if meta.IsDefined("project", "clean_dirs") {
		cfg.CleanDirs = raw.Project.CleanDirs
	}
	if meta.IsDefined("commands", "test") {
		cfg.TestCommand = raw.Commands.Test
	}
	if meta.IsDefined("commands", "build") {
		cfg.BuildCommand = raw.Commands.Build
	}
	if meta.IsDefined("commands", "publish") {
		cfg.PublishCommand = raw.Commands.Publish
	}
	if meta.IsDefined("gate", "coverage_threshold") {
		cfg.CoverageThreshold = raw.Gate.CoverageThreshold
	}
	if meta.IsDefined("gate", "skip_tests") {
		cfg.SkipTests = raw.Gate.SkipTests
	}
	if meta.IsDefined("git", "remote") {
		cfg.Remote = strings.TrimSpace(raw.Git.Remote)
	}
	if meta.IsDefined("git", "branch") {
		cfg.Branch = strings.TrimSpace(raw.Git.Branch)
	}
	if meta.IsDefined("git", "user_name") {
		cfg.GitUserName = strings.TrimSpace(raw.Git.UserName)
	}
	if meta.IsDefined("git", "user_email") {
		cfg.GitUserEmail = strings.TrimSpace(raw.Git.UserEmail)
	}

	if err := Validate(cfg); err != nil {
		return Project{}, err
	}
	return cfg, nil
}

// Validate rejects settings that cannot drive a release.
func Validate(cfg Project) error {
	if strings.TrimSpace(cfg.VersionFile) == "" {
		return fmt.Errorf("release config missing version_file")
	}
	if cfg.CoverageThreshold < 0 || cfg.CoverageThreshold > 100 {
		return fmt.Errorf("coverage_threshold must be within 0-100, got %v", cfg.CoverageThreshold)
	}
	if strings.TrimSpace(cfg.Remote) == "" {
		return fmt.Errorf("release config missing git remote")
	}
	if strings.TrimSpace(cfg.Branch) == "" {
		return fmt.Errorf("release config missing git branch")
	}
	return nil
}

// Template is the commented release.toml written by `shipr init`.
const Template = `# shipr release configuration

[project]
version_file = "setup.py"
artifact_dir = "dist"
clean_dirs = ["dist", "build"]

[commands]
test = "pytest --cov --cov-report=term"
build = "python setup.py sdist bdist_wheel"
publish = "twine upload"

[gate]
coverage_threshold = 90.0
skip_tests = false

[git]
remote = "origin"
branch = "main"
# user_name and user_email are applied to the git config before committing
# when both are present.
# user_name = ""
# user_email = ""
`

// WriteTemplate writes the default release.toml to path. It refuses to
// overwrite an existing file.
func WriteTemplate(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	return os.WriteFile(path, []byte(Template), 0o644)
}
