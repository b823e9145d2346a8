package config

import (
	"os"
	"path/filepath"
)

// Environment overrides for the data directory and journal location.
const (
	EnvShiprHome = "SHIPR_HOME"
	EnvShiprDB   = "SHIPR_DB"
)

// DataDir returns the directory used to store shipr data.
func DataDir() (string, error) {
	if d := os.Getenv(EnvShiprHome); d != "" {
		return d, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	// Use a dot-directory in the user's home on all platforms
	return filepath.Join(home, ".shipr"), nil
}

// EnsureDataDir creates the data directory if needed and returns its path.
func EnsureDataDir() (string, error) {
	d, err := DataDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(d, 0o755); err != nil {
		return "", err
	}
	return d, nil
}

// DBPath returns the full path to the SQLite release journal.
func DBPath() (string, error) {
	if p := os.Getenv(EnvShiprDB); p != "" {
		return p, nil
	}
	d, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "shipr.db"), nil
}
