package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldWD) })
}

func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	oldOut := os.Stdout
	rOut, wOut, _ := os.Pipe()
	os.Stdout = wOut

	runErr := fn()

	wOut.Close()
	var buf bytes.Buffer
	_, _ = io.Copy(&buf, rOut)
	os.Stdout = oldOut
	return buf.String(), runErr
}

func TestBumpCLI(t *testing.T) {
	tmp := t.TempDir()
	setup := filepath.Join(tmp, "setup.py")
	if err := os.WriteFile(setup, []byte("setup(\n    name='demo',\n    version='1.2.3',\n)\n"), 0o644); err != nil {
		t.Fatalf("write setup.py: %v", err)
	}
	chdir(t, tmp)

	out, err := captureStdout(t, func() error {
		rootCmd.SetArgs([]string{"bump", "1.2.4"})
		return rootCmd.Execute()
	})
	if err != nil {
		t.Fatalf("bump command failed: %v", err)
	}
	if !bytes.Contains([]byte(out), []byte("1.2.3 -> 1.2.4")) {
		t.Fatalf("expected bump message, got: %s", out)
	}

	data, err := os.ReadFile(setup)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !bytes.Contains(data, []byte("version='1.2.4'")) {
		t.Fatalf("version not rewritten:\n%s", data)
	}
}

func TestBumpCLIMissingVersionLine(t *testing.T) {
	tmp := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmp, "setup.py"), []byte("setup(name='demo')\n"), 0o644); err != nil {
		t.Fatalf("write setup.py: %v", err)
	}
	chdir(t, tmp)

	_, err := captureStdout(t, func() error {
		rootCmd.SetArgs([]string{"bump", "2.0.0"})
		return rootCmd.Execute()
	})
	if err == nil {
		t.Fatalf("expected error when no version line exists")
	}
}

func TestInitCLIWritesTemplate(t *testing.T) {
	tmp := t.TempDir()
	chdir(t, tmp)

	out, err := captureStdout(t, func() error {
		rootCmd.SetArgs([]string{"init"})
		return rootCmd.Execute()
	})
	if err != nil {
		t.Fatalf("init command failed: %v", err)
	}
	if !bytes.Contains([]byte(out), []byte("wrote release.toml")) {
		t.Fatalf("expected init message, got: %s", out)
	}

	data, err := os.ReadFile(filepath.Join(tmp, "release.toml"))
	if err != nil {
		t.Fatalf("release.toml not written: %v", err)
	}
	if !bytes.Contains(data, []byte("coverage_threshold")) {
		t.Fatalf("template content missing:\n%s", data)
	}

	// A second init must refuse to overwrite.
	_, err = captureStdout(t, func() error {
		rootCmd.SetArgs([]string{"init"})
		return rootCmd.Execute()
	})
	if err == nil {
		t.Fatalf("expected error when release.toml already exists")
	}
}

func TestVersionCLI(t *testing.T) {
	out, err := captureStdout(t, func() error {
		rootCmd.SetArgs([]string{"version"})
		return rootCmd.Execute()
	})
	if err != nil {
		t.Fatalf("version command failed: %v", err)
	}
	if !bytes.Contains([]byte(out), []byte("shipr ")) {
		t.Fatalf("expected version output, got: %s", out)
	}
}
