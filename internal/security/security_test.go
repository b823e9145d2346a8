package security

import "testing"

func TestCheckAllowed(t *testing.T) {
	cases := []struct {
		command string
		wantErr bool
	}{
		{"pytest --cov", false},
		{"python setup.py sdist bdist_wheel", false},
		{"twine upload", false},
		{"", true},
		{"rm -rf /", true},
		{"dd if=/dev/zero of=/dev/sda", true},
		{"mkfs.ext4 /dev/sda1", true},
	}
	for _, tc := range cases {
		err := CheckAllowed(tc.command)
		if tc.wantErr && err == nil {
			t.Fatalf("expected %q to be blocked", tc.command)
		}
		if !tc.wantErr && err != nil {
			t.Fatalf("expected %q to be allowed: %v", tc.command, err)
		}
	}
}

func TestCheckCleanPattern(t *testing.T) {
	cases := []struct {
		pattern string
		wantErr bool
	}{
		{"dist", false},
		{"build", false},
		{"*.egg-info", false},
		{"build/output", false},
		{"", true},
		{"/tmp", true},
		{"../sibling", true},
		{"dist/../../etc", true},
	}
	for _, tc := range cases {
		err := CheckCleanPattern(tc.pattern)
		if tc.wantErr && err == nil {
			t.Fatalf("expected pattern %q to be rejected", tc.pattern)
		}
		if !tc.wantErr && err != nil {
			t.Fatalf("expected pattern %q to be accepted: %v", tc.pattern, err)
		}
	}
}
