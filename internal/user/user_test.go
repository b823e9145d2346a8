package user

import "testing"

func TestProfileRoundTrip(t *testing.T) {
	t.Setenv("SHIPR_HOME", t.TempDir())

	if _, ok, err := GetProfile(); err != nil || ok {
		t.Fatalf("expected no profile initially (ok=%v err=%v)", ok, err)
	}

	if err := SetProfile(Profile{Name: "Release Bot", Email: "bot@example.com"}); err != nil {
		t.Fatalf("set profile: %v", err)
	}

	p, ok, err := GetProfile()
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if !ok {
		t.Fatalf("expected a stored profile")
	}
	if p.Name != "Release Bot" || p.Email != "bot@example.com" {
		t.Fatalf("unexpected profile: %+v", p)
	}

	if err := ClearProfile(); err != nil {
		t.Fatalf("clear profile: %v", err)
	}
	if _, ok, _ := GetProfile(); ok {
		t.Fatalf("profile should be gone after clear")
	}
}

func TestClearProfileIdempotent(t *testing.T) {
	t.Setenv("SHIPR_HOME", t.TempDir())
	if err := ClearProfile(); err != nil {
		t.Fatalf("clearing a missing profile should be a no-op: %v", err)
	}
}
