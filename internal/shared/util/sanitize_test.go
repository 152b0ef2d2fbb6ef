package util

import "testing"

func TestSanitizeFileNameReplacesSeparators(t *testing.T) {
	got, err := SanitizeFileName("a/b\\c.txt")
	if err != nil {
		t.Fatalf("SanitizeFileName: %v", err)
	}
	if got != "a_b_c.txt" {
		t.Fatalf("unexpected name: %q", got)
	}
}

func TestSanitizeFileNameRejectsTraversal(t *testing.T) {
	if _, err := SanitizeFileName("../../etc/passwd"); err == nil {
		t.Fatal("expected error for traversal name")
	}
	if _, err := SanitizeFileName("   "); err == nil {
		t.Fatal("expected error for blank name")
	}
}

func TestHashUserKeyStable(t *testing.T) {
	a := HashUserKey("user-1")
	b := HashUserKey("user-1")
	if a != b {
		t.Fatalf("hash not stable: %q vs %q", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
}
