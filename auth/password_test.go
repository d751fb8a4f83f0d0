package auth

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	passwords := []string{"hunter2-but-longer", "correct horse battery staple", "päßwörd"}
	for _, pw := range passwords {
		stored, err := HashPassword(pw)
		if err != nil {
			t.Fatalf("HashPassword(%q): %v", pw, err)
		}
		if !strings.Contains(stored, ":") {
			t.Errorf("stored form %q missing salt separator", stored)
		}
		if !VerifyPassword(pw, stored) {
			t.Errorf("VerifyPassword failed for correct password %q", pw)
		}
		if VerifyPassword(pw+"x", stored) {
			t.Errorf("VerifyPassword accepted altered password for %q", pw)
		}
	}
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	a, err := HashPassword("same-password")
	if err != nil {
		t.Fatal(err)
	}
	b, err := HashPassword("same-password")
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("two hashes of the same password share a salt")
	}
}

func TestVerifyPasswordMalformed(t *testing.T) {
	for _, stored := range []string{"", "nosalt", "zz:zz", "abcd:", ":abcd"} {
		if VerifyPassword("anything", stored) {
			t.Errorf("VerifyPassword accepted malformed stored value %q", stored)
		}
	}
}

func TestNewTokenUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 64; i++ {
		tok, err := NewToken()
		if err != nil {
			t.Fatal(err)
		}
		if len(tok) != tokenBytes*2 {
			t.Fatalf("token length = %d, want %d", len(tok), tokenBytes*2)
		}
		if seen[tok] {
			t.Fatalf("duplicate token generated: %s", tok)
		}
		seen[tok] = true
	}
}
