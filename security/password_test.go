package security

import "testing"

func TestHashPasswordAndVerify(t *testing.T) {
	password := "guard-post-password"
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if hash == password {
		t.Fatalf("expected hash to differ from password")
	}
	if !VerifyPassword(password, hash) {
		t.Fatalf("expected password verification to succeed")
	}
	if VerifyPassword("wrong-password", hash) {
		t.Fatalf("expected wrong password verification to fail")
	}
}
