package api

import "testing"

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	token, err := IssueToken(secret, "user-42")
	if err != nil {
		t.Fatalf("IssueToken returned error: %v", err)
	}

	subject, err := VerifyToken(secret, token)
	if err != nil {
		t.Fatalf("VerifyToken returned error: %v", err)
	}
	if subject != "user-42" {
		t.Errorf("expected subject 'user-42', got %q", subject)
	}
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	token, err := IssueToken([]byte("secret-a"), "user-42")
	if err != nil {
		t.Fatalf("IssueToken returned error: %v", err)
	}

	if _, err := VerifyToken([]byte("secret-b"), token); err == nil {
		t.Error("expected error for token signed with a different secret")
	}
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	if _, err := VerifyToken([]byte("secret"), "not.a.token"); err == nil {
		t.Error("expected error for malformed token")
	}
}
