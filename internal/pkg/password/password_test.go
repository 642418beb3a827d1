package password

import "testing"

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("secret-password")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if hash == "secret-password" {
		t.Fatal("hash must not equal the plain password")
	}

	if !Verify("secret-password", hash) {
		t.Error("Verify should accept the correct password")
	}
	if Verify("wrong-password", hash) {
		t.Error("Verify should reject a wrong password")
	}
}

func TestHashToken(t *testing.T) {
	a := HashToken("token-a")
	b := HashToken("token-b")

	if a == b {
		t.Error("different tokens must hash differently")
	}
	if a != HashToken("token-a") {
		t.Error("hashing must be deterministic")
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex characters, got %d", len(a))
	}
}
