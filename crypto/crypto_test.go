package crypto

import (
	"strings"
	"testing"
)

func TestGenerateRandomStringHex(t *testing.T) {
	token, err := GenerateRandomString("st_", 32, "hex")
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	if !strings.HasPrefix(token, "st_") {
		t.Errorf("Expected st_ prefix, got %s", token)
	}

	// 32 random bytes hex-encode to 64 characters
	if len(token) != len("st_")+64 {
		t.Errorf("Expected length %d, got %d", len("st_")+64, len(token))
	}

	token2, err := GenerateRandomString("st_", 32, "hex")
	if err != nil {
		t.Fatalf("Failed to generate second token: %v", err)
	}
	if token == token2 {
		t.Error("Expected distinct tokens from consecutive calls")
	}
}

func TestGenerateRandomStringUnsupportedEncoding(t *testing.T) {
	_, err := GenerateRandomString("", 16, "rot13")
	if err == nil {
		t.Error("Expected error for unsupported encoding")
	}
}

func TestCredentialHashRoundTrip(t *testing.T) {
	c := NewCrypto()

	hash, err := c.HashCredential("1234")
	if err != nil {
		t.Fatalf("Failed to hash credential: %v", err)
	}
	if hash == "1234" {
		t.Error("Hash must not equal the credential")
	}

	if err := c.VerifyCredential("1234", hash); err != nil {
		t.Errorf("Expected correct credential to verify, got %v", err)
	}
	if err := c.VerifyCredential("4321", hash); err == nil {
		t.Error("Expected wrong credential to fail verification")
	}
}

func TestCredentialHashesDiffer(t *testing.T) {
	c := NewCrypto()

	hash1, err := c.HashCredential("123456")
	if err != nil {
		t.Fatalf("Failed to hash credential: %v", err)
	}
	hash2, err := c.HashCredential("123456")
	if err != nil {
		t.Fatalf("Failed to hash credential: %v", err)
	}
	if hash1 == hash2 {
		t.Error("Expected salted hashes to differ for the same credential")
	}
}
