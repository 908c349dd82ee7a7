package crypto

import (
	"errors"
	"strings"
	"testing"
)

// fastParams keeps the tests quick; production uses DefaultHashParams.
func fastParams() HashParams {
	return HashParams{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
}

func TestHashPasswordFormat(t *testing.T) {
	hash, err := HashPassword("correct-horse-battery-staple")
	if err != nil {
		t.Fatalf("HashPassword() unexpected error: %v", err)
	}

	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		t.Fatalf("HashPassword() expected 6 parts, got %d: %q", len(parts), hash)
	}
	if parts[1] != "argon2id" {
		t.Errorf("HashPassword() algorithm = %q, want %q", parts[1], "argon2id")
	}
	if parts[3] != "m=65536,t=3,p=2" {
		t.Errorf("HashPassword() params = %q, want %q", parts[3], "m=65536,t=3,p=2")
	}
}

func TestPasswordHasherVerify(t *testing.T) {
	h := NewPasswordHasher(fastParams())

	hash, err := h.Hash("s3cret-pass")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"correct", "s3cret-pass", true},
		{"wrong", "s3cret-pasS", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := h.Verify(tt.password, hash)
			if err != nil {
				t.Fatalf("Verify() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Verify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVerifyUsesStoredParams(t *testing.T) {
	hash, err := NewPasswordHasher(fastParams()).Hash("pw")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	ok, err := VerifyPassword("pw", hash)
	if err != nil || !ok {
		t.Errorf("VerifyPassword() = %v, %v, want true, nil", ok, err)
	}
}

func TestHashProducesDifferentSalts(t *testing.T) {
	h := NewPasswordHasher(fastParams())
	a, _ := h.Hash("same")
	b, _ := h.Hash("same")
	if a == b {
		t.Error("Hash() produced identical hashes for the same password")
	}
}

func TestVerifyInvalidHash(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
		want    error
	}{
		{"garbage", "invalid-hash-format", ErrInvalidHashFormat},
		{"bcrypt", "$2a$10$abcdefghijklmnopqrstuv", ErrInvalidHashFormat},
		{"old version", "$argon2id$v=16$m=1024,t=1,p=1$c2FsdA$a2V5", ErrIncompatibleVersion},
		{"empty key", "$argon2id$v=19$m=1024,t=1,p=1$c2FsdA$", ErrInvalidHashFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := VerifyPassword("pw", tt.encoded)
			if !errors.Is(err, tt.want) {
				t.Errorf("VerifyPassword() error = %v, want %v", err, tt.want)
			}
		})
	}
}
