package crypto

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func newTestHasher(t *testing.T, algorithm string) *Hasher {
	t.Helper()
	h, err := NewHasher(algorithm, WithBcryptCost(bcrypt.MinCost))
	if err != nil {
		t.Fatalf("NewHasher(%q) unexpected error: %v", algorithm, err)
	}
	return h
}

func TestNewHasher(t *testing.T) {
	tests := []struct {
		name      string
		algorithm string
		want      string
		wantErr   bool
	}{
		{name: "default", algorithm: "", want: AlgorithmArgon2id},
		{name: "argon2id", algorithm: AlgorithmArgon2id, want: AlgorithmArgon2id},
		{name: "bcrypt", algorithm: AlgorithmBcrypt, want: AlgorithmBcrypt},
		{name: "unknown", algorithm: "md5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := NewHasher(tt.algorithm)
			if tt.wantErr {
				if err == nil {
					t.Fatal("NewHasher() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewHasher() unexpected error: %v", err)
			}
			if h.Algorithm() != tt.want {
				t.Errorf("Algorithm() = %q, want %q", h.Algorithm(), tt.want)
			}
		})
	}
}

func TestHashArgon2idFormat(t *testing.T) {
	h := newTestHasher(t, AlgorithmArgon2id)

	hash, err := h.Hash("correct-horse-battery-staple")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		t.Fatalf("Hash() expected 6 parts, got %d: %q", len(parts), hash)
	}
	if parts[1] != "argon2id" {
		t.Errorf("Hash() algorithm = %q, want %q", parts[1], "argon2id")
	}
	if parts[2] != "v=19" {
		t.Errorf("Hash() version = %q, want %q", parts[2], "v=19")
	}
	if parts[3] != "m=65536,t=3,p=2" {
		t.Errorf("Hash() params = %q, want %q", parts[3], "m=65536,t=3,p=2")
	}
}

func TestVerify(t *testing.T) {
	for _, algorithm := range []string{AlgorithmArgon2id, AlgorithmBcrypt} {
		t.Run(algorithm, func(t *testing.T) {
			h := newTestHasher(t, algorithm)

			hash, err := h.Hash("my-secure-password")
			if err != nil {
				t.Fatalf("Hash() unexpected error: %v", err)
			}

			match, err := h.Verify("my-secure-password", hash)
			if err != nil {
				t.Fatalf("Verify() unexpected error: %v", err)
			}
			if !match {
				t.Error("Verify() returned false for correct password")
			}

			match, err = h.Verify("wrong-password", hash)
			if err != nil {
				t.Fatalf("Verify() unexpected error: %v", err)
			}
			if match {
				t.Error("Verify() returned true for wrong password")
			}
		})
	}
}

func TestVerifyAcrossAlgorithms(t *testing.T) {
	legacy := newTestHasher(t, AlgorithmBcrypt)
	current := newTestHasher(t, AlgorithmArgon2id)

	hash, err := legacy.Hash("tina_secret")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	match, err := current.Verify("tina_secret", hash)
	if err != nil {
		t.Fatalf("Verify() unexpected error: %v", err)
	}
	if !match {
		t.Error("argon2id hasher should verify bcrypt hashes")
	}
	if !current.NeedsRehash(hash) {
		t.Error("bcrypt hash should need rehash under argon2id hasher")
	}
}

func TestBcryptLongPassword(t *testing.T) {
	h := newTestHasher(t, AlgorithmBcrypt)
	long := strings.Repeat("p", 80)

	hash, err := h.Hash(long)
	if err != nil {
		t.Fatalf("Hash() unexpected error for %d-byte password: %v", len(long), err)
	}

	tests := []struct {
		password string
		want     bool
	}{
		{password: long, want: true},
		{password: long[:72], want: false},
		{password: long + "x", want: false},
		{password: strings.Repeat("p", 79) + "q", want: false},
	}
	for _, tt := range tests {
		got, err := h.Verify(tt.password, hash)
		if err != nil {
			t.Fatalf("Verify() unexpected error: %v", err)
		}
		if got != tt.want {
			t.Errorf("Verify(%d bytes) = %v, want %v", len(tt.password), got, tt.want)
		}
	}
}

func TestNeedsRehash(t *testing.T) {
	h := newTestHasher(t, AlgorithmArgon2id)

	hash, err := h.Hash("password")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}
	if h.NeedsRehash(hash) {
		t.Error("fresh hash should not need rehash")
	}

	weaker := "$argon2id$v=19$m=4096,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaGhhc2hoYXNoaGFzaGhhc2g"
	if !h.NeedsRehash(weaker) {
		t.Error("hash with weaker params should need rehash")
	}
}

func TestHashProducesDifferentHashes(t *testing.T) {
	h := newTestHasher(t, AlgorithmArgon2id)

	hash1, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}
	hash2, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	if hash1 == hash2 {
		t.Error("Hash() produced identical hashes for same password (salt should differ)")
	}
}

func TestEmptyPasswordIsUnusable(t *testing.T) {
	h := newTestHasher(t, AlgorithmArgon2id)

	hash, err := h.Hash("")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}
	if IsUsable(hash) {
		t.Errorf("Hash(\"\") = %q, want unusable", hash)
	}

	match, err := h.Verify("", hash)
	if err != nil {
		t.Fatalf("Verify() unexpected error: %v", err)
	}
	if match {
		t.Error("Verify() matched an unusable password")
	}
	if h.NeedsRehash(hash) {
		t.Error("unusable password should never need rehash")
	}
}

func TestVerifyInvalidHash(t *testing.T) {
	h := newTestHasher(t, AlgorithmArgon2id)

	if _, err := h.Verify("password", "invalid-hash-format"); err == nil {
		t.Error("Verify() expected error for invalid hash format")
	}
	if _, err := h.Verify("password", "$argon2id$v=18$m=1,t=1,p=1$AA$AA"); err != ErrIncompatibleVersion {
		t.Errorf("Verify() error = %v, want %v", err, ErrIncompatibleVersion)
	}
}
