package config

import "testing"

func TestNewJWTConfig(t *testing.T) {
	t.Run("requires secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		if _, err := NewJWTConfig(); err == nil {
			t.Error("expected error when JWT_SECRET unset")
		}
	})

	t.Run("defaults expiration to 24h", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")
		t.Setenv("JWT_EXPIRATION_HOURS", "")
		cfg, err := NewJWTConfig()
		if err != nil {
			t.Fatalf("NewJWTConfig() error = %v", err)
		}
		if cfg.ExpirationHours != 24 {
			t.Errorf("ExpirationHours = %d, want 24", cfg.ExpirationHours)
		}
	})

	t.Run("rejects invalid expiration", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")
		for _, raw := range []string{"abc", "0", "-5"} {
			t.Setenv("JWT_EXPIRATION_HOURS", raw)
			if _, err := NewJWTConfig(); err == nil {
				t.Errorf("expected error for JWT_EXPIRATION_HOURS=%q", raw)
			}
		}
	})
}

func TestNewPasswordConfig(t *testing.T) {
	t.Run("defaults cost to 12", func(t *testing.T) {
		t.Setenv("BCRYPT_COST", "")
		cfg, err := NewPasswordConfig()
		if err != nil {
			t.Fatalf("NewPasswordConfig() error = %v", err)
		}
		if cfg.BcryptCost != 12 {
			t.Errorf("BcryptCost = %d, want 12", cfg.BcryptCost)
		}
	})

	t.Run("rejects out-of-range cost", func(t *testing.T) {
		for _, raw := range []string{"9", "15", "abc"} {
			t.Setenv("BCRYPT_COST", raw)
			if _, err := NewPasswordConfig(); err == nil {
				t.Errorf("expected error for BCRYPT_COST=%q", raw)
			}
		}
	})
}

func TestPasswordHashRoundTrip(t *testing.T) {
	cfg := &PasswordConfig{BcryptCost: 10} // minimum cost keeps the test fast

	hash, err := cfg.HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash equals plaintext")
	}

	if !cfg.VerifyPassword("correct horse battery staple", hash) {
		t.Error("correct password rejected")
	}
	if cfg.VerifyPassword("wrong password", hash) {
		t.Error("wrong password accepted")
	}
	if cfg.VerifyPassword("correct horse battery staple", "not-a-hash") {
		t.Error("malformed hash accepted")
	}
}
