package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "secret123" {
		t.Fatal("Hash must not equal plaintext")
	}
	if !strings.HasPrefix(hash, "$2a$10$") {
		t.Errorf("Hash %q should use bcrypt cost 10", hash)
	}

	// 随机盐：相同明文产生不同哈希
	hash2, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == hash2 {
		t.Error("Two hashes of the same password should differ")
	}

	if !CheckPassword("secret123", hash) {
		t.Error("CheckPassword should accept correct password")
	}
	if CheckPassword("wrong", hash) {
		t.Error("CheckPassword should reject wrong password")
	}
}

func TestGenerateToken_NoExpiry(t *testing.T) {
	cfg := Config{JWTSecret: "test-secret"}

	token, err := GenerateToken(cfg, "u-001", "a@x.com", "member")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if token == "" {
		t.Fatal("Expected non-empty token")
	}

	claims, err := ParseToken(cfg, token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Subject != "u-001" {
		t.Errorf("Subject = %q, want u-001", claims.Subject)
	}
	if claims.Email != "a@x.com" {
		t.Errorf("Email = %q, want a@x.com", claims.Email)
	}
	if claims.Status != "member" {
		t.Errorf("Status = %q, want member", claims.Status)
	}
	// 默认不过期
	if claims.ExpiresAt != nil {
		t.Errorf("ExpiresAt = %v, want nil", claims.ExpiresAt)
	}
}

func TestGenerateToken_WithTTL(t *testing.T) {
	cfg := Config{JWTSecret: "test-secret", TokenTTL: time.Hour}

	token, err := GenerateToken(cfg, "u-001", "a@x.com", "member")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ParseToken(cfg, token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.ExpiresAt == nil {
		t.Fatal("Expected ExpiresAt to be set")
	}
	if remaining := time.Until(claims.ExpiresAt.Time); remaining < 59*time.Minute || remaining > time.Hour {
		t.Errorf("ExpiresAt %v not ~1h from now", claims.ExpiresAt.Time)
	}
}

func TestParseToken_Rejections(t *testing.T) {
	cfg := Config{JWTSecret: "test-secret"}

	t.Run("wrong secret", func(t *testing.T) {
		token, _ := GenerateToken(Config{JWTSecret: "other-secret"}, "u-001", "", "")
		if _, err := ParseToken(cfg, token); err == nil {
			t.Error("Expected error for token signed with wrong secret")
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		if _, err := ParseToken(cfg, "not.a.token"); err == nil {
			t.Error("Expected error for malformed token")
		}
	})

	t.Run("none algorithm", func(t *testing.T) {
		// alg=none 的令牌必须被拒绝
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "u-001"},
		})
		raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		if err != nil {
			t.Fatalf("sign none: %v", err)
		}
		if _, err := ParseToken(cfg, raw); err == nil {
			t.Error("Expected error for alg=none token")
		}
	})
}

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"a@x.com", true},
		{"first.last+tag@sub.example.co", true},
		{"UPPER@EXAMPLE.COM", true},
		{"", false},
		{"plainaddress", false},
		{"@no-local.com", false},
		{"no-domain@", false},
		{"a@b", false},
		{"spaces in@x.com", false},
	}

	for _, tt := range tests {
		if got := isValidEmail(tt.email); got != tt.want {
			t.Errorf("isValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}
