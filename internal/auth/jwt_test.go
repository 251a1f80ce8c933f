package auth

import (
	"strings"
	"testing"
)

func TestGenerateAndValidateToken(t *testing.T) {
	secret := "test-secret"

	token, err := GenerateToken(secret, 42, "user@example.com")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ValidateToken(secret, token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("expected user ID 42, got %d", claims.UserID)
	}
	if claims.Email != "user@example.com" {
		t.Errorf("expected email, got %q", claims.Email)
	}
	if claims.ID == "" {
		t.Error("expected a non-empty JTI")
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("secret-a", 1, "a@example.com")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := ValidateToken("secret-b", token); err == nil {
		t.Error("expected validation to fail with wrong secret")
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	if _, err := ValidateToken("secret", "not.a.token"); err == nil {
		t.Error("expected validation to fail for garbage input")
	}
}

func TestTokensHaveUniqueJTIs(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		token, err := GenerateToken("secret", 1, "a@example.com")
		if err != nil {
			t.Fatalf("GenerateToken: %v", err)
		}
		claims, err := ValidateToken("secret", token)
		if err != nil {
			t.Fatalf("ValidateToken: %v", err)
		}
		if seen[claims.ID] {
			t.Fatalf("duplicate JTI %q", claims.ID)
		}
		if strings.TrimSpace(claims.ID) == "" {
			t.Fatal("blank JTI")
		}
		seen[claims.ID] = true
	}
}
