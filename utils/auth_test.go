package utils

import "testing"

func TestJWTRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret")

	token, err := GenerateJWTToken("user-123", "alice@example.com")
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	claims, err := ParseJWTToken(token)
	if err != nil {
		t.Fatalf("Failed to parse token: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Errorf("Expected user id user-123, got %s", claims.UserID)
	}
	if claims.Email != "alice@example.com" {
		t.Errorf("Expected email to round-trip, got %s", claims.Email)
	}
}

func TestParseJWTRejectsGarbage(t *testing.T) {
	SetJWTSecret("test-secret")

	if _, err := ParseJWTToken("not-a-token"); err == nil {
		t.Error("Expected error for malformed token")
	}
}

func TestExtractNameFromEmail(t *testing.T) {
	if name := ExtractNameFromEmail("bob@example.com"); name != "bob" {
		t.Errorf("Expected bob, got %s", name)
	}
	if name := ExtractNameFromEmail("no-at-sign"); name != "no-at-sign" {
		t.Errorf("Expected passthrough for invalid email, got %s", name)
	}
}
