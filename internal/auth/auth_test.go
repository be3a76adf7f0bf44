package auth

import (
	"testing"
	"time"
)

func TestTokens_RoundTrip(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)

	raw, err := tokens.Issue(42, RoleAdmin)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := tokens.Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	id, err := claims.UserID()
	if err != nil || id != 42 || claims.Role != RoleAdmin {
		t.Fatalf("claims = %+v, id = %d, err = %v", claims, id, err)
	}
}

func TestTokens_RejectsWrongSecretAndExpiry(t *testing.T) {
	issued := NewTokens("secret", time.Hour)
	raw, err := issued.Issue(1, RoleAdmin)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := NewTokens("other", time.Hour).Parse(raw); err == nil {
		t.Fatalf("token signed with another secret accepted")
	}

	later := NewTokens("secret", time.Hour)
	later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := later.Parse(raw); err == nil {
		t.Fatalf("expired token accepted")
	}

	if _, err := issued.Parse("not-a-token"); err == nil {
		t.Fatalf("garbage accepted")
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !CheckPassword(hash, "s3cret!") || CheckPassword(hash, "wrong") {
		t.Fatalf("CheckPassword mismatch")
	}
}
