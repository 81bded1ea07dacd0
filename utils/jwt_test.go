package utils

import (
	"os"
	"testing"
	"time"

	"github.com/kovaikural/kural/models"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret-for-jwt")
	os.Exit(m.Run())
}

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken(42, "alice", models.RolePublic, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("user id = %d, want 42", claims.UserID)
	}
	if claims.Handle != "alice" {
		t.Errorf("handle = %q, want alice", claims.Handle)
	}
	if claims.Role != models.RolePublic {
		t.Errorf("role = %q, want %q", claims.Role, models.RolePublic)
	}
}

func TestParseExpiredToken(t *testing.T) {
	token, err := GenerateToken(42, "alice", models.RolePublic, -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ParseToken(token); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestParseGarbageToken(t *testing.T) {
	if _, err := ParseToken("not.a.token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}
