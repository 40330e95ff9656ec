package service

import (
	"testing"
	"time"
)

func TestJWTRoundTrip(t *testing.T) {
	InitJWT("test-secret")

	token, err := GenerateJWT(42, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	userID, err := ParseJWT(token)
	if err != nil {
		t.Fatal(err)
	}
	if userID != 42 {
		t.Fatalf("user id = %d; want 42", userID)
	}
}

func TestJWTRejectsGarbage(t *testing.T) {
	InitJWT("test-secret")
	for _, tok := range []string{"", "not.a.token", "aaaa.bbbb.cccc"} {
		if _, err := ParseJWT(tok); err == nil {
			t.Errorf("ParseJWT(%q) accepted an invalid token", tok)
		}
	}
}

func TestJWTRejectsExpired(t *testing.T) {
	InitJWT("test-secret")
	token, err := GenerateJWT(1, -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseJWT(token); err == nil {
		t.Fatal("expired token must be rejected")
	}
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	InitJWT("secret-a")
	token, err := GenerateJWT(1, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	InitJWT("secret-b")
	if _, err := ParseJWT(token); err == nil {
		t.Fatal("token signed with another secret must be rejected")
	}
}

func TestJWTDisabledWithoutSecret(t *testing.T) {
	InitJWT("")
	if JWTEnabled() {
		t.Fatal("empty secret must disable JWT")
	}
	if _, err := GenerateJWT(1, time.Hour); err == nil {
		t.Fatal("generation must fail without a secret")
	}
}
