package token

import (
	"errors"
	"testing"
	"time"
)

var secret = []byte("0123456789abcdef")

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := GenerateAccessToken(42, secret, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	id, err := VerifyToken(tok, secret)
	if err != nil {
		t.Fatal(err)
	}
	if id != 42 {
		t.Fatalf("id=%d", id)
	}
}

func TestAccessTokenRejects(t *testing.T) {
	expired, err := GenerateAccessToken(1, secret, -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := VerifyToken(expired, secret); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired: %v", err)
	}

	tok, _ := GenerateAccessToken(1, secret, time.Minute)
	if _, err := VerifyToken(tok, []byte("another-secret-key")); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("wrong key: %v", err)
	}
	if _, err := VerifyToken("garbage", secret); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("garbage: %v", err)
	}
}

func TestRefreshToken(t *testing.T) {
	a, err := GenerateRefreshToken()
	if err != nil {
		t.Fatal(err)
	}
	b, _ := GenerateRefreshToken()
	if a == b {
		t.Fatal("tokens repeat")
	}
	h := HashRefreshToken(a)
	if !VerifyRefreshToken(a, h) {
		t.Fatal("token does not match its hash")
	}
	if VerifyRefreshToken(b, h) {
		t.Fatal("foreign token accepted")
	}
}
