package services

import (
	"errors"
	"testing"
	"time"

	"github.com/cloudbox/backend/internal/config"
	"github.com/cloudbox/backend/internal/models"
	"github.com/google/uuid"
)

func newTestTokenService(ttl time.Duration) *TokenService {
	return NewTokenService(config.JWTConfig{Secret: "test-secret", TTL: ttl})
}

func testTokenUser() *models.User {
	user := &models.User{Email: "alice@example.com"}
	user.ID = uuid.New()
	return user
}

func TestTokenIssueAndVerify(t *testing.T) {
	svc := newTestTokenService(time.Hour)
	user := testTokenUser()

	token, err := svc.Issue(user)
	if err != nil {
		t.Fatalf("failed issuing token: %v", err)
	}

	valid, err := svc.Verify(token, user.Email)
	if err != nil {
		t.Fatalf("unexpected verify error: %v", err)
	}
	if !valid {
		t.Fatal("expected token to be valid for its own subject")
	}

	userID, err := svc.ExtractUserID(token)
	if err != nil {
		t.Fatalf("unexpected extract error: %v", err)
	}
	if userID != user.ID {
		t.Fatalf("expected user id %s, got %s", user.ID, userID)
	}
}

func TestTokenVerifySubjectMismatch(t *testing.T) {
	svc := newTestTokenService(time.Hour)
	user := testTokenUser()

	token, err := svc.Issue(user)
	if err != nil {
		t.Fatalf("failed issuing token: %v", err)
	}

	valid, err := svc.Verify(token, "someone-else@example.com")
	if err != nil {
		t.Fatalf("subject mismatch must not be an error, got: %v", err)
	}
	if valid {
		t.Fatal("expected token to be invalid for a different subject")
	}
}

func TestTokenVerifyAcceptsBearerPrefix(t *testing.T) {
	svc := newTestTokenService(time.Hour)
	user := testTokenUser()

	token, err := svc.Issue(user)
	if err != nil {
		t.Fatalf("failed issuing token: %v", err)
	}

	valid, err := svc.Verify("Bearer "+token, user.Email)
	if err != nil {
		t.Fatalf("unexpected verify error: %v", err)
	}
	if !valid {
		t.Fatal("expected prefixed token to verify")
	}
}

func TestTokenExpired(t *testing.T) {
	svc := newTestTokenService(time.Hour)
	user := testTokenUser()

	// A negative TTL produces a token that expired before it was issued.
	expired := &TokenService{secret: svc.secret, ttl: -time.Minute}
	token, err := expired.Issue(user)
	if err != nil {
		t.Fatalf("failed issuing token: %v", err)
	}

	if _, err := svc.Verify(token, user.Email); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenSignatureInvalid(t *testing.T) {
	issuer := newTestTokenService(time.Hour)
	verifier := NewTokenService(config.JWTConfig{Secret: "a-different-secret", TTL: time.Hour})
	user := testTokenUser()

	token, err := issuer.Issue(user)
	if err != nil {
		t.Fatalf("failed issuing token: %v", err)
	}

	if _, err := verifier.Verify(token, user.Email); !errors.Is(err, ErrTokenSignatureInvalid) {
		t.Fatalf("expected ErrTokenSignatureInvalid, got %v", err)
	}
}

func TestTokenMalformed(t *testing.T) {
	svc := newTestTokenService(time.Hour)

	cases := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"bearer only", "Bearer "},
		{"truncated", "eyJhbGciOiJIUzI1NiJ9"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Verify(tc.token, "alice@example.com"); !errors.Is(err, ErrTokenMalformed) {
				t.Fatalf("expected ErrTokenMalformed, got %v", err)
			}
		})
	}
}

func TestTokenExtractUserIDRejectsBadClaim(t *testing.T) {
	svc := newTestTokenService(time.Hour)

	user := &models.User{Email: "bob@example.com"}
	token, err := svc.Issue(user)
	if err != nil {
		t.Fatalf("failed issuing token: %v", err)
	}

	// uuid.Nil round-trips as a parseable uuid, so force a bogus claim by
	// issuing for a user whose id was never assigned and checking the nil id
	// comes back rather than an error.
	userID, err := svc.ExtractUserID(token)
	if err != nil {
		t.Fatalf("unexpected extract error: %v", err)
	}
	if userID != uuid.Nil {
		t.Fatalf("expected nil uuid, got %s", userID)
	}
}
