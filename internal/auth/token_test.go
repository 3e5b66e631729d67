package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-key-32bytes-long!!"

func newTestTokenService() *TokenService {
	return NewTokenService([]byte(testSecret), 15*time.Minute)
}

func TestIssueAndValidateAccessToken(t *testing.T) {
	ts := newTestTokenService()

	token, err := ts.IssueAccessToken("ops")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	claims, err := ts.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	if claims.Subject != "ops" {
		t.Errorf("Subject = %q, want ops", claims.Subject)
	}
	if claims.Role != RoleAdmin {
		t.Errorf("Role = %q, want %q", claims.Role, RoleAdmin)
	}
	if claims.Issuer != "hostpanel" {
		t.Errorf("Issuer = %q, want hostpanel", claims.Issuer)
	}
	if claims.ID == "" {
		t.Error("expected a token ID")
	}
}

func TestIssueAccessToken_EmptySubject(t *testing.T) {
	if _, err := newTestTokenService().IssueAccessToken(""); err == nil {
		t.Error("expected error for empty subject")
	}
}

func TestValidateAccessToken_Rejections(t *testing.T) {
	good := newTestTokenService()

	expired, err := NewTokenService([]byte(testSecret), -time.Second).IssueAccessToken("ops")
	if err != nil {
		t.Fatalf("issue expired: %v", err)
	}
	otherSecret, err := NewTokenService([]byte("secret-two-is-32-bytes-long!!!!"), time.Minute).IssueAccessToken("ops")
	if err != nil {
		t.Fatalf("issue other: %v", err)
	}
	wrongRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "viewer",
			Issuer:    "hostpanel",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
		Role: "viewer",
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign wrong role: %v", err)
	}
	wrongIssuer, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "ops",
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
		Role: RoleAdmin,
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign wrong issuer: %v", err)
	}

	tests := map[string]string{
		"expired":      expired,
		"wrong secret": otherSecret,
		"wrong role":   wrongRole,
		"wrong issuer": wrongIssuer,
		"garbage":      "not.a.jwt",
		"empty":        "",
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := good.ValidateAccessToken(token); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidateAccessToken_RejectsNoneAlg(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "hostpanel"},
		Role:             RoleAdmin,
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	_, err = newTestTokenService().ValidateAccessToken(token)
	if err == nil || !strings.Contains(err.Error(), "parse token") {
		t.Errorf("err = %v, want parse error", err)
	}
}
