package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"agro-analytics/internal/domain"
)

func testUser() domain.User {
	return domain.User{ID: 12, Email: "asha@farm.io", Name: "Asha", FarmSize: 12}
}

func TestJWTService_IssueParse(t *testing.T) {
	svc := NewJWTService("secret", "", time.Hour, nil)

	issued, err := svc.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if issued.Token == "" {
		t.Fatalf("expected token")
	}

	claims, err := svc.ParseToken(issued.Token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 12 || claims.Email != "asha@farm.io" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Subject != "12" || claims.Issuer != defaultIssuer || claims.ID == "" {
		t.Fatalf("unexpected registered claims: %+v", claims.RegisteredClaims)
	}
	if !claims.ExpiresAt.Time.Equal(issued.ExpiresAt.Truncate(time.Second)) {
		t.Fatalf("expiry mismatch: %v vs %v", claims.ExpiresAt.Time, issued.ExpiresAt)
	}
}

func TestJWTService_UniqueJTI(t *testing.T) {
	svc := NewJWTService("secret", "", time.Hour, nil)
	a, _ := svc.Issue(testUser())
	b, _ := svc.Issue(testUser())
	ca, err := svc.ParseToken(a.Token)
	if err != nil {
		t.Fatalf("parse a: %v", err)
	}
	cb, err := svc.ParseToken(b.Token)
	if err != nil {
		t.Fatalf("parse b: %v", err)
	}
	if ca.ID == cb.ID {
		t.Fatalf("expected distinct jti")
	}
}

func TestJWTService_Expired(t *testing.T) {
	svc := NewJWTService("secret", "", time.Hour, nil)
	issued, err := svc.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	svc.now = func() time.Time { return time.Now().UTC().Add(2 * time.Hour) }
	if _, err := svc.ParseToken(issued.Token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestJWTService_RejectsForeignTokens(t *testing.T) {
	svc := NewJWTService("secret", "", time.Hour, nil)
	other := NewJWTService("other-secret", "", time.Hour, nil)
	foreign, err := other.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := svc.ParseToken(foreign.Token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for wrong signature, got %v", err)
	}

	otherIssuer := NewJWTService("secret", "someone-else", time.Hour, nil)
	wrongIssuer, _ := otherIssuer.Issue(testUser())
	if _, err := svc.ParseToken(wrongIssuer.Token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for wrong issuer, got %v", err)
	}

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 12})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if _, err := svc.ParseToken(unsigned); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for alg none, got %v", err)
	}

	if _, err := svc.ParseToken("  "); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for empty token, got %v", err)
	}
}

func TestJWTService_IssueRequiresUserAndSecret(t *testing.T) {
	if _, err := NewJWTService("", "", time.Hour, nil).Issue(testUser()); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid without secret, got %v", err)
	}
	if _, err := NewJWTService("secret", "", time.Hour, nil).Issue(domain.User{}); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid without user id, got %v", err)
	}
}

func TestJWTService_Revoke(t *testing.T) {
	svc := NewJWTService("secret", "", time.Hour, NewMemoryTokenRevocationStore())
	issued, _ := svc.Issue(testUser())
	claims, err := svc.ParseToken(issued.Token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if err := svc.Revoke(claims); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := svc.ParseToken(issued.Token); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked, got %v", err)
	}

	if err := svc.Revoke(Claims{}); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for empty claims, got %v", err)
	}
}
