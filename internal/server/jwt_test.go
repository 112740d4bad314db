package server

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jonathan/req-consultant/internal/config"
)

func testJWTService() *JWTService {
	return NewJWTService(&config.JWTConfig{
		Secret:          "test-secret-for-jwt-tests",
		ExpirationHours: 1,
	})
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := testJWTService()
	clientID := uuid.New()

	token, err := svc.GenerateToken(clientID)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Fatalf("token does not look like a JWT: %q", token)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.ClientID != clientID {
		t.Errorf("ClientID = %s, want %s", claims.ClientID, clientID)
	}
	if claims.GetClientID() != clientID {
		t.Error("GetClientID() does not match claims")
	}
}

func TestJWTService_RejectsEmptyToken(t *testing.T) {
	if _, err := testJWTService().ValidateToken(""); err == nil {
		t.Error("expected error for empty token")
	}
}

func TestJWTService_RejectsWrongSecret(t *testing.T) {
	token, err := testJWTService().GenerateToken(uuid.New())
	if err != nil {
		t.Fatal(err)
	}

	other := NewJWTService(&config.JWTConfig{Secret: "different-secret", ExpirationHours: 1})
	if _, err := other.ValidateToken(token); err == nil {
		t.Error("token signed with another secret must be rejected")
	}
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	svc := testJWTService()

	// Sign an already-expired token with the service's secret
	claims := &Claims{
		ClientID: uuid.New(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret-for-jwt-tests"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.ValidateToken(signed); err == nil {
		t.Error("expired token must be rejected")
	}
}

func TestJWTService_RejectsMissingClientID(t *testing.T) {
	svc := testJWTService()

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret-for-jwt-tests"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.ValidateToken(signed); err == nil {
		t.Error("token without client ID must be rejected")
	}
}

func TestJWTService_AsTokenValidator(t *testing.T) {
	svc := testJWTService()
	clientID := uuid.New()

	token, err := svc.GenerateToken(clientID)
	if err != nil {
		t.Fatal(err)
	}

	getter, err := svc.AsTokenValidator().ValidateToken(token)
	if err != nil {
		t.Fatalf("adapter ValidateToken() error = %v", err)
	}
	if getter.GetClientID() != clientID {
		t.Error("adapter returned wrong client ID")
	}
}
