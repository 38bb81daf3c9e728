package auth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"tgdrive/internal/domain"
	"tgdrive/internal/domain/models"
)

func signedToken(t *testing.T, key *ecdsa.PrivateKey, claims *models.OperatorClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodES256, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestVerifyToken(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	other, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}

	v := newVerifier(func(*jwt.Token) (any, error) { return &key.PublicKey, nil },
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	claims := func(sub, role string, exp time.Duration) *models.OperatorClaims {
		return &models.OperatorClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   sub,
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(exp)),
			},
			Role: role,
		}
	}

	hmac, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims("op", models.OperatorRole, time.Hour)).SignedString([]byte("secret"))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		token   string
		wantSub string
	}{
		{name: "valid operator", token: signedToken(t, key, claims("op-1", models.OperatorRole, time.Hour)), wantSub: "op-1"},
		{name: "expired", token: signedToken(t, key, claims("op-1", models.OperatorRole, -time.Hour))},
		{name: "wrong role", token: signedToken(t, key, claims("op-1", "viewer", time.Hour))},
		{name: "no subject", token: signedToken(t, key, claims("", models.OperatorRole, time.Hour))},
		{name: "wrong key", token: signedToken(t, other, claims("op-1", models.OperatorRole, time.Hour))},
		{name: "hmac not allowed", token: hmac},
		{name: "garbage", token: "not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.VerifyToken(tt.token)
			if tt.wantSub == "" {
				if !errors.Is(err, domain.ErrUnauthorized) {
					t.Errorf("VerifyToken() error = %v, want ErrUnauthorized", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("VerifyToken() error = %v", err)
			}
			if got.GetOperatorID() != tt.wantSub {
				t.Errorf("subject = %q, want %q", got.GetOperatorID(), tt.wantSub)
			}
		})
	}
}
