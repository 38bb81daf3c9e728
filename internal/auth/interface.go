package auth

import "tgdrive/internal/domain/models"

// JWTVerifier verifies operator tokens for the ops API.
type JWTVerifier interface {
	// VerifyToken validates a token string and returns its claims.
	// Invalid, expired or non-operator tokens yield domain.ErrUnauthorized.
	VerifyToken(tokenString string) (*models.OperatorClaims, error)

	// Close releases resources held by the verifier.
	Close() error
}
