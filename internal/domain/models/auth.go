package models

import "github.com/golang-jwt/jwt/v5"

// OperatorRole is the role claim required to use the ops API
const OperatorRole = "operator"

// OperatorClaims is the JWT claims structure accepted by the ops API.
type OperatorClaims struct {
	jwt.RegisteredClaims        // sub, iss, aud, exp, iat
	Email                string `json:"email"`
	Role                 string `json:"role"`
}

// GetOperatorID returns the subject claim
func (c *OperatorClaims) GetOperatorID() string {
	return c.Subject
}
