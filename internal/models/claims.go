package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the session token payload: {id, role, permissions, iat, exp}.
// Role and Permissions are a snapshot taken when the token was issued.
type Claims struct {
	ID          string     `json:"id"`
	Role        Role       `json:"role"`
	Permissions Permission `json:"permissions"`
	jwt.RegisteredClaims
}
