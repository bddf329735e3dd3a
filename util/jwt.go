package util

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Claims defines the structure of the JWT payload.
type Claims struct {
	MemberID uint   `json:"member_id"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateJWT creates a signed token for the given member.
func GenerateJWT(memberID uint, email string, jwtSecretKey []byte) (string, error) {
	expirationTime := time.Now().Add(24 * time.Hour)

	claims := &Claims{
		MemberID: memberID,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "hearthbutler",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecretKey)
}

// ValidateJWT verifies the token and returns the claims if valid.
func ValidateJWT(tokenString string, jwtSecretKey []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecretKey, nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrTokenInvalidClaims
}
