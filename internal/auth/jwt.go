package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// adminSubject is the only identity these tokens carry: the restaurant owner
// reading the analytics endpoints.
const adminSubject = "owner"

func GenerateAdminJWT(secret string) (string, error) {
	claims := jwt.MapClaims{
		"sub": adminSubject,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour * 24).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ValidateAdminJWT(secret, tokenString string) error {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		if sub, _ := claims["sub"].(string); sub == adminSubject {
			return nil
		}
	}

	return fmt.Errorf("invalid token")
}
