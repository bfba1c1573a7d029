package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// secretKey is set once at startup from config.
var secretKey []byte

func SetSecret(key string) {
	secretKey = []byte(key)
}

// Claims is the subset of the access token the back-office cares about.
type Claims struct {
	UserID string
	Email  string
	Role   string
}

type accessClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateJWT issues an HS256 access token.
func GenerateJWT(userID, email, role string, expiry time.Duration) (string, error) {
	if len(secretKey) == 0 {
		return "", errors.New("jwt secret not set")
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	})
	return token.SignedString(secretKey)
}

// ValidateJWT verifies signature and expiry and returns the claims.
func ValidateJWT(tokenString string) (*Claims, error) {
	var c accessClaims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secretKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return &Claims{UserID: c.Subject, Email: c.Email, Role: c.Role}, nil
}

// TokenFromRequest reads the bearer token from the Authorization header or the accessToken cookie.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if cookie, err := r.Cookie("accessToken"); err == nil {
		return cookie.Value
	}
	return ""
}

// ExtractClaims extracts JWT claims from the request header or cookie
func ExtractClaims(r *http.Request) (*Claims, error) {
	tokenString := TokenFromRequest(r)
	if tokenString == "" {
		return nil, errors.New("no token found")
	}
	return ValidateJWT(tokenString)
}
