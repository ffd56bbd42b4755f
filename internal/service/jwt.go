package service

import (
	"errors"
	"time"

	"github.com/devworkshop/usersvc/internal/model"
	"github.com/golang-jwt/jwt/v5"
)

type JWTService struct {
	secretKey  string
	expiration time.Duration
}

func NewJWTService(secretKey string, expiration time.Duration) *JWTService {
	return &JWTService{
		secretKey:  secretKey,
		expiration: expiration,
	}
}

// GenerateToken creates a signed HS256 token for the user.
func (s *JWTService) GenerateToken(user *model.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": user.UserID,
		"email":   user.Email,
		"role_id": user.RoleID,
		"exp":     now.Add(s.expiration).Unix(),
		"iat":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.secretKey))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Expiration returns the configured token lifetime.
func (s *JWTService) Expiration() time.Duration {
	return s.expiration
}

// ValidateToken validates the JWT token and returns the claims
func (s *JWTService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.secretKey), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
