package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is what a token says about its bearer.
type Claims struct {
	UserID   string
	Username string
	Role     Role
	SchoolID *int64
}

// TokenIssuer signs and checks HS256 tokens with a fixed secret and TTL.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) (*TokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("JWT_SECRET not set")
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}, nil
}

func (t *TokenIssuer) GenerateToken(user *User) (string, error) {
	if user.ID == "" {
		return "", errors.New("empty userID passed to GenerateToken")
	}

	claims := jwt.MapClaims{
		"userID":   user.ID,
		"username": user.Username,
		"role":     string(user.Role),
		"exp":      time.Now().Add(t.ttl).Unix(),
	}
	if user.SchoolID != nil {
		claims["schoolID"] = *user.SchoolID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

func (t *TokenIssuer) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(tok *jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	claims.UserID, _ = mc["userID"].(string)
	claims.Username, _ = mc["username"].(string)
	role, _ := mc["role"].(string)
	claims.Role = Role(role)

	// JSON numbers decode as float64
	if sid, ok := mc["schoolID"].(float64); ok {
		id := int64(sid)
		claims.SchoolID = &id
	}

	if claims.UserID == "" || claims.Role == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
