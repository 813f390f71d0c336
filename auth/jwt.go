package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"activeflow/store"
)

const (
	TokenTTL = 24 * time.Hour

	userIDKey = "user_id"
	tokenKey  = "token"
)

var ErrInvalidToken = errors.New("invalid token")

// Tokens signs and validates HS256 tokens that carry a user_id claim.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: TokenTTL, now: time.Now}
}

// Generate returns a signed token and its expiry as a unix timestamp. Every
// call yields a distinct token, so each login owns its own session.
func (t *Tokens) Generate(userID string) (string, int64, error) {
	now := t.now()
	exp := now.Add(t.ttl).Unix()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"jti":     uuid.NewString(),
		"iat":     now.Unix(),
		"exp":     exp,
	})
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", 0, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Validate checks signature and expiry and returns the user id.
func (t *Tokens) Validate(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("%w: missing user_id", ErrInvalidToken)
	}
	return userID, nil
}

func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.Fields(c.GetHeader("Authorization"))
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// authenticate resolves the bearer token to a user id, consulting sessions
// when a store is configured.
func authenticate(c *gin.Context, tokens *Tokens, sessions store.SessionStore) (string, string, error) {
	raw, ok := bearerToken(c)
	if !ok {
		return "", "", errors.New("authorization header required")
	}
	userID, err := tokens.Validate(raw)
	if err != nil {
		return "", "", err
	}
	if sessions != nil {
		active, err := sessions.Exists(c.Request.Context(), raw)
		if err != nil {
			return "", "", fmt.Errorf("check session: %w", err)
		}
		if !active {
			return "", "", errors.New("session expired or revoked")
		}
	}
	return userID, raw, nil
}

// AuthMiddleware rejects requests without a valid bearer token.
func AuthMiddleware(tokens *Tokens, sessions store.SessionStore, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, raw, err := authenticate(c, tokens, sessions)
		if err != nil {
			log.WithError(err).Debug("auth rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Set(userIDKey, userID)
		c.Set(tokenKey, raw)
		c.Next()
	}
}

// OptionalAuth records the user when a valid token is present and lets
// anonymous requests through.
func OptionalAuth(tokens *Tokens, sessions store.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := bearerToken(c); ok {
			if userID, raw, err := authenticate(c, tokens, sessions); err == nil {
				c.Set(userIDKey, userID)
				c.Set(tokenKey, raw)
			}
		}
		c.Next()
	}
}

// UserID returns the authenticated user id, if any.
func UserID(c *gin.Context) (string, bool) {
	id := c.GetString(userIDKey)
	return id, id != ""
}
