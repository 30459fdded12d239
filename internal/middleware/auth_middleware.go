package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// UserIDKey is the gin context key holding the authenticated user's uuid.UUID.
const UserIDKey = "userID"

var (
	errNoBearer      = errors.New("Authorization header missing or malformed")
	errInvalidToken  = errors.New("Invalid or expired token")
	errInvalidClaims = errors.New("Invalid token claims")
)

func userIDFromHeader(c *gin.Context, jwtSecret string) (uuid.UUID, error) {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return uuid.Nil, errNoBearer
	}

	tokenStr := strings.TrimPrefix(header, "Bearer ")

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, errInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errInvalidClaims
	}

	if exp, err := claims.GetExpirationTime(); err != nil || exp == nil || exp.Before(time.Now()) {
		return uuid.Nil, errInvalidToken
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, errInvalidClaims
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, errInvalidClaims
	}
	return userID, nil
}

// JWTAuthMiddleware verifies the Bearer token and stores the user ID in the
// request context. Requests without a valid session are rejected with 401.
func JWTAuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := userIDFromHeader(c, jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// OptionalJWTAuthMiddleware stores the user ID when a valid Bearer token is
// present and lets the request through untouched otherwise. For routes that
// give anonymous callers a degraded answer instead of 401.
func OptionalJWTAuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, err := userIDFromHeader(c, jwtSecret); err == nil {
			c.Set(UserIDKey, userID)
		}
		c.Next()
	}
}
