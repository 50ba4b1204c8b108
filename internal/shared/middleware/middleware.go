package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"seatlock/internal/shared/config"
	"seatlock/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// HolderKey is the gin context key carrying the lock holder identity
const HolderKey = "holder_id"

// JWTAuthWithConfig resolves the bearer token's user_id claim into the lock
// holder. Tokens are issued elsewhere; only verification happens here.
func JWTAuthWithConfig(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.RespondError(c, http.StatusUnauthorized, "Authorization header is required", response.KindUnauthorized, nil, nil)
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.RespondError(c, http.StatusUnauthorized, "authorization header format must be Bearer {token}", response.KindUnauthorized, nil, nil)
			c.Abort()
			return
		}

		holderID, err := ParseHolder(parts[1], cfg.JWT.Secret)
		if err != nil {
			response.RespondError(c, http.StatusUnauthorized, "invalid or expired token", response.KindUnauthorized, err, nil)
			c.Abort()
			return
		}

		c.Set(HolderKey, holderID)
		c.Next()
	}
}

// OptionalAuthWithConfig sets the holder when a valid token is present but
// never rejects the request
func OptionalAuthWithConfig(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			if holderID, err := ParseHolder(parts[1], cfg.JWT.Secret); err == nil {
				c.Set(HolderKey, holderID)
			}
		}
		c.Next()
	}
}

// ParseHolder verifies an HMAC-signed access token and returns its user_id
func ParseHolder(tokenString, secret string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", fmt.Errorf("token is not valid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("unexpected claims type")
	}
	if tokenType, ok := claims["type"]; ok && tokenType != "access" {
		return "", fmt.Errorf("invalid token type")
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("token has no user_id claim")
	}
	return userID, nil
}

// HolderID returns the authenticated holder, or "" when none was resolved
func HolderID(c *gin.Context) string {
	return c.GetString(HolderKey)
}
