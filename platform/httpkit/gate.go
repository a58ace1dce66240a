package httpkit

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"solar21_precheck/platform/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// GateTokenType is the "type" claim carried by passphrase gate tokens.
	GateTokenType = "gate"
	// ContextGateExpiresKey is the gin context key holding the gate token expiry.
	ContextGateExpiresKey = "gateExpiresAt"

	errMissingToken = "missing token"
	errInvalidToken = "invalid token"
	errGateDisabled = "admin gate is disabled"
)

// GateRequired returns middleware that accepts only valid gate tokens from the
// Authorization header. When no passphrase is configured every request is refused.
func GateRequired(cfg config.GateConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.IsGateEnabled() {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: errGateDisabled})
			return
		}

		rawToken, ok := extractBearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthorized(c, errMissingToken)
			return
		}

		expiresAt, err := ParseGateToken(rawToken, cfg.GetGateTokenSecret())
		if err != nil {
			abortUnauthorized(c, errInvalidToken)
			return
		}

		c.Set(ContextGateExpiresKey, expiresAt)
		c.Next()
	}
}

// ParseGateToken verifies an HS256 gate token and returns its expiry.
func ParseGateToken(rawToken, secret string) (time.Time, error) {
	parsed, err := jwt.Parse(rawToken, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return time.Time{}, errors.New(errInvalidToken)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return time.Time{}, errors.New(errInvalidToken)
	}
	if tokenType, _ := claims["type"].(string); tokenType != GateTokenType {
		return time.Time{}, errors.New(errInvalidToken)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, errors.New(errInvalidToken)
	}
	return exp.Time, nil
}

func extractBearerToken(authHeader string) (string, bool) {
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}

	rawToken := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if rawToken == "" {
		return "", false
	}

	return rawToken, true
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: message})
}
