package middleware

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"homeclean-backend/internal/config"
	"homeclean-backend/internal/models"
)

const (
	UserIDKey    = "user_id"
	UserRoleKey  = "user_role"
	AuthTokenKey = "auth_token"
)

// AuthMiddleware accepts Supabase access tokens signed with the project's
// JWT secret and stores the caller's id, raw token and metadata role on the
// gin context.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	keyFunc := func(token *jwt.Token) (interface{}, error) {
		if cfg.SupabaseJWTSecret == "" {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(cfg.SupabaseJWTSecret), nil
	}

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, tokenString, found := strings.Cut(header, " ")
		switch {
		case header == "":
			unauthorized(c, "missing authorization header", "")
			return
		case !found || scheme != "Bearer":
			unauthorized(c, "invalid authorization header format", "")
			return
		}

		tokenString = strings.TrimSpace(tokenString)
		if tokenString == "" {
			unauthorized(c, "empty token", "")
			return
		}
		// Deep links sometimes deliver the token URL-encoded
		if decoded, err := url.QueryUnescape(tokenString); err == nil {
			tokenString = decoded
		}

		segments := strings.Split(tokenString, ".")
		if len(segments) != 3 {
			unauthorized(c, "invalid token format", "JWT token must have 3 parts separated by dots")
			return
		}
		if msg := checkPayload(segments[1]); msg != "" {
			unauthorized(c, "invalid token payload", msg)
			return
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, keyFunc, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil {
			unauthorized(c, "invalid token", describeTokenError(err))
			return
		}
		if !token.Valid {
			unauthorized(c, "invalid token claims", "")
			return
		}

		sub, _ := claims["sub"].(string)
		if sub == "" {
			unauthorized(c, "missing user id in token", "")
			return
		}

		c.Set(UserIDKey, sub)
		c.Set(AuthTokenKey, tokenString)
		if meta, ok := claims["user_metadata"].(map[string]interface{}); ok {
			if role, ok := meta["role"].(string); ok {
				c.Set(UserRoleKey, role)
			}
		}
		c.Next()
	}
}

func unauthorized(c *gin.Context, reason, detail string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: reason, Message: detail})
}

func describeTokenError(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "token has expired"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "token signature is invalid, check SUPABASE_JWT_SECRET"
	case strings.Contains(err.Error(), "signing method"):
		return "token must use HS256"
	default:
		return err.Error()
	}
}

// checkPayload decodes the claims segment up front so a truncated or
// corrupted token gets a specific message instead of a generic parse error.
func checkPayload(segment string) string {
	decoded, err := base64.RawURLEncoding.DecodeString(segment)
	if err != nil {
		decoded, err = base64.URLEncoding.DecodeString(segment)
		if err != nil {
			return "token payload is not valid base64: " + err.Error()
		}
	}

	var claims map[string]interface{}
	if err := json.Unmarshal(decoded, &claims); err != nil {
		return "token payload is not valid JSON. The token is corrupted or truncated, get a fresh token from Supabase Auth."
	}
	return ""
}
