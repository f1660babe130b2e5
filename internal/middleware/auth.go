package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mediplan/booking-api/internal/model"
)

const contextPrincipal = "principal"

// AuthMiddleware verifies tokens issued by the identity collaborator and
// exposes the result as a Principal. This service never issues tokens.
type AuthMiddleware struct {
	secret []byte
}

func NewAuthMiddleware(secret string) *AuthMiddleware {
	return &AuthMiddleware{secret: []byte(secret)}
}

// Authenticate verifies the bearer token and sets the principal in context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "missing authorization header"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "invalid authorization format"})
			return
		}

		principal, err := m.verify(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "invalid token"})
			return
		}

		c.Set(contextPrincipal, principal)
		c.Next()
	}
}

func (m *AuthMiddleware) verify(token string) (*model.Principal, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("token verification failed: %w", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("unexpected claims type")
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return nil, fmt.Errorf("missing subject claim: %w", err)
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, fmt.Errorf("invalid subject claim: %w", err)
	}

	roleClaim, _ := claims["role"].(string)
	role, err := model.ParseRole(roleClaim)
	if err != nil {
		return nil, err
	}

	return &model.Principal{UserID: userID, Role: role}, nil
}

// Principal returns the authenticated actor set by Authenticate.
func Principal(c *gin.Context) (*model.Principal, bool) {
	v, ok := c.Get(contextPrincipal)
	if !ok {
		return nil, false
	}
	principal, ok := v.(*model.Principal)
	return principal, ok
}
