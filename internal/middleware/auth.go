package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/pageza/khana/backend/internal/types"
	apperrors "github.com/pageza/khana/backend/pkg/errors"
)

// Roles an access key may carry
const (
	RoleAnon        = "anon"
	RoleServiceRole = "service_role"
)

var (
	ErrMissingKey = errors.New("missing access key")
	ErrInvalidKey = errors.New("invalid access key")
)

// KeyValidator checks the project access key sent by clients. The key is an
// HS256 JWT whose role claim is anon or service_role.
type KeyValidator struct {
	secret []byte
}

// NewKeyValidator creates a validator for keys signed with secret
func NewKeyValidator(secret string) *KeyValidator {
	return &KeyValidator{secret: []byte(secret)}
}

// Validate parses key and returns its role
func (v *KeyValidator) Validate(key string) (string, error) {
	token, err := jwt.Parse(key, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidKey
	}
	role, _ := claims["role"].(string)
	if role != RoleAnon && role != RoleServiceRole {
		return "", fmt.Errorf("%w: role %q not allowed", ErrInvalidKey, role)
	}
	return role, nil
}

// Sign issues a key for role, used by tooling and tests
func (v *KeyValidator) Sign(role string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"role": role})
	return token.SignedString(v.secret)
}

// ExtractKey reads the key from "Authorization: Bearer <key>" or the apikey header
func ExtractKey(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	return c.GetHeader("Apikey")
}

// RequireKey creates a middleware that rejects requests without a valid
// access key. A nil validator lets every request through.
func RequireKey(validator *KeyValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if validator == nil {
			c.Next()
			return
		}

		key := ExtractKey(c)
		if key == "" {
			abortUnauthorized(c, ErrMissingKey)
			return
		}

		role, err := validator.Validate(key)
		if err != nil {
			abortUnauthorized(c, err)
			return
		}

		c.Set("role", role)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, err error) {
	appErr := apperrors.NewAppError(apperrors.CodeUnauthorized, err.Error(), "")
	c.AbortWithStatusJSON(http.StatusUnauthorized, types.ErrorResponse{
		Error: appErr.Message,
		Code:  string(appErr.Code),
	})
}
