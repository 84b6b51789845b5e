package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/tokenflow-auth/pkg/helpers"
	"github.com/oksasatya/tokenflow-auth/pkg/response"
)

const CtxUserIDKey = "userID"

// TokenParser validates an access token and returns its claims.
type TokenParser interface {
	ParseAccessToken(token string) (*helpers.Claims, error)
}

// Auth reads "Authorization: Bearer <token>", validates it and sets userID in the Gin context.
// A missing token is 401; a token that fails validation is 403.
func Auth(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "No Access Token", nil)
			return
		}
		claims, err := tokens.ParseAccessToken(token)
		if err != nil {
			response.Abort(c, http.StatusForbidden, "Access token is invalid", nil)
			return
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
