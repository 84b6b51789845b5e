package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/tokenflow-auth/internal/interface/http"
	"github.com/oksasatya/tokenflow-auth/internal/interface/middleware"
)

// UserModule wires the Bearer-protected routes under /api/v1/user:
// POST /change-password, GET /profile.
type UserModule struct {
	Handler *handlers.UserHandler
	Tokens  middleware.TokenParser
	RDB     *redis.Client
}

func NewUserModule(h *handlers.UserHandler, tokens middleware.TokenParser, rdb *redis.Client) *UserModule {
	return &UserModule{Handler: h, Tokens: tokens, RDB: rdb}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	user := rg.Group("/api/v1/user")
	user.Use(middleware.Auth(m.Tokens))
	user.Use(middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		user.POST("/change-password", m.Handler.ChangePassword)
		user.GET("/profile", m.Handler.GetProfile)
	}
}
