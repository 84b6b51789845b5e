package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/tokenflow-auth/internal/application"
)

func clientIP(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	return c.ClientIP()
}

// requestContext carries the caller's IP and user agent into the service layer.
func requestContext(c *gin.Context) context.Context {
	return application.WithRequestMeta(c.Request.Context(), application.RequestMeta{
		IP:        clientIP(c),
		UserAgent: c.GetHeader("User-Agent"),
	})
}
