package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/tokenflow-auth/internal/application"
	"github.com/oksasatya/tokenflow-auth/internal/domain/entity"
	"github.com/oksasatya/tokenflow-auth/pkg/response"
	"github.com/oksasatya/tokenflow-auth/pkg/validation"
)

// Accounts is the authenticated user's view of their identity.
type Accounts interface {
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	GetProfile(ctx context.Context, userID string) (*entity.User, error)
}

type UserHandler struct {
	Svc    Accounts
	Logger *logrus.Logger
}

func NewUserHandler(svc Accounts, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required,pwd"`
	NewPassword     string `json:"newPassword" binding:"required,pwd"`
}

// ChangePassword POST /api/v1/user/change-password {currentPassword, newPassword}
func (h *UserHandler) ChangePassword(c *gin.Context) {
	uid := c.GetString("userID")
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			response.Error[any](c, http.StatusForbidden, application.PasswordPolicyMessage, validation.ToDetails(err))
			return
		}
		response.Error[any](c, http.StatusForbidden, "invalid payload", validation.ToDetails(err))
		return
	}
	err := h.Svc.ChangePassword(requestContext(c), uid, req.CurrentPassword, req.NewPassword)
	if err != nil {
		var ve *application.ValidationError
		switch {
		case errors.As(err, &ve):
			response.Error[any](c, http.StatusForbidden, ve.Message, nil)
		case errors.Is(err, application.ErrIncorrectPassword):
			response.Error[any](c, http.StatusForbidden, "Incorrect current password", nil)
		case errors.Is(err, application.ErrUserNotFound):
			response.Error[any](c, http.StatusInternalServerError, "User not found", nil)
		default:
			logError(h.Logger, c, err, "change password failed")
			response.Error[any](c, http.StatusInternalServerError, "Some error occured while saving new password, Please try again later.", nil)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": "Password Changed"}, "Password Changed", nil)
}

// GetProfile GET /api/v1/user/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	uid := c.GetString("userID")
	u, err := h.Svc.GetProfile(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
			return
		}
		logError(h.Logger, c, err, "get profile failed")
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"id":          u.ID,
		"email":       u.Email,
		"fullname":    u.FullName,
		"username":    u.Username,
		"profile_img": u.ProfileImageURL,
		"is_verified": u.IsVerified,
		"joined_at":   u.JoinedAt,
		"updated_at":  u.UpdatedAt,
	}, "profile", nil)
}
