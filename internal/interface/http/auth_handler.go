package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/tokenflow-auth/internal/application"
	"github.com/oksasatya/tokenflow-auth/internal/domain/entity"
	"github.com/oksasatya/tokenflow-auth/pkg/response"
	"github.com/oksasatya/tokenflow-auth/pkg/validation"
)

// Registrar runs the two-step signup.
type Registrar interface {
	Initiate(ctx context.Context, in application.SignupInput) (*entity.PendingRegistration, error)
	Confirm(ctx context.Context, email, code string) (*entity.User, error)
}

// Authenticator checks credentials and issues access tokens.
type Authenticator interface {
	Signin(ctx context.Context, email, password string) (*entity.User, string, error)
	IssueToken(u *entity.User) (string, error)
}

type AuthHandler struct {
	Signups  Registrar
	Accounts Authenticator
	Logger   *logrus.Logger
}

func NewAuthHandler(signups Registrar, accounts Authenticator, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Signups: signups, Accounts: accounts, Logger: logger}
}

type signupRequest struct {
	FullName string `json:"fullname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyRequest struct {
	Email string `json:"email" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

type signinRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// IdentityPayload is returned by verify and signin.
type IdentityPayload struct {
	AccessToken string `json:"access_token"`
	ProfileImg  string `json:"profile_img"`
	Username    string `json:"username"`
	FullName    string `json:"fullname"`
	Email       string `json:"email"`
}

func identityPayload(u *entity.User, token string) IdentityPayload {
	return IdentityPayload{
		AccessToken: token,
		ProfileImg:  u.ProfileImageURL,
		Username:    u.Username,
		FullName:    u.FullName,
		Email:       u.Email,
	}
}

// Signup POST /signup {fullname, email, password}
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusForbidden, "invalid payload", validation.ToDetails(err))
		return
	}
	_, err := h.Signups.Initiate(requestContext(c), application.SignupInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		var ve *application.ValidationError
		switch {
		case errors.As(err, &ve):
			response.Error[any](c, http.StatusForbidden, ve.Message, map[string]string{ve.Field: ve.Message})
		case errors.Is(err, application.ErrEmailTaken):
			response.Error[any](c, http.StatusInternalServerError, "Email already exists", nil)
		case errors.Is(err, application.ErrNotifyFailed):
			response.Error[any](c, http.StatusInternalServerError, "Failed to send verification email", nil)
		default:
			h.internal(c, err, "signup failed")
		}
		return
	}
	response.Success[any](c, http.StatusOK, nil, "Signup successful. Please check your email for the verification code.", nil)
}

// Verify POST /verify {email, code}
func (h *AuthHandler) Verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Signups.Confirm(requestContext(c), req.Email, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrCodeExpired):
			response.Error[any](c, http.StatusBadRequest, "Verification code has expired. Please sign up again.", nil)
		case errors.Is(err, application.ErrCodeInvalid):
			response.Error[any](c, http.StatusBadRequest, "Invalid verification code", nil)
		case errors.Is(err, application.ErrConflict):
			response.Error[any](c, http.StatusInternalServerError, "Email Already Exist", nil)
		default:
			h.internal(c, err, "verify failed")
		}
		return
	}
	token, err := h.Accounts.IssueToken(u)
	if err != nil {
		h.internal(c, err, "issue token failed")
		return
	}
	response.Success(c, http.StatusOK, identityPayload(u, token), "Email verified successfully", nil)
}

// Signin POST /signin {email, password}
func (h *AuthHandler) Signin(c *gin.Context) {
	var req signinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusForbidden, "invalid payload", validation.ToDetails(err))
		return
	}
	u, token, err := h.Accounts.Signin(requestContext(c), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrEmailNotFound):
			response.Error[any](c, http.StatusForbidden, "Email not found", nil)
		case errors.Is(err, application.ErrIncorrectPassword):
			response.Error[any](c, http.StatusForbidden, "Incorrect Password", nil)
		default:
			h.internal(c, err, "signin failed")
		}
		return
	}
	response.Success(c, http.StatusOK, identityPayload(u, token), "signin successful", nil)
}

func (h *AuthHandler) internal(c *gin.Context, err error, msg string) {
	logError(h.Logger, c, err, msg)
	response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
}

func logError(logger *logrus.Logger, c *gin.Context, err error, msg string) {
	if logger == nil {
		return
	}
	logger.WithError(err).WithFields(logrus.Fields{
		"request_id": c.GetString("request_id"),
		"path":       c.FullPath(),
	}).Error(msg)
}
