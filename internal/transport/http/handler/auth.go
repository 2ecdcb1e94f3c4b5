package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gotodo/internal/app"
	"gotodo/internal/transport/http/middleware"
	"gotodo/internal/transport/http/response"
)

type AuthHandler struct {
	authService *app.AuthService
}

// TokenRequest is form-encoded, OAuth2 password-grant style. Username may be
// a username or an email.
type TokenRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func NewAuthHandler(authService *app.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Token(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	result, err := h.authService.Login(app.LoginInput{
		Subject:  req.Username,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, app.ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, "Incorrect username or password")
			return
		}
		response.Error(c, http.StatusInternalServerError, "login failed")
		return
	}

	response.OK(c, http.StatusOK, TokenResponse{
		AccessToken: result.AccessToken,
		TokenType:   result.TokenType,
	})
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	result, err := h.authService.IssueToken(user)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "refresh token failed")
		return
	}

	response.OK(c, http.StatusOK, TokenResponse{
		AccessToken: result.AccessToken,
		TokenType:   result.TokenType,
	})
}
