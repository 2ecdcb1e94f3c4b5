package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gotodo/internal/app"
	"gotodo/internal/model"
	"gotodo/internal/transport/http/middleware"
	"gotodo/internal/transport/http/response"
)

type UserHandler struct {
	userService *app.UserService
}

type UserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Email    string `json:"email" binding:"required,email,max=128"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

type UserListResponse struct {
	Users []model.User `json:"users"`
}

func NewUserHandler(userService *app.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Create is self-registration and deliberately the only unauthenticated
// mutation in the API.
func (h *UserHandler) Create(c *gin.Context) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	user, err := h.userService.Register(c.Request.Context(), app.UserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrUserExists):
			response.Error(c, http.StatusConflict, "User with this email or username already exists!")
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "invalid request payload")
		default:
			response.Error(c, http.StatusInternalServerError, "create user failed")
		}
		return
	}

	response.OK(c, http.StatusCreated, user)
}

func (h *UserHandler) List(c *gin.Context) {
	limit := intQuery(c, "limit", 10)
	offset := intQuery(c, "offset", 0)

	users, err := h.userService.List(limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "list users failed")
		return
	}

	response.OK(c, http.StatusOK, UserListResponse{Users: users})
}

func (h *UserHandler) Update(c *gin.Context) {
	caller, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	targetID, err := idParam(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid user id")
		return
	}

	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	user, err := h.userService.Update(c.Request.Context(), caller.ID, targetID, app.UserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrForbidden):
			response.Error(c, http.StatusForbidden, "You do not have permission to update this user!")
		case errors.Is(err, app.ErrUserExists):
			response.Error(c, http.StatusConflict, "User with this email or username already exists!")
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "invalid request payload")
		default:
			response.Error(c, http.StatusInternalServerError, "update user failed")
		}
		return
	}

	response.OK(c, http.StatusOK, user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	caller, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	targetID, err := idParam(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.userService.Delete(c.Request.Context(), caller.ID, targetID); err != nil {
		if errors.Is(err, app.ErrForbidden) {
			response.Error(c, http.StatusForbidden, "You do not have permission to delete this user!")
			return
		}
		response.Error(c, http.StatusInternalServerError, "delete user failed")
		return
	}

	response.OK(c, http.StatusOK, response.Message{Message: "User deleted successfully!"})
}

func idParam(c *gin.Context) (uint, error) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
