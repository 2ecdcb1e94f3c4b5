package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gotodo/internal/app"
	"gotodo/internal/model"
	"gotodo/internal/repository"
	"gotodo/internal/transport/http/middleware"
	"gotodo/internal/transport/http/response"
)

type TodoHandler struct {
	todoService *app.TodoService
}

type CreateTodoRequest struct {
	Title       string          `json:"title" binding:"required,max=255"`
	Description string          `json:"description"`
	State       model.TodoState `json:"state"`
}

type UpdateTodoRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	State       *model.TodoState `json:"state"`
}

type TodoListResponse struct {
	Todos []model.Todo `json:"todos"`
}

func NewTodoHandler(todoService *app.TodoService) *TodoHandler {
	return &TodoHandler{todoService: todoService}
}

func (h *TodoHandler) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	var req CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	todo, err := h.todoService.Create(c.Request.Context(), user.ID, app.CreateTodoInput{
		Title:       req.Title,
		Description: req.Description,
		State:       req.State,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidState):
			response.Error(c, http.StatusBadRequest, "invalid todo state")
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "invalid request payload")
		default:
			response.Error(c, http.StatusInternalServerError, "create todo failed")
		}
		return
	}

	response.OK(c, http.StatusCreated, todo)
}

func (h *TodoHandler) List(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	filter := repository.TodoFilter{
		UserID:      user.ID,
		Title:       c.Query("title"),
		Description: c.Query("description"),
		State:       model.TodoState(c.Query("state")),
		Limit:       intQuery(c, "limit", repository.DefaultListLimit),
		Offset:      intQuery(c, "offset", 0),
	}

	todos, err := h.todoService.List(c.Request.Context(), filter)
	if err != nil {
		if errors.Is(err, app.ErrInvalidState) {
			response.Error(c, http.StatusBadRequest, "invalid todo state")
			return
		}
		response.Error(c, http.StatusInternalServerError, "list todos failed")
		return
	}

	response.OK(c, http.StatusOK, TodoListResponse{Todos: todos})
}

func (h *TodoHandler) Update(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	todoID, err := idParam(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid todo id")
		return
	}

	var req UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	todo, err := h.todoService.Update(c.Request.Context(), user.ID, todoID, app.TodoPatch{
		Title:       req.Title,
		Description: req.Description,
		State:       req.State,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrTodoNotFound):
			response.Error(c, http.StatusNotFound, "Task not found")
		case errors.Is(err, app.ErrInvalidState):
			response.Error(c, http.StatusBadRequest, "invalid todo state")
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "invalid request payload")
		default:
			response.Error(c, http.StatusInternalServerError, "update todo failed")
		}
		return
	}

	response.OK(c, http.StatusOK, todo)
}

func (h *TodoHandler) Delete(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	todoID, err := idParam(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid todo id")
		return
	}

	if err := h.todoService.Delete(c.Request.Context(), user.ID, todoID); err != nil {
		if errors.Is(err, app.ErrTodoNotFound) {
			response.Error(c, http.StatusNotFound, "Task not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "delete todo failed")
		return
	}

	response.OK(c, http.StatusOK, response.Message{Message: "Task deleted successfully!"})
}
