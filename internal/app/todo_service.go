package app

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"gotodo/internal/model"
	"gotodo/internal/repository"
)

var (
	ErrTodoNotFound = errors.New("task not found")
	ErrInvalidState = errors.New("invalid todo state")
)

type TodoService struct {
	todos     TodoStore
	cache     TodoListCache
	publisher ActivityPublisher
}

type CreateTodoInput struct {
	Title       string
	Description string
	State       model.TodoState
}

// TodoPatch carries a partial update; nil fields are left untouched.
type TodoPatch struct {
	Title       *string
	Description *string
	State       *model.TodoState
}

func NewTodoService(todos TodoStore, cache TodoListCache, publisher ActivityPublisher) *TodoService {
	return &TodoService{
		todos:     todos,
		cache:     cache,
		publisher: publisher,
	}
}

func (s *TodoService) Create(ctx context.Context, userID uint, input CreateTodoInput) (*model.Todo, error) {
	title := strings.TrimSpace(input.Title)
	if userID == 0 || title == "" {
		return nil, ErrInvalidInput
	}

	state := input.State
	if state == "" {
		state = model.StateTodo
	}
	if !model.ValidTodoState(state) {
		return nil, ErrInvalidState
	}

	todo := &model.Todo{
		Title:       title,
		Description: input.Description,
		State:       state,
		UserID:      userID,
	}
	if err := s.todos.Create(todo); err != nil {
		return nil, err
	}

	s.invalidate(ctx, userID)
	s.publish(ctx, model.Activity{UserID: userID, Action: "todo.created", Entity: "todo", EntityID: todo.ID})
	return todo, nil
}

// List returns the caller's todos under the given filter. The unfiltered
// default page is served from the redis cache when possible; every mutation
// for the user drops the cached page, so staleness is bounded by the TTL
// only when nothing changes.
func (s *TodoService) List(ctx context.Context, filter repository.TodoFilter) ([]model.Todo, error) {
	if filter.UserID == 0 {
		return nil, ErrInvalidInput
	}
	if filter.State != "" && !model.ValidTodoState(filter.State) {
		return nil, ErrInvalidState
	}
	filter.Normalize()

	cacheable := s.cache != nil && filter.Unfiltered()
	if cacheable {
		todos, hit, err := s.cache.GetList(ctx, filter.UserID)
		if err != nil {
			logrus.WithError(err).Warn("todo cache read failed")
		} else if hit {
			return todos, nil
		}
	}

	todos, err := s.todos.List(filter)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := s.cache.SetList(ctx, filter.UserID, todos); err != nil {
			logrus.WithError(err).Warn("todo cache write failed")
		}
	}
	return todos, nil
}

// Update applies a partial change to a todo the caller owns. A todo that
// does not exist and a todo owned by someone else are indistinguishable to
// the caller: both are ErrTodoNotFound.
func (s *TodoService) Update(ctx context.Context, userID, todoID uint, patch TodoPatch) (*model.Todo, error) {
	todo, err := s.todos.GetByIDAndUserID(todoID, userID)
	if err != nil {
		return nil, err
	}
	if todo == nil {
		return nil, ErrTodoNotFound
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, ErrInvalidInput
		}
		todo.Title = title
	}
	if patch.Description != nil {
		todo.Description = *patch.Description
	}
	if patch.State != nil {
		if !model.ValidTodoState(*patch.State) {
			return nil, ErrInvalidState
		}
		todo.State = *patch.State
	}

	if err := s.todos.Update(todo); err != nil {
		return nil, err
	}

	s.invalidate(ctx, userID)
	s.publish(ctx, model.Activity{UserID: userID, Action: "todo.updated", Entity: "todo", EntityID: todo.ID})
	return todo, nil
}

func (s *TodoService) Delete(ctx context.Context, userID, todoID uint) error {
	deleted, err := s.todos.DeleteByIDAndUserID(todoID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrTodoNotFound
	}

	s.invalidate(ctx, userID)
	s.publish(ctx, model.Activity{UserID: userID, Action: "todo.deleted", Entity: "todo", EntityID: todoID})
	return nil
}

func (s *TodoService) publish(ctx context.Context, activity model.Activity) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, activity); err != nil {
		logrus.WithError(err).WithField("action", activity.Action).Warn("publish activity failed")
	}
}

func (s *TodoService) invalidate(ctx context.Context, userID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("invalidate todo cache failed")
	}
}
