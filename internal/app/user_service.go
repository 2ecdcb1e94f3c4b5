package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"gotodo/internal/model"
	"gotodo/internal/repository"
)

var (
	ErrUserExists = errors.New("user with this email or username already exists")
	ErrForbidden  = errors.New("operation not permitted on another user")
)

type UserService struct {
	users     UserStore
	todoCache TodoListCache
	publisher ActivityPublisher
}

type UserInput struct {
	Username string
	Email    string
	Password string
}

func NewUserService(users UserStore, todoCache TodoListCache, publisher ActivityPublisher) *UserService {
	return &UserService{
		users:     users,
		todoCache: todoCache,
		publisher: publisher,
	}
}

// Register creates a user from self-service signup. It is the only mutation
// that requires no authentication.
func (s *UserService) Register(ctx context.Context, input UserInput) (*model.User, error) {
	username, email, password, err := normalizeUserInput(input)
	if err != nil {
		return nil, err
	}

	conflict, err := s.users.FindConflict(username, email, 0)
	if err != nil {
		return nil, err
	}
	if conflict != nil {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	s.publish(ctx, model.Activity{UserID: user.ID, Action: "user.registered", Entity: "user", EntityID: user.ID})
	return user, nil
}

func (s *UserService) List(limit, offset int) ([]model.User, error) {
	if limit < 1 {
		limit = repository.DefaultListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.users.List(limit, offset)
}

// Update replaces the target user's username, email and password. Only the
// owner may update; the new identity must not collide with anyone else.
func (s *UserService) Update(ctx context.Context, callerID, targetID uint, input UserInput) (*model.User, error) {
	if callerID != targetID {
		return nil, ErrForbidden
	}

	username, email, password, err := normalizeUserInput(input)
	if err != nil {
		return nil, err
	}

	conflict, err := s.users.FindConflict(username, email, targetID)
	if err != nil {
		return nil, err
	}
	if conflict != nil {
		return nil, ErrUserExists
	}

	user, err := s.users.GetByID(targetID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrForbidden
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	user.Username = username
	user.Email = email
	user.PasswordHash = string(hash)
	if err := s.users.Update(user); err != nil {
		return nil, err
	}

	s.publish(ctx, model.Activity{UserID: user.ID, Action: "user.updated", Entity: "user", EntityID: user.ID})
	return user, nil
}

// Delete removes the target user and cascades over its todos. Only the owner
// may delete.
func (s *UserService) Delete(ctx context.Context, callerID, targetID uint) error {
	if callerID != targetID {
		return ErrForbidden
	}

	if err := s.users.DeleteWithTodos(targetID); err != nil {
		return err
	}

	s.invalidateTodos(ctx, targetID)
	s.publish(ctx, model.Activity{UserID: targetID, Action: "user.deleted", Entity: "user", EntityID: targetID})
	return nil
}

func (s *UserService) publish(ctx context.Context, activity model.Activity) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, activity); err != nil {
		logrus.WithError(err).WithField("action", activity.Action).Warn("publish activity failed")
	}
}

func (s *UserService) invalidateTodos(ctx context.Context, userID uint) {
	if s.todoCache == nil {
		return
	}
	if err := s.todoCache.Invalidate(ctx, userID); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("invalidate todo cache failed")
	}
}

func normalizeUserInput(input UserInput) (username, email, password string, err error) {
	username = strings.TrimSpace(input.Username)
	email = strings.TrimSpace(strings.ToLower(input.Email))
	password = input.Password

	if username == "" || email == "" || password == "" {
		return "", "", "", ErrInvalidInput
	}
	return username, email, password, nil
}
