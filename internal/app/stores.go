package app

import (
	"context"

	"gotodo/internal/model"
	"gotodo/internal/repository"
)

// Store interfaces live on the consumer side so services never know which
// backend is wired in. The gorm repositories and the memory store both
// satisfy them.

type UserStore interface {
	Create(user *model.User) error
	GetByID(id uint) (*model.User, error)
	GetBySubject(subject string) (*model.User, error)
	FindConflict(username, email string, excludeID uint) (*model.User, error)
	List(limit, offset int) ([]model.User, error)
	Update(user *model.User) error
	DeleteWithTodos(id uint) error
}

type TodoStore interface {
	Create(todo *model.Todo) error
	GetByIDAndUserID(id, userID uint) (*model.Todo, error)
	List(filter repository.TodoFilter) ([]model.Todo, error)
	Update(todo *model.Todo) error
	DeleteByIDAndUserID(id, userID uint) (bool, error)
}

type ActivityStore interface {
	Create(activity *model.Activity) error
}

// ActivityPublisher pushes audit events onto the queue consumed by the
// activity worker. Publishing is fire-and-forget: a broker hiccup must never
// fail the request that triggered the event.
type ActivityPublisher interface {
	Publish(ctx context.Context, activity model.Activity) error
}

// TodoListCache caches the default todo listing per user.
type TodoListCache interface {
	GetList(ctx context.Context, userID uint) ([]model.Todo, bool, error)
	SetList(ctx context.Context, userID uint, todos []model.Todo) error
	Invalidate(ctx context.Context, userID uint) error
}
