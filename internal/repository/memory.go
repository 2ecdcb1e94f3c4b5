package repository

import (
	"sort"
	"strings"
	"sync"
	"time"

	"gotodo/internal/model"
)

// MemoryStore keeps users, todos and activities in process-local maps. It is
// the storage backend behind `storage.driver = "memory"` and the default
// store in tests. Semantics match the gorm repositories: same not-found
// behavior, same cascade on user deletion, same filter rules.
type MemoryStore struct {
	mu         sync.Mutex
	users      map[uint]*model.User
	todos      map[uint]*model.Todo
	activities map[uint]*model.Activity

	nextUserID     uint
	nextTodoID     uint
	nextActivityID uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:      make(map[uint]*model.User),
		todos:      make(map[uint]*model.Todo),
		activities: make(map[uint]*model.Activity),
	}
}

// Users returns the user-store view of the memory store.
func (m *MemoryStore) Users() *MemoryUserStore { return &MemoryUserStore{store: m} }

// Todos returns the todo-store view of the memory store.
func (m *MemoryStore) Todos() *MemoryTodoStore { return &MemoryTodoStore{store: m} }

// Activities returns the activity-store view of the memory store.
func (m *MemoryStore) Activities() *MemoryActivityStore { return &MemoryActivityStore{store: m} }

type MemoryUserStore struct {
	store *MemoryStore
}

func (s *MemoryUserStore) Create(user *model.User) error {
	m := s.store
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextUserID++
	user.ID = m.nextUserID
	user.CreatedAt = time.Now()

	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (s *MemoryUserStore) GetByID(id uint) (*model.User, error) {
	m := s.store
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	clone := *user
	return &clone, nil
}

func (s *MemoryUserStore) GetBySubject(subject string) (*model.User, error) {
	m := s.store
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range m.users {
		if user.Username == subject || user.Email == subject {
			clone := *user
			return &clone, nil
		}
	}
	return nil, nil
}

func (s *MemoryUserStore) FindConflict(username, email string, excludeID uint) (*model.User, error) {
	m := s.store
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range m.users {
		if user.ID == excludeID {
			continue
		}
		if user.Username == username || user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, nil
}

func (s *MemoryUserStore) List(limit, offset int) ([]model.User, error) {
	m := s.store
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]uint, 0, len(m.users))
	for id := range m.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	users := make([]model.User, 0, limit)
	for i, id := range ids {
		if i < offset {
			continue
		}
		if len(users) == limit {
			break
		}
		users = append(users, *m.users[id])
	}
	return users, nil
}

func (s *MemoryUserStore) Update(user *model.User) error {
	m := s.store
	m.mu.Lock()
	defer m.mu.Unlock()

	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (s *MemoryUserStore) DeleteWithTodos(id uint) error {
	m := s.store
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.users, id)
	for todoID, todo := range m.todos {
		if todo.UserID == id {
			delete(m.todos, todoID)
		}
	}
	return nil
}

type MemoryTodoStore struct {
	store *MemoryStore
}

func (s *MemoryTodoStore) Create(todo *model.Todo) error {
	m := s.store
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextTodoID++
	todo.ID = m.nextTodoID
	todo.CreatedAt = time.Now()

	clone := *todo
	m.todos[todo.ID] = &clone
	return nil
}

func (s *MemoryTodoStore) GetByIDAndUserID(id, userID uint) (*model.Todo, error) {
	m := s.store
	m.mu.Lock()
	defer m.mu.Unlock()

	todo, ok := m.todos[id]
	if !ok || todo.UserID != userID {
		return nil, nil
	}
	clone := *todo
	return &clone, nil
}

func (s *MemoryTodoStore) List(filter TodoFilter) ([]model.Todo, error) {
	filter.Normalize()

	m := s.store
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]uint, 0, len(m.todos))
	for id := range m.todos {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	matched := 0
	todos := make([]model.Todo, 0, filter.Limit)
	for _, id := range ids {
		todo := m.todos[id]
		if !todoMatches(todo, filter) {
			continue
		}
		if matched < filter.Offset {
			matched++
			continue
		}
		if len(todos) == filter.Limit {
			break
		}
		todos = append(todos, *todo)
		matched++
	}
	return todos, nil
}

func (s *MemoryTodoStore) Update(todo *model.Todo) error {
	m := s.store
	m.mu.Lock()
	defer m.mu.Unlock()

	clone := *todo
	m.todos[todo.ID] = &clone
	return nil
}

func (s *MemoryTodoStore) DeleteByIDAndUserID(id, userID uint) (bool, error) {
	m := s.store
	m.mu.Lock()
	defer m.mu.Unlock()

	todo, ok := m.todos[id]
	if !ok || todo.UserID != userID {
		return false, nil
	}
	delete(m.todos, id)
	return true, nil
}

func todoMatches(todo *model.Todo, filter TodoFilter) bool {
	if todo.UserID != filter.UserID {
		return false
	}
	if filter.Title != "" && !containsFold(todo.Title, filter.Title) {
		return false
	}
	if filter.Description != "" && !containsFold(todo.Description, filter.Description) {
		return false
	}
	if filter.State != "" && todo.State != filter.State {
		return false
	}
	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

type MemoryActivityStore struct {
	store *MemoryStore
}

func (s *MemoryActivityStore) Create(activity *model.Activity) error {
	m := s.store
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextActivityID++
	activity.ID = m.nextActivityID
	activity.CreatedAt = time.Now()

	clone := *activity
	m.activities[activity.ID] = &clone
	return nil
}
