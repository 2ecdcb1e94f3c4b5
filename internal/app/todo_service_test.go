package app

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"gotodo/internal/model"
	"gotodo/internal/repository"
)

func TestCreateTodoDefaultsToTodoState(t *testing.T) {
	_, users, todos, _ := newTestServices(t)
	alice := registerTestUser(t, users, "alice", "alice@example.com", "password-1")

	todo, err := todos.Create(context.Background(), alice.ID, CreateTodoInput{Title: "buy milk"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if todo.State != model.StateTodo {
		t.Fatalf("state = %q, want %q", todo.State, model.StateTodo)
	}
	if todo.UserID != alice.ID {
		t.Fatalf("owner = %d, want %d", todo.UserID, alice.ID)
	}
}

func TestCreateTodoRejectsUnknownState(t *testing.T) {
	_, users, todos, _ := newTestServices(t)
	alice := registerTestUser(t, users, "alice", "alice@example.com", "password-1")

	_, err := todos.Create(context.Background(), alice.ID, CreateTodoInput{
		Title: "buy milk",
		State: model.TodoState("someday"),
	})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("err = %v, want ErrInvalidState", err)
	}
}

func TestForeignTodoIsNotFound(t *testing.T) {
	_, users, todos, _ := newTestServices(t)
	alice := registerTestUser(t, users, "alice", "alice@example.com", "password-1")
	bob := registerTestUser(t, users, "bob", "bob@example.com", "password-2")

	todo, err := todos.Create(context.Background(), alice.ID, CreateTodoInput{Title: "secret plan"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	title := "stolen"
	if _, err := todos.Update(context.Background(), bob.ID, todo.ID, TodoPatch{Title: &title}); !errors.Is(err, ErrTodoNotFound) {
		t.Fatalf("update err = %v, want ErrTodoNotFound", err)
	}
	if err := todos.Delete(context.Background(), bob.ID, todo.ID); !errors.Is(err, ErrTodoNotFound) {
		t.Fatalf("delete err = %v, want ErrTodoNotFound", err)
	}

	// owner still sees the todo untouched
	kept, err := todos.Update(context.Background(), alice.ID, todo.ID, TodoPatch{})
	if err != nil {
		t.Fatalf("owner update err = %v", err)
	}
	if kept.Title != "secret plan" {
		t.Fatalf("title = %q, want unchanged", kept.Title)
	}
}

func TestUpdateTodoPartialPatch(t *testing.T) {
	_, users, todos, _ := newTestServices(t)
	alice := registerTestUser(t, users, "alice", "alice@example.com", "password-1")

	todo, err := todos.Create(context.Background(), alice.ID, CreateTodoInput{
		Title:       "buy milk",
		Description: "two liters",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	state := model.StateDone
	updated, err := todos.Update(context.Background(), alice.ID, todo.ID, TodoPatch{State: &state})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.State != model.StateDone {
		t.Fatalf("state = %q, want done", updated.State)
	}
	if updated.Title != "buy milk" || updated.Description != "two liters" {
		t.Fatalf("patch touched unset fields: %+v", updated)
	}
}

func TestListTodosStateFilter(t *testing.T) {
	_, users, todos, _ := newTestServices(t)
	alice := registerTestUser(t, users, "alice", "alice@example.com", "password-1")

	states := []model.TodoState{model.StateTodo, model.StateDoing, model.StateDoing, model.StateDone}
	for i, state := range states {
		if _, err := todos.Create(context.Background(), alice.ID, CreateTodoInput{
			Title: fmt.Sprintf("task %d", i),
			State: state,
		}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	listed, err := todos.List(context.Background(), repository.TodoFilter{
		UserID: alice.ID,
		State:  model.StateDoing,
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("got %d todos, want 2", len(listed))
	}
	for _, todo := range listed {
		if todo.State != model.StateDoing {
			t.Fatalf("todo %d state = %q, want doing", todo.ID, todo.State)
		}
	}
}

func TestListTodosPagination(t *testing.T) {
	_, users, todos, _ := newTestServices(t)
	alice := registerTestUser(t, users, "alice", "alice@example.com", "password-1")

	for i := 0; i < 5; i++ {
		if _, err := todos.Create(context.Background(), alice.ID, CreateTodoInput{
			Title: fmt.Sprintf("task %d", i),
		}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	listed, err := todos.List(context.Background(), repository.TodoFilter{
		UserID: alice.ID,
		Limit:  2,
		Offset: 1,
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("got %d todos, want exactly 2", len(listed))
	}
}

func TestListTodosTitleFilterIsCaseInsensitive(t *testing.T) {
	_, users, todos, _ := newTestServices(t)
	alice := registerTestUser(t, users, "alice", "alice@example.com", "password-1")

	for _, title := range []string{"Buy MILK", "walk the dog", "milkshake run"} {
		if _, err := todos.Create(context.Background(), alice.ID, CreateTodoInput{Title: title}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	listed, err := todos.List(context.Background(), repository.TodoFilter{
		UserID: alice.ID,
		Title:  "milk",
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("got %d todos, want 2", len(listed))
	}
}

func TestListTodosScopedToOwner(t *testing.T) {
	_, users, todos, _ := newTestServices(t)
	alice := registerTestUser(t, users, "alice", "alice@example.com", "password-1")
	bob := registerTestUser(t, users, "bob", "bob@example.com", "password-2")

	if _, err := todos.Create(context.Background(), alice.ID, CreateTodoInput{Title: "alice task"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := todos.Create(context.Background(), bob.ID, CreateTodoInput{Title: "bob task"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	listed, err := todos.List(context.Background(), repository.TodoFilter{UserID: alice.ID})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(listed) != 1 || listed[0].Title != "alice task" {
		t.Fatalf("listing leaked across owners: %+v", listed)
	}
}

type fakeTodoCache struct {
	lists         map[uint][]model.Todo
	sets          int
	hits          int
	invalidations int
}

func newFakeTodoCache() *fakeTodoCache {
	return &fakeTodoCache{lists: make(map[uint][]model.Todo)}
}

func (f *fakeTodoCache) GetList(_ context.Context, userID uint) ([]model.Todo, bool, error) {
	todos, ok := f.lists[userID]
	if ok {
		f.hits++
	}
	return todos, ok, nil
}

func (f *fakeTodoCache) SetList(_ context.Context, userID uint, todos []model.Todo) error {
	f.sets++
	f.lists[userID] = todos
	return nil
}

func (f *fakeTodoCache) Invalidate(_ context.Context, userID uint) error {
	f.invalidations++
	delete(f.lists, userID)
	return nil
}

func TestListTodosUsesCacheForDefaultPage(t *testing.T) {
	store := repository.NewMemoryStore()
	cache := newFakeTodoCache()
	todos := NewTodoService(store.Todos(), cache, nil)
	users := NewUserService(store.Users(), cache, nil)
	alice := registerTestUser(t, users, "alice", "alice@example.com", "password-1")

	if _, err := todos.Create(context.Background(), alice.ID, CreateTodoInput{Title: "buy milk"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	filter := repository.TodoFilter{UserID: alice.ID}
	if _, err := todos.List(context.Background(), filter); err != nil {
		t.Fatalf("List: %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("cache sets = %d, want 1", cache.sets)
	}

	if _, err := todos.List(context.Background(), filter); err != nil {
		t.Fatalf("List: %v", err)
	}
	if cache.hits != 1 {
		t.Fatalf("cache hits = %d, want 1", cache.hits)
	}

	// filtered listings must bypass the cache
	if _, err := todos.List(context.Background(), repository.TodoFilter{UserID: alice.ID, State: model.StateTodo}); err != nil {
		t.Fatalf("List: %v", err)
	}
	if cache.hits != 1 || cache.sets != 1 {
		t.Fatalf("filtered listing touched the cache: hits=%d sets=%d", cache.hits, cache.sets)
	}
}

func TestMutationsInvalidateTodoCache(t *testing.T) {
	store := repository.NewMemoryStore()
	cache := newFakeTodoCache()
	todos := NewTodoService(store.Todos(), cache, nil)
	users := NewUserService(store.Users(), cache, nil)
	alice := registerTestUser(t, users, "alice", "alice@example.com", "password-1")

	todo, err := todos.Create(context.Background(), alice.ID, CreateTodoInput{Title: "buy milk"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	state := model.StateDone
	if _, err := todos.Update(context.Background(), alice.ID, todo.ID, TodoPatch{State: &state}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := todos.Delete(context.Background(), alice.ID, todo.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	// create + update + delete
	if cache.invalidations != 3 {
		t.Fatalf("invalidations = %d, want 3", cache.invalidations)
	}
}
