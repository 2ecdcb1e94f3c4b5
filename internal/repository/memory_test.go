package repository

import (
	"fmt"
	"testing"

	"gotodo/internal/model"
)

func TestMemoryFindConflictExcludesSelf(t *testing.T) {
	store := NewMemoryStore()
	users := store.Users()

	alice := &model.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	if err := users.Create(alice); err != nil {
		t.Fatalf("Create: %v", err)
	}

	conflict, err := users.FindConflict("alice", "alice@example.com", alice.ID)
	if err != nil {
		t.Fatalf("FindConflict: %v", err)
	}
	if conflict != nil {
		t.Fatalf("a user must not conflict with itself: %+v", conflict)
	}

	conflict, err = users.FindConflict("alice", "other@example.com", 0)
	if err != nil {
		t.Fatalf("FindConflict: %v", err)
	}
	if conflict == nil {
		t.Fatalf("expected username conflict")
	}
}

func TestMemoryUserListPagination(t *testing.T) {
	store := NewMemoryStore()
	users := store.Users()

	for i := 0; i < 5; i++ {
		u := &model.User{
			Username:     fmt.Sprintf("user%d", i),
			Email:        fmt.Sprintf("user%d@example.com", i),
			PasswordHash: "x",
		}
		if err := users.Create(u); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	page, err := users.List(2, 3)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("got %d users, want 2", len(page))
	}
	if page[0].Username != "user3" {
		t.Fatalf("page starts at %q, want user3", page[0].Username)
	}
}

func TestMemoryCascadeDelete(t *testing.T) {
	store := NewMemoryStore()
	users := store.Users()
	todos := store.Todos()

	alice := &model.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	if err := users.Create(alice); err != nil {
		t.Fatalf("Create user: %v", err)
	}
	todo := &model.Todo{Title: "buy milk", State: model.StateTodo, UserID: alice.ID}
	if err := todos.Create(todo); err != nil {
		t.Fatalf("Create todo: %v", err)
	}

	if err := users.DeleteWithTodos(alice.ID); err != nil {
		t.Fatalf("DeleteWithTodos: %v", err)
	}

	left, err := todos.GetByIDAndUserID(todo.ID, alice.ID)
	if err != nil {
		t.Fatalf("GetByIDAndUserID: %v", err)
	}
	if left != nil {
		t.Fatalf("todo survived cascade: %+v", left)
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	users := store.Users()

	alice := &model.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	if err := users.Create(alice); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := users.GetByID(alice.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	got.Username = "mutated"

	again, err := users.GetByID(alice.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if again.Username != "alice" {
		t.Fatalf("store leaked internal state: %q", again.Username)
	}
}
