package app

import (
	"context"
	"errors"
	"testing"

	"gotodo/internal/model"
	"gotodo/internal/repository"
)

type fakePublisher struct {
	events []model.Activity
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, activity model.Activity) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, activity)
	return nil
}

func TestMutationsPublishActivities(t *testing.T) {
	store := repository.NewMemoryStore()
	pub := &fakePublisher{}
	users := NewUserService(store.Users(), nil, pub)
	todos := NewTodoService(store.Todos(), nil, pub)

	alice := registerTestUser(t, users, "alice", "alice@example.com", "password-1")
	todo, err := todos.Create(context.Background(), alice.ID, CreateTodoInput{Title: "buy milk"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := todos.Delete(context.Background(), alice.ID, todo.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	want := []string{"user.registered", "todo.created", "todo.deleted"}
	if len(pub.events) != len(want) {
		t.Fatalf("published %d events, want %d", len(pub.events), len(want))
	}
	for i, action := range want {
		if pub.events[i].Action != action {
			t.Fatalf("event %d action = %q, want %q", i, pub.events[i].Action, action)
		}
	}
}

func TestPublishFailureDoesNotFailRequest(t *testing.T) {
	store := repository.NewMemoryStore()
	pub := &fakePublisher{err: errors.New("broker down")}
	users := NewUserService(store.Users(), nil, pub)
	todos := NewTodoService(store.Todos(), nil, pub)

	alice := registerTestUser(t, users, "alice", "alice@example.com", "password-1")
	if _, err := todos.Create(context.Background(), alice.ID, CreateTodoInput{Title: "buy milk"}); err != nil {
		t.Fatalf("Create should survive a dead broker, got %v", err)
	}
}
