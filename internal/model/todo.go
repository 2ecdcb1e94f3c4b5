package model

import "time"

type TodoState string

const (
	StateDraft TodoState = "draft"
	StateTodo  TodoState = "todo"
	StateDoing TodoState = "doing"
	StateDone  TodoState = "done"
	StateTrash TodoState = "trash"
)

// ValidTodoState reports whether s is one of the five allowed states.
func ValidTodoState(s TodoState) bool {
	switch s {
	case StateDraft, StateTodo, StateDoing, StateDone, StateTrash:
		return true
	}
	return false
}

type Todo struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	State       TodoState `gorm:"size:16;not null;index" json:"state"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}
