package repository

import "gotodo/internal/model"

const (
	DefaultListLimit = 10
)

// TodoFilter narrows a todo listing. Title and Description are
// case-insensitive substring matches, State is an exact match. Zero values
// mean "no filter". Limit and Offset are normalized by Normalize.
type TodoFilter struct {
	UserID      uint
	Title       string
	Description string
	State       model.TodoState
	Limit       int
	Offset      int
}

// Normalize applies the pagination defaults: limit >= 1 (default 10),
// offset >= 0 (default 0).
func (f *TodoFilter) Normalize() {
	if f.Limit < 1 {
		f.Limit = DefaultListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

// Unfiltered reports whether the listing uses neither field filters nor
// non-default pagination, in which case the result is cacheable per user.
func (f TodoFilter) Unfiltered() bool {
	return f.Title == "" && f.Description == "" && f.State == "" &&
		f.Limit == DefaultListLimit && f.Offset == 0
}
