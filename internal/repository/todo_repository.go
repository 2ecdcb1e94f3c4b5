package repository

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"gotodo/internal/model"
)

type TodoRepository struct {
	db *gorm.DB
}

func NewTodoRepository(db *gorm.DB) *TodoRepository {
	return &TodoRepository{db: db}
}

func (r *TodoRepository) Create(todo *model.Todo) error {
	if err := r.db.Create(todo).Error; err != nil {
		return fmt.Errorf("create todo failed: %w", err)
	}
	return nil
}

func (r *TodoRepository) GetByIDAndUserID(id, userID uint) (*model.Todo, error) {
	var todo model.Todo
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&todo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get todo failed: %w", err)
	}
	return &todo, nil
}

func (r *TodoRepository) List(filter TodoFilter) ([]model.Todo, error) {
	filter.Normalize()

	query := r.db.Where("user_id = ?", filter.UserID)
	if filter.Title != "" {
		query = query.Where("LOWER(title) LIKE ?", substringPattern(filter.Title))
	}
	if filter.Description != "" {
		query = query.Where("LOWER(description) LIKE ?", substringPattern(filter.Description))
	}
	if filter.State != "" {
		query = query.Where("state = ?", filter.State)
	}

	var todos []model.Todo
	if err := query.Order("id").Limit(filter.Limit).Offset(filter.Offset).Find(&todos).Error; err != nil {
		return nil, fmt.Errorf("list todos failed: %w", err)
	}
	return todos, nil
}

func (r *TodoRepository) Update(todo *model.Todo) error {
	if err := r.db.Save(todo).Error; err != nil {
		return fmt.Errorf("update todo failed: %w", err)
	}
	return nil
}

// DeleteByIDAndUserID reports whether a row was actually removed, so callers
// can tell a successful delete from a miss on a foreign or absent todo.
func (r *TodoRepository) DeleteByIDAndUserID(id, userID uint) (bool, error) {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&model.Todo{})
	if result.Error != nil {
		return false, fmt.Errorf("delete todo failed: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func substringPattern(s string) string {
	return "%" + strings.ToLower(s) + "%"
}
