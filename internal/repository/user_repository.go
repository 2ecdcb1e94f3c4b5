package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"gotodo/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *model.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("create user failed: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by id failed: %w", err)
	}
	return &user, nil
}

// GetBySubject resolves a login identifier or token subject: the value may be
// either a username or an email.
func (r *UserRepository) GetBySubject(subject string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("username = ? OR email = ?", subject, subject).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by subject failed: %w", err)
	}
	return &user, nil
}

// FindConflict returns a user other than excludeID holding the given username
// or email, or nil when both are free. excludeID 0 checks against everyone.
func (r *UserRepository) FindConflict(username, email string, excludeID uint) (*model.User, error) {
	var user model.User
	query := r.db.Where("username = ? OR email = ?", username, email)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user conflict failed: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) List(limit, offset int) ([]model.User, error) {
	var users []model.User
	if err := r.db.Order("id").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users failed: %w", err)
	}
	return users, nil
}

func (r *UserRepository) Update(user *model.User) error {
	if err := r.db.Save(user).Error; err != nil {
		return fmt.Errorf("update user failed: %w", err)
	}
	return nil
}

// DeleteWithTodos removes the user and every todo it owns in one
// transaction. The cascade is explicit here rather than configured on the
// gorm relation, so the memory store can mirror it exactly.
func (r *UserRepository) DeleteWithTodos(id uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&model.Todo{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.User{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("delete user with todos failed: %w", err)
	}
	return nil
}
