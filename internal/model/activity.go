package model

import "time"

// Activity is an audit record of a mutation. Rows are written by the
// background worker consuming the activity queue, never by request handlers.
type Activity struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	UserID   uint   `gorm:"not null;index" json:"user_id"`
	Action   string `gorm:"size:32;not null;index" json:"action"`
	Entity   string `gorm:"size:16;not null" json:"entity"`
	EntityID uint   `json:"entity_id"`

	CreatedAt time.Time `json:"created_at"`
}
