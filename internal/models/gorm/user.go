package gorm

import "time"

// User maps a community username to the personal email given at onboarding.
type User struct {
	ID             uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Username       string    `gorm:"column:username;uniqueIndex;not null"`
	SecondaryEmail *string   `gorm:"column:secondary_email;index"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}
