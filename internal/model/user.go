package model

import "time"

// User учётная запись. Password хранит только bcrypt-хеш.
type User struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	Username string `gorm:"size:100;not null;uniqueIndex"`
	Password string `gorm:"size:200;not null"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}
