package model

import "time"

// Archive запись истории загрузок, по одной на сохранённый файл.
// Источником правды о файлах остаётся файловая система.
type Archive struct {
	ID     string `gorm:"primaryKey;type:uuid"`
	UserID int64  `gorm:"not null;index"` // ссылка на users.id

	User *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	Name     string `gorm:"not null"`
	Category string `gorm:"not null"`
	Path     string `gorm:"not null"` // относительно корня пользователя, через "/"
	Size     int64  `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}
