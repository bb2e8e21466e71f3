package models

import "time"

// Post is a blog entry. It owns its comments: removing a post removes every
// comment that references it.
type Post struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Title     string     `gorm:"size:200;not null;index" json:"title"`
	Content   string     `gorm:"type:text;not null" json:"content"`
	Author    string     `gorm:"size:100;not null;index" json:"author"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false" json:"updated_at"` // nil until the first update
	Comments  []Comment  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"comments"`
}
