package models

import "time"

// Comment is a reply attached to exactly one post.
type Comment struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Content   string     `gorm:"type:text;not null" json:"content"`
	Author    string     `gorm:"size:100;not null;index" json:"author"`
	PostID    uint       `gorm:"index;not null" json:"post_id"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false" json:"updated_at"`
}
