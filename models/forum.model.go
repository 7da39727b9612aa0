package models

import (
	"time"

	"gorm.io/gorm"
)

// Forum is a discussion board attached to a course
type Forum struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	Title       string `json:"title" gorm:"size:200;not null"`
	Description string `json:"description" gorm:"type:text"`
	IsDeleted   bool   `json:"-" gorm:"default:false"`
}

type ForumThread struct {
	gorm.Model
	ForumID     uint       `json:"forum_id" gorm:"index;not null"`
	UserID      uint       `json:"user_id" gorm:"index;not null"`
	Title       string     `json:"title" gorm:"size:200;not null"`
	Content     string     `json:"content" gorm:"type:text"`
	IsPinned    bool       `json:"is_pinned" gorm:"default:false"`
	IsLocked    bool       `json:"is_locked" gorm:"default:false"`
	ReplyCount  int        `json:"reply_count" gorm:"default:0"`
	LastReplyAt *time.Time `json:"last_reply_at"`
	IsDeleted   bool       `json:"-" gorm:"default:false"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

type ForumReply struct {
	gorm.Model
	ThreadID  uint   `json:"thread_id" gorm:"index;not null"`
	UserID    uint   `json:"user_id" gorm:"index;not null"`
	Content   string `json:"content" gorm:"type:text;not null"`
	IsDeleted bool   `json:"-" gorm:"default:false"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
