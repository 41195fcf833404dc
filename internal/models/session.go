package models

import (
	"time"

	"github.com/google/uuid"
)

type SessionSource string

const (
	SourceManual SessionSource = "manual"
	SourceResume SessionSource = "resume"
)

type Session struct {
	ID            uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID        string        `gorm:"type:text;not null;index" json:"userId"`
	Role          string        `gorm:"type:text;not null" json:"role"`
	Experience    string        `gorm:"type:text;not null" json:"experience"`
	TopicsToFocus string        `gorm:"type:text" json:"topicsToFocus"`
	Description   string        `gorm:"type:text" json:"description"`
	Source        SessionSource `gorm:"type:text;not null;default:'manual'" json:"source"`
	IndexedAt     *time.Time    `gorm:"type:timestamp" json:"indexedAt,omitempty"`
	CreatedAt     time.Time     `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt     time.Time     `gorm:"default:CURRENT_TIMESTAMP" json:"updatedAt"`

	// Relations
	Questions []Question `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
}

func (Session) TableName() string {
	return "sessions"
}

// SessionSummary is a session row with its question count, used for listings.
type SessionSummary struct {
	Session
	QuestionCount int64 `json:"questionCount"`
}
