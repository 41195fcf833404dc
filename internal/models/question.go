package models

import (
	"time"

	"github.com/google/uuid"
)

type Question struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	SessionID uuid.UUID `gorm:"type:uuid;not null;index" json:"sessionId"`
	Question  string    `gorm:"type:text;not null" json:"question"`
	Answer    string    `gorm:"type:text" json:"answer"`
	Note      string    `gorm:"type:text" json:"note"`
	IsPinned  bool      `gorm:"not null;default:false" json:"isPinned"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (Question) TableName() string {
	return "questions"
}

// IndexText is the text embedded for semantic search.
func (q *Question) IndexText() string {
	if q.Answer == "" {
		return q.Question
	}
	return q.Question + "\n" + q.Answer
}
