package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/interview-prep/internal/models"
)

type QuestionRepository interface {
	FindByIDForUser(id uuid.UUID, userID string) (*models.Question, error)
	AddToSession(sessionID uuid.UUID, userID string, questions []models.Question) ([]models.Question, error)
	TogglePin(id uuid.UUID, userID string) (*models.Question, error)
	UpdateNote(id uuid.UUID, userID string, note string) (*models.Question, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) FindByIDForUser(id uuid.UUID, userID string) (*models.Question, error) {
	return findOwnedQuestion(r.db, id, userID)
}

// AddToSession appends questions after the session's existing ones and clears
// the session's index stamp so the worker picks it up again.
func (r *questionRepository) AddToSession(sessionID uuid.UUID, userID string, questions []models.Question) ([]models.Question, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Session{}).
			Where("id = ? AND user_id = ?", sessionID, userID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check session: %w", err)
		}
		if count == 0 {
			return fmt.Errorf("session: %w", ErrNotFound)
		}

		var next int
		if err := tx.Model(&models.Question{}).
			Select("COALESCE(MAX(position) + 1, 0)").
			Where("session_id = ?", sessionID).
			Scan(&next).Error; err != nil {
			return fmt.Errorf("failed to read question positions: %w", err)
		}

		for i := range questions {
			questions[i].SessionID = sessionID
			questions[i].Position = next + i
		}
		if err := tx.Create(&questions).Error; err != nil {
			return fmt.Errorf("failed to add questions: %w", err)
		}

		return tx.Model(&models.Session{}).
			Where("id = ?", sessionID).
			Updates(map[string]interface{}{
				"indexed_at": nil,
				"updated_at": time.Now(),
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) TogglePin(id uuid.UUID, userID string) (*models.Question, error) {
	var question *models.Question
	err := r.db.Transaction(func(tx *gorm.DB) error {
		q, err := findOwnedQuestion(tx, id, userID)
		if err != nil {
			return err
		}
		q.IsPinned = !q.IsPinned
		if err := tx.Model(q).Updates(map[string]interface{}{
			"is_pinned":  q.IsPinned,
			"updated_at": time.Now(),
		}).Error; err != nil {
			return fmt.Errorf("failed to toggle pin: %w", err)
		}
		question = q
		return nil
	})
	return question, err
}

func (r *questionRepository) UpdateNote(id uuid.UUID, userID string, note string) (*models.Question, error) {
	q, err := findOwnedQuestion(r.db, id, userID)
	if err != nil {
		return nil, err
	}
	q.Note = note
	if err := r.db.Model(q).Updates(map[string]interface{}{
		"note":       note,
		"updated_at": time.Now(),
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}
	return q, nil
}

func findOwnedQuestion(db *gorm.DB, id uuid.UUID, userID string) (*models.Question, error) {
	var q models.Question
	err := db.
		Joins("JOIN sessions ON sessions.id = questions.session_id").
		Where("questions.id = ? AND sessions.user_id = ?", id, userID).
		First(&q).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("question: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find question: %w", err)
	}
	return &q, nil
}
