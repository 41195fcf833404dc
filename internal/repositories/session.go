package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/interview-prep/internal/models"
)

type SessionRepository interface {
	Create(session *models.Session) error
	FindByID(id uuid.UUID) (*models.Session, error)
	FindByIDForUser(id uuid.UUID, userID string) (*models.Session, error)
	ListByUser(userID string) ([]models.SessionSummary, error)
	Delete(id uuid.UUID, userID string) error
	MarkIndexed(id uuid.UUID) error
	ClearIndexed(id uuid.UUID) error
	FindUnindexed(limit int) ([]models.Session, error)
	ListIDs() ([]uuid.UUID, error)
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// Create inserts the session together with its questions.
func (r *sessionRepository) Create(session *models.Session) error {
	if err := r.db.Create(session).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *sessionRepository) FindByID(id uuid.UUID) (*models.Session, error) {
	return r.find(r.db.Where("id = ?", id))
}

func (r *sessionRepository) FindByIDForUser(id uuid.UUID, userID string) (*models.Session, error) {
	return r.find(r.db.Where("id = ? AND user_id = ?", id, userID))
}

func (r *sessionRepository) find(query *gorm.DB) (*models.Session, error) {
	var session models.Session
	err := query.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_pinned DESC").Order("position ASC").Order("created_at ASC")
		}).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("session: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	return &session, nil
}

func (r *sessionRepository) ListByUser(userID string) ([]models.SessionSummary, error) {
	var sessions []models.Session
	if err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	summaries := make([]models.SessionSummary, 0, len(sessions))
	if len(sessions) == 0 {
		return summaries, nil
	}

	ids := make([]uuid.UUID, len(sessions))
	for i, s := range sessions {
		ids[i] = s.ID
	}

	var counts []struct {
		SessionID uuid.UUID
		Total     int64
	}
	if err := r.db.Model(&models.Question{}).
		Select("session_id, count(*) AS total").
		Where("session_id IN ?", ids).
		Group("session_id").
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("failed to count questions: %w", err)
	}

	byID := make(map[uuid.UUID]int64, len(counts))
	for _, c := range counts {
		byID[c.SessionID] = c.Total
	}

	for _, s := range sessions {
		summaries = append(summaries, models.SessionSummary{
			Session:       s,
			QuestionCount: byID[s.ID],
		})
	}
	return summaries, nil
}

func (r *sessionRepository) Delete(id uuid.UUID, userID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Session{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete session: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("session: %w", ErrNotFound)
		}

		if err := tx.Where("session_id = ?", id).Delete(&models.Question{}).Error; err != nil {
			return fmt.Errorf("failed to delete session questions: %w", err)
		}
		return nil
	})
}

func (r *sessionRepository) MarkIndexed(id uuid.UUID) error {
	return r.setIndexedAt(id, time.Now())
}

func (r *sessionRepository) ClearIndexed(id uuid.UUID) error {
	return r.setIndexedAt(id, nil)
}

func (r *sessionRepository) setIndexedAt(id uuid.UUID, value any) error {
	result := r.db.Model(&models.Session{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"indexed_at": value,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update index state: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("session: %w", ErrNotFound)
	}
	return nil
}

func (r *sessionRepository) FindUnindexed(limit int) ([]models.Session, error) {
	var sessions []models.Session
	err := r.db.
		Where("indexed_at IS NULL").
		Order("created_at ASC").
		Limit(limit).
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find unindexed sessions: %w", err)
	}
	return sessions, nil
}

func (r *sessionRepository) ListIDs() ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.Model(&models.Session{}).Order("created_at ASC").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list session ids: %w", err)
	}
	return ids, nil
}
