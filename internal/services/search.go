package services

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"alfredoptarigan/interview-prep/internal/models"
	"alfredoptarigan/interview-prep/internal/repositories"
)

// SearchService keeps the question index in sync with saved sessions and
// answers semantic queries against it.
type SearchService interface {
	Enabled() bool
	IndexSession(ctx context.Context, sessionID uuid.UUID) (int, error)
	DeleteSession(ctx context.Context, sessionID uuid.UUID) error
	Search(ctx context.Context, userID, query string, limit int) ([]models.QuestionSearchHit, error)
}

type searchService struct {
	sessions repositories.SessionRepository
	embedder Embedder
	index    QuestionIndex
}

// NewSearchService returns a disabled service when index or embedder is nil.
func NewSearchService(sessions repositories.SessionRepository, embedder Embedder, index QuestionIndex) SearchService {
	return &searchService{
		sessions: sessions,
		embedder: embedder,
		index:    index,
	}
}

func (s *searchService) Enabled() bool {
	return s.index != nil && s.embedder != nil
}

// IndexSession embeds every question of a session and stamps it as indexed.
func (s *searchService) IndexSession(ctx context.Context, sessionID uuid.UUID) (int, error) {
	if !s.Enabled() {
		return 0, ErrIndexDisabled
	}

	session, err := s.sessions.FindByID(sessionID)
	if err != nil {
		return 0, err
	}

	points := make([]IndexPoint, 0, len(session.Questions))
	for _, q := range session.Questions {
		text := q.IndexText()
		vector, err := s.embedder.GenerateEmbedding(ctx, text)
		if err != nil {
			return 0, fmt.Errorf("failed to embed question %s: %w", q.ID, err)
		}
		points = append(points, IndexPoint{
			QuestionID: q.ID.String(),
			SessionID:  session.ID.String(),
			UserID:     session.UserID,
			Text:       text,
			Vector:     vector,
		})
	}

	if err := s.index.UpsertQuestions(ctx, points); err != nil {
		return 0, err
	}

	if err := s.sessions.MarkIndexed(sessionID); err != nil {
		return 0, err
	}

	log.Printf("🧭 Indexed %d questions for session %s\n", len(points), sessionID)
	return len(points), nil
}

func (s *searchService) DeleteSession(ctx context.Context, sessionID uuid.UUID) error {
	if !s.Enabled() {
		return nil
	}
	return s.index.DeleteSession(ctx, sessionID.String())
}

// Search implements SearchService.
func (s *searchService) Search(ctx context.Context, userID, query string, limit int) ([]models.QuestionSearchHit, error) {
	if !s.Enabled() {
		return nil, ErrIndexDisabled
	}

	vector, err := s.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	hits, err := s.index.Search(ctx, vector, userID, limit)
	if err != nil {
		return nil, err
	}

	results := make([]models.QuestionSearchHit, 0, len(hits))
	for _, h := range hits {
		results = append(results, models.QuestionSearchHit{
			QuestionID: h.QuestionID,
			SessionID:  h.SessionID,
			Text:       h.Text,
			Score:      h.Score,
		})
	}
	return results, nil
}
