package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/interview-prep/internal/models"
	"alfredoptarigan/interview-prep/internal/repositories"
)

type stubGenerator struct {
	mu       sync.Mutex
	response string
	err      error
	prompts  []string
	models   []string
}

func (g *stubGenerator) GenerateText(_ context.Context, prompt, model string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	g.models = append(g.models, model)
	return g.response, g.err
}

func (g *stubGenerator) Provider() string { return "stub" }

func (g *stubGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

type stubEmbedder struct {
	mu    sync.Mutex
	err   error
	texts []string
}

func (e *stubEmbedder) GenerateEmbedding(_ context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return nil, e.err
	}
	e.texts = append(e.texts, text)
	return []float32{float32(len(text)), 1}, nil
}

type memoryIndex struct {
	mu       sync.Mutex
	points   map[string]IndexPoint
	deleted  []string
	searches []string
}

func newMemoryIndex() *memoryIndex {
	return &memoryIndex{points: make(map[string]IndexPoint)}
}

func (m *memoryIndex) InitCollection(context.Context) error { return nil }

func (m *memoryIndex) UpsertQuestions(_ context.Context, points []IndexPoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range points {
		m.points[p.QuestionID] = p
	}
	return nil
}

func (m *memoryIndex) Search(_ context.Context, _ []float32, userID string, limit int) ([]IndexHit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searches = append(m.searches, userID)

	var hits []IndexHit
	for _, p := range m.points {
		if p.UserID != userID || len(hits) == limit {
			continue
		}
		hits = append(hits, IndexHit{QuestionID: p.QuestionID, SessionID: p.SessionID, Text: p.Text, Score: 0.9})
	}
	return hits, nil
}

func (m *memoryIndex) DeleteSession(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, sessionID)
	for id, p := range m.points {
		if p.SessionID == sessionID {
			delete(m.points, id)
		}
	}
	return nil
}

func (m *memoryIndex) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.points)
}

// memorySessions implements the parts of SessionRepository the index uses.
type memorySessions struct {
	repositories.SessionRepository

	mu       sync.Mutex
	sessions map[uuid.UUID]*models.Session
}

func newMemorySessions(sessions ...*models.Session) *memorySessions {
	m := &memorySessions{sessions: make(map[uuid.UUID]*models.Session)}
	for _, s := range sessions {
		m.sessions[s.ID] = s
	}
	return m
}

func (m *memorySessions) FindByID(id uuid.UUID) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (m *memorySessions) MarkIndexed(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return repositories.ErrNotFound
	}
	now := time.Now()
	s.IndexedAt = &now
	return nil
}

func (m *memorySessions) FindUnindexed(limit int) ([]models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Session
	for _, s := range m.sessions {
		if s.IndexedAt == nil && len(out) < limit {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *memorySessions) isIndexed(id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return ok && s.IndexedAt != nil
}

func newSession(userID string, questions ...string) *models.Session {
	s := &models.Session{
		ID:     uuid.New(),
		UserID: userID,
		Role:   "Backend Developer",
	}
	for _, q := range questions {
		s.Questions = append(s.Questions, models.Question{
			ID:        uuid.New(),
			SessionID: s.ID,
			Question:  q,
			Answer:    "answer to " + q,
		})
	}
	return s
}
