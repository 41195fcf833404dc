package handlers

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/interview-prep/internal/middleware"
	"alfredoptarigan/interview-prep/internal/models"
	"alfredoptarigan/interview-prep/internal/repositories"
	"alfredoptarigan/interview-prep/internal/services"
)

type stubGenerator struct {
	mu       sync.Mutex
	response string
	err      error
	prompts  []string
}

func (g *stubGenerator) GenerateText(_ context.Context, prompt, _ string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	return g.response, g.err
}

func (g *stubGenerator) Provider() string { return "stub" }

func (g *stubGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

// memoryStore backs both repository interfaces.
type memoryStore struct {
	repositories.SessionRepository

	mu       sync.Mutex
	sessions map[uuid.UUID]*models.Session
}

func newMemoryStore() *memoryStore {
	return &memoryStore{sessions: make(map[uuid.UUID]*models.Session)}
}

func (m *memoryStore) Create(session *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	session.CreatedAt = now
	for i := range session.Questions {
		session.Questions[i].SessionID = session.ID
		session.Questions[i].CreatedAt = now
	}
	copied := *session
	copied.Questions = append([]models.Question(nil), session.Questions...)
	m.sessions[session.ID] = &copied
	return nil
}

func (m *memoryStore) FindByIDForUser(id uuid.UUID, userID string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok || s.UserID != userID {
		return nil, repositories.ErrNotFound
	}
	copied := *s
	copied.Questions = append([]models.Question(nil), s.Questions...)
	sort.SliceStable(copied.Questions, func(i, j int) bool {
		a, b := copied.Questions[i], copied.Questions[j]
		if a.IsPinned != b.IsPinned {
			return a.IsPinned
		}
		return a.Position < b.Position
	})
	return &copied, nil
}

func (m *memoryStore) ListByUser(userID string) ([]models.SessionSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.SessionSummary{}
	for _, s := range m.sessions {
		if s.UserID == userID {
			summary := models.SessionSummary{Session: *s, QuestionCount: int64(len(s.Questions))}
			summary.Questions = nil
			out = append(out, summary)
		}
	}
	return out, nil
}

func (m *memoryStore) Delete(id uuid.UUID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok || s.UserID != userID {
		return repositories.ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *memoryStore) questions() repositories.QuestionRepository {
	return &memoryQuestions{store: m}
}

type memoryQuestions struct {
	repositories.QuestionRepository
	store *memoryStore
}

func (q *memoryQuestions) AddToSession(sessionID uuid.UUID, userID string, questions []models.Question) ([]models.Question, error) {
	q.store.mu.Lock()
	defer q.store.mu.Unlock()
	s, ok := q.store.sessions[sessionID]
	if !ok || s.UserID != userID {
		return nil, repositories.ErrNotFound
	}
	next := 0
	for _, existing := range s.Questions {
		if existing.Position >= next {
			next = existing.Position + 1
		}
	}
	for i := range questions {
		questions[i].SessionID = sessionID
		questions[i].Position = next + i
	}
	s.Questions = append(s.Questions, questions...)
	s.IndexedAt = nil
	return questions, nil
}

func (q *memoryQuestions) owned(id uuid.UUID, userID string) (*models.Question, error) {
	for _, s := range q.store.sessions {
		if s.UserID != userID {
			continue
		}
		for i := range s.Questions {
			if s.Questions[i].ID == id {
				return &s.Questions[i], nil
			}
		}
	}
	return nil, repositories.ErrNotFound
}

func (q *memoryQuestions) TogglePin(id uuid.UUID, userID string) (*models.Question, error) {
	q.store.mu.Lock()
	defer q.store.mu.Unlock()
	question, err := q.owned(id, userID)
	if err != nil {
		return nil, err
	}
	question.IsPinned = !question.IsPinned
	copied := *question
	return &copied, nil
}

func (q *memoryQuestions) UpdateNote(id uuid.UUID, userID string, note string) (*models.Question, error) {
	q.store.mu.Lock()
	defer q.store.mu.Unlock()
	question, err := q.owned(id, userID)
	if err != nil {
		return nil, err
	}
	question.Note = note
	copied := *question
	return &copied, nil
}

type recordingQueue struct {
	mu  sync.Mutex
	ids []uuid.UUID
}

func (r *recordingQueue) Enqueue(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, id)
}

type stubSearch struct {
	enabled bool
	hits    []models.QuestionSearchHit
	deleted []uuid.UUID
	userID  string
	limit   int
}

func (s *stubSearch) Enabled() bool { return s.enabled }

func (s *stubSearch) IndexSession(context.Context, uuid.UUID) (int, error) { return 0, nil }

func (s *stubSearch) DeleteSession(_ context.Context, id uuid.UUID) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubSearch) Search(_ context.Context, userID, _ string, limit int) ([]models.QuestionSearchHit, error) {
	if !s.enabled {
		return nil, services.ErrIndexDisabled
	}
	s.userID, s.limit = userID, limit
	return s.hits, nil
}

type testEnv struct {
	app       *fiber.App
	generator *stubGenerator
	store     *memoryStore
	queue     *recordingQueue
	search    *stubSearch
}

func newTestEnv() *testEnv {
	env := &testEnv{
		generator: &stubGenerator{},
		store:     newMemoryStore(),
		queue:     &recordingQueue{},
		search:    &stubSearch{},
	}

	interview := services.NewInterviewService(
		env.generator,
		services.NewDocumentExtractor(),
		services.NewResponseNormalizer(),
		"test-model",
	)

	app := fiber.New()
	api := app.Group("/api/v1", middleware.Auth(""))
	NewAIHandler(interview, 1024).RegisterRoutes(api.Group("/ai"))
	NewSessionHandler(env.store, env.search, env.queue).RegisterRoutes(api.Group("/sessions"))
	NewQuestionHandler(env.store.questions(), env.search, env.queue).RegisterRoutes(api.Group("/questions"))
	env.app = app

	return env
}
