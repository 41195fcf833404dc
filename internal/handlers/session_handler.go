package handlers

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/interview-prep/internal/middleware"
	"alfredoptarigan/interview-prep/internal/models"
	"alfredoptarigan/interview-prep/internal/repositories"
	"alfredoptarigan/interview-prep/internal/services"
)

// indexQueue is satisfied by services.IndexWorker. A nil queue means the
// question index is disabled.
type indexQueue interface {
	Enqueue(sessionID uuid.UUID)
}

type SessionHandler struct {
	sessionRepo repositories.SessionRepository
	search      services.SearchService
	queue       indexQueue
}

func NewSessionHandler(
	sessionRepo repositories.SessionRepository,
	search services.SearchService,
	queue indexQueue,
) *SessionHandler {
	return &SessionHandler{
		sessionRepo: sessionRepo,
		search:      search,
		queue:       queue,
	}
}

func (h *SessionHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/", h.HandleCreate)
	router.Get("/", h.HandleList)
	router.Get("/:id", h.HandleGet)
	router.Delete("/:id", h.HandleDelete)
}

func (h *SessionHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if ok, err := validateRequest(c, &req); !ok {
		return err
	}

	source := models.SourceManual
	if req.Source != "" {
		source = models.SessionSource(req.Source)
	}

	session := &models.Session{
		ID:            uuid.New(),
		UserID:        middleware.UserID(c),
		Role:          strings.TrimSpace(req.Role),
		Experience:    strings.TrimSpace(req.Experience),
		TopicsToFocus: strings.TrimSpace(req.TopicsToFocus),
		Description:   strings.TrimSpace(req.Description),
		Source:        source,
		Questions:     toQuestions(req.Questions),
	}

	if err := h.sessionRepo.Create(session); err != nil {
		return writeError(c, "Failed to create session", err)
	}

	log.Printf("🗂️  Session %s created with %d questions\n", session.ID, len(session.Questions))
	h.enqueue(session.ID)

	return c.Status(fiber.StatusCreated).JSON(models.SessionResponse{Session: session})
}

func (h *SessionHandler) HandleList(c *fiber.Ctx) error {
	sessions, err := h.sessionRepo.ListByUser(middleware.UserID(c))
	if err != nil {
		return writeError(c, "Failed to list sessions", err)
	}

	return c.JSON(models.SessionListResponse{Sessions: sessions})
}

func (h *SessionHandler) HandleGet(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid session ID format")
	}

	session, err := h.sessionRepo.FindByIDForUser(id, middleware.UserID(c))
	if err != nil {
		return writeError(c, "Failed to load session", err)
	}

	return c.JSON(models.SessionResponse{Session: session})
}

func (h *SessionHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid session ID format")
	}

	if err := h.sessionRepo.Delete(id, middleware.UserID(c)); err != nil {
		return writeError(c, "Failed to delete session", err)
	}

	if h.search != nil {
		if err := h.search.DeleteSession(c.UserContext(), id); err != nil {
			log.Printf("⚠️  Failed to remove index points for session %s: %v\n", id, err)
		}
	}

	return c.JSON(fiber.Map{
		"message": "Session deleted successfully",
	})
}

func (h *SessionHandler) enqueue(id uuid.UUID) {
	if h.queue != nil {
		h.queue.Enqueue(id)
	}
}

func toQuestions(pairs []models.QAPair) []models.Question {
	questions := make([]models.Question, 0, len(pairs))
	for i, p := range pairs {
		questions = append(questions, models.Question{
			ID:       uuid.New(),
			Question: strings.TrimSpace(p.Question),
			Answer:   strings.TrimSpace(p.Answer),
			Position: i,
		})
	}
	return questions
}
