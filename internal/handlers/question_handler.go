package handlers

import (
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/interview-prep/internal/middleware"
	"alfredoptarigan/interview-prep/internal/models"
	"alfredoptarigan/interview-prep/internal/repositories"
	"alfredoptarigan/interview-prep/internal/services"
)

const (
	defaultSearchLimit = 5
	maxSearchLimit     = 20
)

type QuestionHandler struct {
	questionRepo repositories.QuestionRepository
	search       services.SearchService
	queue        indexQueue
}

func NewQuestionHandler(
	questionRepo repositories.QuestionRepository,
	search services.SearchService,
	queue indexQueue,
) *QuestionHandler {
	return &QuestionHandler{
		questionRepo: questionRepo,
		search:       search,
		queue:        queue,
	}
}

func (h *QuestionHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/add", h.HandleAdd)
	router.Get("/search", h.HandleSearch)
	router.Post("/:id/pin", h.HandleTogglePin)
	router.Post("/:id/note", h.HandleUpdateNote)
}

func (h *QuestionHandler) HandleAdd(c *fiber.Ctx) error {
	var req models.AddQuestionsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if ok, err := validateRequest(c, &req); !ok {
		return err
	}

	sessionID := uuid.MustParse(req.SessionID)
	added, err := h.questionRepo.AddToSession(sessionID, middleware.UserID(c), toQuestions(req.Questions))
	if err != nil {
		return writeError(c, "Failed to add questions", err)
	}

	log.Printf("➕ Added %d questions to session %s\n", len(added), sessionID)
	if h.queue != nil {
		h.queue.Enqueue(sessionID)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"questions": added,
	})
}

func (h *QuestionHandler) HandleTogglePin(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid question ID format")
	}

	question, err := h.questionRepo.TogglePin(id, middleware.UserID(c))
	if err != nil {
		return writeError(c, "Failed to update question", err)
	}

	return c.JSON(fiber.Map{
		"question": question,
	})
}

func (h *QuestionHandler) HandleUpdateNote(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid question ID format")
	}

	var req models.UpdateNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	question, err := h.questionRepo.UpdateNote(id, middleware.UserID(c), req.Note)
	if err != nil {
		return writeError(c, "Failed to update question", err)
	}

	return c.JSON(fiber.Map{
		"question": question,
	})
}

func (h *QuestionHandler) HandleSearch(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return badRequest(c, "query parameter q is required")
	}

	limit := defaultSearchLimit
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return badRequest(c, "limit must be a positive number")
		}
		limit = min(v, maxSearchLimit)
	}

	results, err := h.search.Search(c.UserContext(), middleware.UserID(c), query, limit)
	if err != nil {
		return writeError(c, "Failed to search questions", err)
	}

	return c.JSON(models.QuestionSearchResponse{
		Query:   query,
		Results: results,
	})
}
