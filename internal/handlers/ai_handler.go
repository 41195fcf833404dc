package handlers

import (
	"fmt"
	"io"
	"log"
	"mime"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/interview-prep/internal/models"
	"alfredoptarigan/interview-prep/internal/services"
)

var acceptedUploadTypes = map[string]bool{
	"application/pdf": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/msword": true,
	"text/plain":         true,
}

type AIHandler struct {
	interview   services.InterviewService
	maxFileSize int64
}

func NewAIHandler(interview services.InterviewService, maxFileSize int64) *AIHandler {
	return &AIHandler{
		interview:   interview,
		maxFileSize: maxFileSize,
	}
}

func (h *AIHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/generate-questions", h.HandleGenerateQuestions)
	router.Post("/generate-explanation", h.HandleGenerateExplanation)
	router.Post("/generate-questions-from-resume", h.HandleGenerateFromResume)
}

func (h *AIHandler) HandleGenerateQuestions(c *fiber.Ctx) error {
	var req models.GenerateQuestionsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, fmt.Sprintf("invalid request body: %v", err))
	}

	if ok, err := validateRequest(c, &req); !ok {
		return err
	}

	result, err := h.interview.GenerateQuestions(c.UserContext(), services.QuestionsInput{
		Role:          req.Role,
		Experience:    req.Experience,
		TopicsToFocus: req.TopicsToFocus,
		Count:         int(req.NumberOfQuestions),
	})
	if err != nil {
		return writeError(c, "Failed to generate questions", err)
	}

	return sendJSON(c, result)
}

func (h *AIHandler) HandleGenerateExplanation(c *fiber.Ctx) error {
	var req models.GenerateExplanationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, fmt.Sprintf("invalid request body: %v", err))
	}

	if ok, err := validateRequest(c, &req); !ok {
		return err
	}

	result, err := h.interview.GenerateExplanation(c.UserContext(), req.Question)
	if err != nil {
		return writeError(c, "Failed to generate explanation", err)
	}

	return sendJSON(c, result)
}

func (h *AIHandler) HandleGenerateFromResume(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "file is required")
	}

	if file.Size > h.maxFileSize {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
			"error": fmt.Sprintf("file too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	if err := checkUploadType(file); err != nil {
		return writeError(c, "Failed to generate questions", err)
	}

	count := models.QuestionCount(models.DefaultResumeQuestionCount)
	if raw := strings.TrimSpace(c.FormValue("numberOfQuestions")); raw != "" {
		if count, err = models.ParseQuestionCount(raw); err != nil {
			return badRequest(c, err.Error())
		}
	}

	form := models.ResumeQuestionsForm{
		Experience:        c.FormValue("experience"),
		JobTitle:          c.FormValue("jobTitle"),
		NumberOfQuestions: count,
	}
	if ok, err := validateRequest(c, &form); !ok {
		return err
	}

	data, err := readUpload(file)
	if err != nil {
		return badRequest(c, fmt.Sprintf("failed to read uploaded file: %v", err))
	}

	log.Printf("📎 Resume upload %s (%d bytes, %s)\n", file.Filename, file.Size, file.Header.Get(fiber.HeaderContentType))

	result, err := h.interview.GenerateQuestionsFromResume(c.UserContext(), services.ResumeInput{
		Data:       data,
		Filename:   file.Filename,
		Experience: form.Experience,
		JobTitle:   form.JobTitle,
		Count:      int(form.NumberOfQuestions),
	})
	if err != nil {
		return writeError(c, "Failed to generate questions from resume", err)
	}

	return sendJSON(c, result)
}

// checkUploadType accepts the document MIME types and defers to the file
// extension when the client sent no specific type.
func checkUploadType(file *multipart.FileHeader) error {
	raw := file.Header.Get(fiber.HeaderContentType)
	if raw == "" {
		return nil
	}

	mediaType, _, err := mime.ParseMediaType(raw)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(strings.SplitN(raw, ";", 2)[0]))
	}

	if mediaType == "application/octet-stream" || acceptedUploadTypes[mediaType] {
		return nil
	}

	return &services.UnsupportedTypeError{
		Extension: services.ExtensionOf(file.Filename),
		MediaType: mediaType,
	}
}

func readUpload(file *multipart.FileHeader) ([]byte, error) {
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(f)
}

// sendJSON writes already-encoded JSON as the response body.
func sendJSON(c *fiber.Ctx, body []byte) error {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(fiber.StatusOK).Send(body)
}
