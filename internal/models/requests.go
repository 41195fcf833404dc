package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// DefaultResumeQuestionCount is used when a resume upload does not ask for a count.
const DefaultResumeQuestionCount = 10

// QuestionCount accepts both a JSON number and a numeric string, since
// browser forms tend to send "5" rather than 5.
type QuestionCount int

func (n *QuestionCount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case float64:
		if v != float64(int(v)) {
			return fmt.Errorf("numberOfQuestions must be a whole number")
		}
		*n = QuestionCount(int(v))
	case string:
		parsed, err := ParseQuestionCount(v)
		if err != nil {
			return err
		}
		*n = parsed
	default:
		return fmt.Errorf("numberOfQuestions must be a number")
	}
	return nil
}

// ParseQuestionCount parses a form value; an empty value yields zero.
func ParseQuestionCount(s string) (QuestionCount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("numberOfQuestions must be a number")
	}
	return QuestionCount(v), nil
}

type GenerateQuestionsRequest struct {
	Role              string        `json:"role" validate:"required"`
	Experience        string        `json:"experience" validate:"required"`
	TopicsToFocus     string        `json:"topicsToFocus" validate:"required"`
	NumberOfQuestions QuestionCount `json:"numberOfQuestions" validate:"required,min=1,max=50"`
}

type GenerateExplanationRequest struct {
	Question string `json:"question" validate:"required"`
}

// ResumeQuestionsForm holds the non-file fields of the resume upload.
type ResumeQuestionsForm struct {
	Experience        string        `form:"experience" json:"experience" validate:"required"`
	JobTitle          string        `form:"jobTitle" json:"jobTitle" validate:"required"`
	NumberOfQuestions QuestionCount `form:"numberOfQuestions" json:"numberOfQuestions" validate:"min=1,max=50"`
}

type QAPair struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer"`
}

type CreateSessionRequest struct {
	Role          string   `json:"role" validate:"required"`
	Experience    string   `json:"experience" validate:"required"`
	TopicsToFocus string   `json:"topicsToFocus"`
	Description   string   `json:"description"`
	Source        string   `json:"source" validate:"omitempty,oneof=manual resume"`
	Questions     []QAPair `json:"questions" validate:"dive"`
}

type AddQuestionsRequest struct {
	SessionID string   `json:"sessionId" validate:"required,uuid"`
	Questions []QAPair `json:"questions" validate:"required,min=1,dive"`
}

type UpdateNoteRequest struct {
	Note string `json:"note"`
}

type SessionResponse struct {
	Session *Session `json:"session"`
}

type SessionListResponse struct {
	Sessions []SessionSummary `json:"sessions"`
}

type QuestionSearchHit struct {
	QuestionID string  `json:"questionId"`
	SessionID  string  `json:"sessionId"`
	Text       string  `json:"text"`
	Score      float32 `json:"score"`
}

type QuestionSearchResponse struct {
	Query   string              `json:"query"`
	Results []QuestionSearchHit `json:"results"`
}
