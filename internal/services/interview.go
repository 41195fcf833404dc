package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
)

type QuestionsInput struct {
	Role          string
	Experience    string
	TopicsToFocus string
	Count         int
}

type ResumeInput struct {
	Data       []byte
	Filename   string
	Experience string
	JobTitle   string
	Count      int
}

type InterviewService interface {
	GenerateQuestions(ctx context.Context, in QuestionsInput) (json.RawMessage, error)
	GenerateExplanation(ctx context.Context, question string) (json.RawMessage, error)
	GenerateQuestionsFromResume(ctx context.Context, in ResumeInput) (json.RawMessage, error)
}

type interviewService struct {
	generator     TextGenerator
	extractor     DocumentExtractor
	normalizer    ResponseNormalizer
	promptBuilder *PromptBuilder
	model         string
}

func NewInterviewService(
	generator TextGenerator,
	extractor DocumentExtractor,
	normalizer ResponseNormalizer,
	model string,
) InterviewService {
	return &interviewService{
		generator:     generator,
		extractor:     extractor,
		normalizer:    normalizer,
		promptBuilder: NewPromptBuilder(),
		model:         model,
	}
}

// GenerateQuestions implements InterviewService.
func (s *interviewService) GenerateQuestions(ctx context.Context, in QuestionsInput) (json.RawMessage, error) {
	prompt := s.promptBuilder.BuildQuestionAnswerPrompt(in.Role, in.Experience, in.TopicsToFocus, in.Count)
	return s.run(ctx, "questions", prompt, ShapeQuestionList)
}

// GenerateExplanation implements InterviewService.
func (s *interviewService) GenerateExplanation(ctx context.Context, question string) (json.RawMessage, error) {
	prompt := s.promptBuilder.BuildConceptExplanationPrompt(question)
	return s.run(ctx, "explanation", prompt, ShapeExplanation)
}

// GenerateQuestionsFromResume implements InterviewService.
func (s *interviewService) GenerateQuestionsFromResume(ctx context.Context, in ResumeInput) (json.RawMessage, error) {
	log.Printf("📄 Extracting text from %s (%d bytes)...", in.Filename, len(in.Data))
	text, err := s.extractor.Extract(in.Data, ExtensionOf(in.Filename))
	if err != nil {
		return nil, err
	}
	log.Printf("✅ Extracted %d characters", len([]rune(text)))

	prompt := s.promptBuilder.BuildResumeQuestionPrompt(text, in.Experience, in.JobTitle, in.Count)
	return s.run(ctx, "resume questions", prompt, ShapeQuestionList)
}

func (s *interviewService) run(ctx context.Context, label, prompt string, shape ResultShape) (json.RawMessage, error) {
	log.Printf("📝 %s prompt length: %d characters", label, len(prompt))

	response, err := s.generator.GenerateText(ctx, prompt, s.model)
	if err != nil {
		log.Printf("❌ %s generation failed: %v", label, err)
		return nil, fmt.Errorf("failed to generate %s: %w", label, err)
	}
	log.Printf("🤖 %s response received from %s: %d characters", label, s.generator.Provider(), len(response))

	result, err := s.normalizer.Normalize(response, shape)
	if err != nil {
		log.Printf("❌ Failed to normalize %s response: %v", label, err)
		return nil, err
	}

	return result, nil
}
