package services

import (
	"fmt"
	"strings"
)

// Both batch prompts ask for the same array shape so the normalizer validates
// them with one schema.
const questionListShape = `[
  {
    "question": "Question here?",
    "answer": "Answer here."
  }
]`

const explanationShape = `{
  "title": "Short title here",
  "explanation": "Explanation here."
}`

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildQuestionAnswerPrompt creates prompt for role-based question generation
func (pb *PromptBuilder) BuildQuestionAnswerPrompt(role, experience, topicsToFocus string, count int) string {
	return fmt.Sprintf(`You are an AI trained to generate technical interview questions and answers.

Task:
- Role: %s
- Candidate Experience: %s
- Focus Topics: %s
- Write %d interview questions.
- For each question, generate a detailed but beginner-friendly answer.
- If the answer needs a code example, add a small code block inside the answer string.
- Keep formatting very clean.

Return ONLY a pure JSON array like:
%s

Important: Do NOT add any extra text outside the JSON. Only return valid JSON.`,
		strings.TrimSpace(role), strings.TrimSpace(experience), strings.TrimSpace(topicsToFocus), count, questionListShape)
}

// BuildConceptExplanationPrompt creates prompt for explaining one question
func (pb *PromptBuilder) BuildConceptExplanationPrompt(question string) string {
	return fmt.Sprintf(`You are an AI trained to explain interview concepts to a candidate preparing for an interview.

Task:
- Explain the following interview question and the concept behind it in depth, as if teaching a beginner developer.
- Question: "%s"
- After the explanation, provide a short and clear title that summarizes the concept for an article or page header.
- If the explanation needs a code example, add a small code block inside the explanation string.
- Keep formatting very clean and clear.

Return ONLY a valid JSON object in the following format:
%s

Important: Do NOT add any extra text outside the JSON. Only return valid JSON.`,
		strings.TrimSpace(question), explanationShape)
}

// BuildResumeQuestionPrompt creates prompt for resume or job-description based generation
func (pb *PromptBuilder) BuildResumeQuestionPrompt(resumeText, experience, jobTitle string, count int) string {
	return fmt.Sprintf(`You are an expert technical interviewer preparing a candidate for a %s position.

CANDIDATE EXPERIENCE:
%s

RESUME / JOB DESCRIPTION:
%s

Task:
- Read the document above and identify the skills, technologies and responsibilities it mentions.
- Write %d interview questions a hiring manager for this %s role would ask this candidate.
- Mix technical questions about the listed technologies with questions about the projects and responsibilities described.
- For each question, generate a detailed answer the candidate could give.

Return ONLY a pure JSON array like:
%s

Important: Do NOT add any extra text outside the JSON. Only return valid JSON.`,
		strings.TrimSpace(jobTitle), strings.TrimSpace(experience), strings.TrimSpace(resumeText), count, strings.TrimSpace(jobTitle), questionListShape)
}
