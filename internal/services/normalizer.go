package services

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

type ResultShape string

const (
	ShapeQuestionList ResultShape = "question_list"
	ShapeExplanation  ResultShape = "explanation"
)

// fencePattern matches every Markdown fence marker, with or without a json tag.
var fencePattern = regexp.MustCompile("(?i)```(?:json)?")

// enclosingFence matches a reply that is one fenced block from start to end.
var enclosingFence = regexp.MustCompile("(?is)^\\s*```(?:json)?\\s*(.*?)\\s*```\\s*$")

var shapeSchemas = map[ResultShape]*gojsonschema.Schema{
	ShapeQuestionList: mustSchema(`{
		"type": "array",
		"minItems": 1,
		"items": {
			"type": "object",
			"required": ["question", "answer"],
			"properties": {
				"question": {"type": "string", "minLength": 1},
				"answer": {"type": "string", "minLength": 1}
			}
		}
	}`),
	ShapeExplanation: mustSchema(`{
		"type": "object",
		"required": ["title", "explanation"],
		"properties": {
			"title": {"type": "string", "minLength": 1},
			"explanation": {"type": "string", "minLength": 1}
		}
	}`),
}

func mustSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("invalid result schema: %v", err))
	}
	return schema
}

type ResponseNormalizer interface {
	Normalize(raw string, shape ResultShape) (json.RawMessage, error)
}

type responseNormalizer struct{}

func NewResponseNormalizer() ResponseNormalizer {
	return &responseNormalizer{}
}

// StripFences removes every fence marker from text and trims the result.
func StripFences(text string) string {
	return strings.TrimSpace(fencePattern.ReplaceAllString(text, ""))
}

// UnwrapFence removes only the fence pair enclosing the whole text, leaving
// fences inside the content alone. Text without an enclosing fence is trimmed.
func UnwrapFence(text string) string {
	if m := enclosingFence.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return strings.TrimSpace(text)
}

// Normalize implements ResponseNormalizer.
func (n *responseNormalizer) Normalize(raw string, shape ResultShape) (json.RawMessage, error) {
	cleaned := StripFences(raw)

	payload, ok := firstValidJSON(strings.TrimSpace(raw), UnwrapFence(raw))
	if !ok {
		payload = cleaned
		if candidate, found := outermostJSON(raw); found && json.Valid([]byte(candidate)) {
			payload = candidate
		} else if candidate, found := outermostJSON(cleaned); found && json.Valid([]byte(candidate)) {
			payload = candidate
		}
	}

	var parsed any
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return nil, &MalformedResponseError{Cleaned: cleaned, Cause: err}
	}

	schema, ok := shapeSchemas[shape]
	if !ok {
		return nil, fmt.Errorf("unknown result shape %q", shape)
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(parsed))
	if err != nil {
		return nil, fmt.Errorf("failed to validate %s shape: %w", shape, err)
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, re := range result.Errors() {
			problems = append(problems, fmt.Sprintf("%s: %s", re.Field(), re.Description()))
		}
		return nil, &SchemaMismatchError{Shape: shape, Problems: problems, Cleaned: cleaned}
	}

	return json.RawMessage(payload), nil
}

func firstValidJSON(candidates ...string) (string, bool) {
	for _, c := range candidates {
		if json.Valid([]byte(c)) {
			return c, true
		}
	}
	return "", false
}

// outermostJSON cuts text down to the span between the first opening bracket
// and its last matching closing bracket.
func outermostJSON(text string) (string, bool) {
	startObj := strings.Index(text, "{")
	startArr := strings.Index(text, "[")

	start, closing := -1, ""
	switch {
	case startObj == -1 && startArr == -1:
		return "", false
	case startArr == -1 || (startObj != -1 && startObj < startArr):
		start, closing = startObj, "}"
	default:
		start, closing = startArr, "]"
	}

	end := strings.LastIndex(text, closing)
	if end <= start {
		return "", false
	}
	return text[start : end+1], true
}
