package services

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"fenced json", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"fenced without tag", "```\n[1,2]\n```", `[1,2]`},
		{"uppercase tag", "```JSON\n{\"a\":1}\n```", `{"a":1}`},
		{"inner fences removed too", "prefix ```json {\"a\":1} ``` suffix", `prefix  {"a":1}  suffix`},
		{"no fences", "  {\"a\":1}\n", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFences(tt.in))
		})
	}
}

func TestUnwrapFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"fenced json", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"uppercase tag", "  ```JSON\n[1]\n```  \n", `[1]`},
		{"inner fence kept", "```json\n{\"a\":\"```go\\nx\\n```\"}\n```", "{\"a\":\"```go\\nx\\n```\"}"},
		{"prose outside fence", "see ```json {} ``` here", "see ```json {} ``` here"},
		{"no fences", " {\"a\":1} ", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UnwrapFence(tt.in))
		})
	}
}

func TestNormalize_KeepsCodeBlocksInAnswers(t *testing.T) {
	n := NewResponseNormalizer()

	tests := []struct {
		name string
		raw  string
	}{
		{"fenced reply", "```json\n[{\"question\":\"Print in Go?\",\"answer\":\"Use fmt:\\n```go\\nfmt.Println(1)\\n```\"}]\n```"},
		{"bare reply", "[{\"question\":\"Print in Go?\",\"answer\":\"Use fmt:\\n```go\\nfmt.Println(1)\\n```\"}]"},
		{"prose before fence", "Here they are:\n```json\n[{\"question\":\"Print in Go?\",\"answer\":\"Use fmt:\\n```go\\nfmt.Println(1)\\n```\"}]\n```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := n.Normalize(tt.raw, ShapeQuestionList)
			require.NoError(t, err)

			var items []map[string]string
			require.NoError(t, json.Unmarshal(got, &items))
			require.Len(t, items, 1)
			assert.Equal(t, "Use fmt:\n```go\nfmt.Println(1)\n```", items[0]["answer"])
		})
	}
}

func TestNormalize_ValidShapes(t *testing.T) {
	n := NewResponseNormalizer()

	tests := []struct {
		name  string
		raw   string
		shape ResultShape
		want  string
	}{
		{
			name:  "fenced question list",
			raw:   "```json\n[{\"question\":\"What is a goroutine?\",\"answer\":\"A lightweight thread.\"}]\n```",
			shape: ShapeQuestionList,
			want:  `[{"question":"What is a goroutine?","answer":"A lightweight thread."}]`,
		},
		{
			name:  "prose around a fenced explanation",
			raw:   "prefix ```json {\"title\":\"Event loop\",\"explanation\":\"It schedules callbacks.\"} ``` suffix",
			shape: ShapeExplanation,
			want:  `{"title":"Event loop","explanation":"It schedules callbacks."}`,
		},
		{
			name:  "array after prose with braces in answers",
			raw:   "Here you go:\n```json\n[{\"question\":\"Show a map literal\",\"answer\":\"m := map[string]int{}\"}]\n```\nGood luck!",
			shape: ShapeQuestionList,
			want:  `[{"question":"Show a map literal","answer":"m := map[string]int{}"}]`,
		},
		{
			name:  "extra keys are kept",
			raw:   `{"title":"T","explanation":"E","level":"beginner"}`,
			shape: ShapeExplanation,
			want:  `{"title":"T","explanation":"E","level":"beginner"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := n.Normalize(tt.raw, tt.shape)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestNormalize_Malformed(t *testing.T) {
	n := NewResponseNormalizer()

	_, err := n.Normalize("not json at all", ShapeQuestionList)
	require.Error(t, err)

	var malformed *MalformedResponseError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "not json at all", malformed.Cleaned)
	assert.NotNil(t, malformed.Cause)
}

func TestNormalize_SchemaMismatch(t *testing.T) {
	n := NewResponseNormalizer()

	tests := []struct {
		name  string
		raw   string
		shape ResultShape
	}{
		{"object where list expected", `{"question":"q","answer":"a"}`, ShapeQuestionList},
		{"empty list", `[]`, ShapeQuestionList},
		{"empty answer", `[{"question":"q","answer":""}]`, ShapeQuestionList},
		{"missing answer", `[{"question":"q"}]`, ShapeQuestionList},
		{"list where explanation expected", `[{"title":"t","explanation":"e"}]`, ShapeExplanation},
		{"missing title", `{"explanation":"e"}`, ShapeExplanation},
		{"wrong type", `{"title":1,"explanation":"e"}`, ShapeExplanation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := n.Normalize(tt.raw, tt.shape)
			require.Error(t, err)

			var mismatch *SchemaMismatchError
			require.True(t, errors.As(err, &mismatch), "got %T: %v", err, err)
			assert.Equal(t, tt.shape, mismatch.Shape)
			assert.NotEmpty(t, mismatch.Problems)
			assert.Equal(t, tt.raw, mismatch.Cleaned)
		})
	}
}

func TestOutermostJSON(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{`say {"a":1} ok`, `{"a":1}`, true},
		{`say [1,{"a":2}] ok`, `[1,{"a":2}]`, true},
		{`no json`, "", false},
		{`} backwards {`, "", false},
	}

	for _, tt := range tests {
		got, ok := outermostJSON(tt.in)
		assert.Equal(t, tt.wantOK, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
