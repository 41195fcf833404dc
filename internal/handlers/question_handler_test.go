package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/interview-prep/internal/middleware"
	"alfredoptarigan/interview-prep/internal/models"
)

func firstQuestionID(session map[string]interface{}) string {
	questions := session["questions"].([]interface{})
	return questions[0].(map[string]interface{})["id"].(string)
}

func TestAddQuestions(t *testing.T) {
	env := newTestEnv()
	session := createSession(t, env)
	sessionID := session["id"].(string)

	resp, body, _ := postJSON(t, env, "/api/v1/questions/add", map[string]interface{}{
		"sessionId": sessionID,
		"questions": []map[string]string{{"question": "What is sharding?", "answer": "Splitting data."}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "%v", body)
	assert.Len(t, body["questions"], 1)

	// create and add both notify the index worker
	assert.Len(t, env.queue.ids, 2)

	resp, body, _ = do(t, env, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+sessionID, nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["session"].(map[string]interface{})["questions"], 3)
}

func TestAddQuestions_KeepsGeneratedOrder(t *testing.T) {
	env := newTestEnv()
	session := createSession(t, env)
	sessionID := session["id"].(string)

	resp, body, _ := postJSON(t, env, "/api/v1/questions/add", map[string]interface{}{
		"sessionId": sessionID,
		"questions": []map[string]string{
			{"question": "What is sharding?"},
			{"question": "What is replication?"},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "%v", body)
	added := body["questions"].([]interface{})
	require.Len(t, added, 2)
	assert.EqualValues(t, 2, added[0].(map[string]interface{})["position"])
	assert.EqualValues(t, 3, added[1].(map[string]interface{})["position"])

	pinned := added[1].(map[string]interface{})["id"].(string)
	resp, _, _ = postJSON(t, env, "/api/v1/questions/"+pinned+"/pin", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body, _ = do(t, env, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+sessionID, nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var order []string
	for _, q := range body["session"].(map[string]interface{})["questions"].([]interface{}) {
		order = append(order, q.(map[string]interface{})["question"].(string))
	}
	assert.Equal(t, []string{
		"What is replication?",
		"What is the event loop?",
		"What is an index?",
		"What is sharding?",
	}, order)
}

func TestAddQuestions_Rejections(t *testing.T) {
	env := newTestEnv()

	resp, body, _ := postJSON(t, env, "/api/v1/questions/add", map[string]interface{}{
		"sessionId": "nope",
		"questions": []map[string]string{},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	fields := body["fields"].(map[string]interface{})
	assert.Contains(t, fields, "sessionId")
	assert.Contains(t, fields, "questions")

	resp, _, _ = postJSON(t, env, "/api/v1/questions/add", map[string]interface{}{
		"sessionId": uuid.NewString(),
		"questions": []map[string]string{{"question": "q"}},
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Empty(t, env.queue.ids)
}

func TestTogglePin(t *testing.T) {
	env := newTestEnv()
	session := createSession(t, env)
	questionID := firstQuestionID(session)

	resp, body, _ := postJSON(t, env, "/api/v1/questions/"+questionID+"/pin", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["question"].(map[string]interface{})["isPinned"])

	resp, body, _ = postJSON(t, env, "/api/v1/questions/"+questionID+"/pin", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["question"].(map[string]interface{})["isPinned"])

	resp, _, _ = postJSON(t, env, "/api/v1/questions/"+uuid.NewString()+"/pin", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateNote(t *testing.T) {
	env := newTestEnv()
	session := createSession(t, env)
	questionID := firstQuestionID(session)

	resp, body, _ := postJSON(t, env, "/api/v1/questions/"+questionID+"/note", map[string]string{
		"note": "Mention libuv phases",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Mention libuv phases", body["question"].(map[string]interface{})["note"])
}

func TestSearchQuestions(t *testing.T) {
	env := newTestEnv()

	resp, _, _ := do(t, env, httptest.NewRequest(http.MethodGet, "/api/v1/questions/search?q=event+loop", nil))
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	env.search.enabled = true
	env.search.hits = []models.QuestionSearchHit{{QuestionID: "q1", SessionID: "s1", Text: "What is the event loop?", Score: 0.91}}

	resp, body, _ := do(t, env, httptest.NewRequest(http.MethodGet, "/api/v1/questions/search?q=event+loop&limit=100", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "event loop", body["query"])
	assert.Len(t, body["results"], 1)
	assert.Equal(t, maxSearchLimit, env.search.limit)
	assert.Equal(t, middleware.AnonymousUser, env.search.userID)

	resp, _, _ = do(t, env, httptest.NewRequest(http.MethodGet, "/api/v1/questions/search", nil))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _, _ = do(t, env, httptest.NewRequest(http.MethodGet, "/api/v1/questions/search?q=x&limit=zero", nil))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
