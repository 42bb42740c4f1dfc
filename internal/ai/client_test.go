package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"eduhealth_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(Config{
		APIKey:        "test-key",
		BaseURL:       server.URL,
		FastModel:     "fast-model",
		BalancedModel: "balanced-model",
	})
}

func completionWith(content string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		})
	}
}

func TestStudyPlan_ReturnsModelJSON(t *testing.T) {
	var captured completionRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		completionWith(`{"weekly_schedule":{"monday":["Review basics"]},"milestones":[],"resources":[],"tips":["Stay consistent"]}`)(w, r)
	})

	plan, err := client.StudyPlan(context.Background(), "learn Go", 10, "intermediate")
	require.NoError(t, err)

	// The larger model handles structured generation.
	assert.Equal(t, "balanced-model", captured.Model)
	require.Len(t, captured.Messages, 2)
	assert.Contains(t, captured.Messages[1].Content, "learn Go")
	assert.Contains(t, captured.Messages[1].Content, "10 hours")
	assert.Contains(t, captured.Messages[1].Content, "intermediate")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(plan, &decoded))
	assert.Contains(t, decoded, "weekly_schedule")
	assert.Contains(t, decoded, "tips")
}

func TestLearningAnalysis_ReturnsModelJSON(t *testing.T) {
	var captured completionRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		completionWith(`{"learning_streak":"5 days","preferred_subjects":["Go"],"recommendations":["Keep going"]}`)(w, r)
	})

	analysis, err := client.LearningAnalysis(context.Background(), "Courses in progress: 2")
	require.NoError(t, err)

	assert.Equal(t, "balanced-model", captured.Model)
	assert.Contains(t, captured.Messages[1].Content, "Courses in progress: 2")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(analysis, &decoded))
	assert.Equal(t, "5 days", decoded["learning_streak"])
}

func TestCompleteJSON_StripsMarkdownFence(t *testing.T) {
	client := newTestClient(t, completionWith("```json\n{\"tips\":[\"rest\"]}\n```"))

	plan, err := client.StudyPlan(context.Background(), "learn Go", 5, "beginner")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(plan, &decoded))
	assert.Contains(t, decoded, "tips")
}

func TestCompleteJSON_RejectsProse(t *testing.T) {
	client := newTestClient(t, completionWith("Here is your study plan: study every day."))

	_, err := client.StudyPlan(context.Background(), "learn Go", 5, "beginner")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeExternalServiceError, appErr.Code)
}

func TestChatReply_UsesFastModel(t *testing.T) {
	var captured completionRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		completionWith("Hello!")(w, r)
	})

	reply, err := client.ChatReply(context.Background(), "hi", nil, "name=Test subscription=free")
	require.NoError(t, err)

	assert.Equal(t, "fast-model", captured.Model)
	assert.Equal(t, "Hello!", reply)
}

func TestClient_GatewayError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.LearningAnalysis(context.Background(), "data")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeExternalServiceError, appErr.Code)
}
