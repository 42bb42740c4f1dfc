package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"eduhealth_backend/pkg/apperrors"
)

// Client talks to the Groq OpenAI-compatible chat completions API. One
// instance per process, injected into the chat service.
type Client struct {
	apiKey        string
	baseURL       string
	fastModel     string // short conversational replies
	balancedModel string // longer recommendation texts
	http          *http.Client
}

type Config struct {
	APIKey        string
	BaseURL       string
	FastModel     string
	BalancedModel string
	Timeout       time.Duration
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiKey:        cfg.APIKey,
		baseURL:       cfg.BaseURL,
		fastModel:     cfg.FastModel,
		balancedModel: cfg.BalancedModel,
		http:          &http.Client{Timeout: timeout},
	}
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// ChatReply answers one user message given the recent conversation history.
func (c *Client) ChatReply(ctx context.Context, userMessage string, history []Message, userContext string) (string, error) {
	system := "You are EduHealth's assistant for learning and wellness. " +
		"Be concise, practical and encouraging. User context: " + userContext

	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, Message{Role: "system", Content: system})
	messages = append(messages, history...)
	messages = append(messages, Message{Role: "user", Content: userMessage})

	return c.complete(ctx, c.fastModel, messages, 512)
}

// LearningRecommendation builds a study recommendation from the user's
// progress context.
func (c *Client) LearningRecommendation(ctx context.Context, userContext string) (string, error) {
	messages := []Message{
		{Role: "system", Content: "You are an educational advisor. Suggest what the learner should focus on next and why, in a short actionable list."},
		{Role: "user", Content: userContext},
	}
	return c.complete(ctx, c.balancedModel, messages, 1024)
}

// WellnessRecommendation builds a wellness recommendation from the user's
// recent activity context.
func (c *Client) WellnessRecommendation(ctx context.Context, userContext string) (string, error) {
	messages := []Message{
		{Role: "system", Content: "You are a wellness coach. Suggest balanced, realistic activities based on the user's recent habits. Do not give medical advice."},
		{Role: "user", Content: userContext},
	}
	return c.complete(ctx, c.balancedModel, messages, 1024)
}

// StudyPlan generates a structured weekly study plan for the given goals and
// time budget. The model is asked for a JSON document, which is validated and
// handed to the caller untouched.
func (c *Client) StudyPlan(ctx context.Context, goals string, weeklyHours int, difficulty string) (json.RawMessage, error) {
	prompt := fmt.Sprintf(
		"Create a personalized study plan.\nGoals: %s\nAvailable time per week: %d hours\nDifficulty level: %s\n\n"+
			"Respond with a single JSON object with keys: weekly_schedule (object keyed by weekday, each an "+
			"array of tasks), milestones (array of {week, goal, deliverable}), resources (array of "+
			"{type, title, duration}) and tips (array of strings). "+
			"Keep the plan realistic for the available time.",
		goals, weeklyHours, difficulty,
	)
	messages := []Message{
		{Role: "system", Content: "You are an expert educational planner. Respond with valid JSON only, no prose."},
		{Role: "user", Content: prompt},
	}
	return c.completeJSON(ctx, c.balancedModel, messages, 2048)
}

// LearningAnalysis extracts patterns and actionable insights from the user's
// learning history.
func (c *Client) LearningAnalysis(ctx context.Context, learningData string) (json.RawMessage, error) {
	prompt := "Analyze the following learning data and respond with a single JSON object with keys: " +
		"learning_streak, most_active_time, preferred_subjects (array), completion_rate, " +
		"recommendations (array), strengths (array) and areas_for_improvement (array).\n\n" +
		"Learning data:\n" + learningData
	messages := []Message{
		{Role: "system", Content: "You are a data analyst specializing in learning analytics. Respond with valid JSON only, no prose."},
		{Role: "user", Content: prompt},
	}
	return c.completeJSON(ctx, c.balancedModel, messages, 1024)
}

// completeJSON runs a completion whose output must be a JSON document.
func (c *Client) completeJSON(ctx context.Context, model string, messages []Message, maxTokens int) (json.RawMessage, error) {
	content, err := c.complete(ctx, model, messages, maxTokens)
	if err != nil {
		return nil, err
	}

	// Models occasionally wrap the document in a markdown fence despite the
	// instructions.
	doc := strings.TrimSpace(content)
	doc = strings.TrimPrefix(doc, "```json")
	doc = strings.TrimPrefix(doc, "```")
	doc = strings.TrimSuffix(doc, "```")
	doc = strings.TrimSpace(doc)

	if !json.Valid([]byte(doc)) {
		return nil, apperrors.Wrap(nil, apperrors.CodeExternalServiceError, "ai", "Malformed AI response", http.StatusBadGateway)
	}
	return json.RawMessage(doc), nil
}

func (c *Client) complete(ctx context.Context, model string, messages []Message, maxTokens int) (string, error) {
	payload := completionRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: 0.7,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", apperrors.InternalError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", apperrors.InternalError(err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeExternalServiceError, "ai", "AI service unreachable", http.StatusBadGateway)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeExternalServiceError, "ai", "Failed to read AI response", http.StatusBadGateway)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", apperrors.Wrap(
			fmt.Errorf("ai service returned HTTP %d", resp.StatusCode),
			apperrors.CodeExternalServiceError, "ai", "AI request failed", http.StatusBadGateway,
		)
	}

	var completion completionResponse
	if err := json.Unmarshal(data, &completion); err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeExternalServiceError, "ai", "Malformed AI response", http.StatusBadGateway)
	}
	if len(completion.Choices) == 0 {
		return "", apperrors.Wrap(nil, apperrors.CodeExternalServiceError, "ai", "Empty AI response", http.StatusBadGateway)
	}

	return completion.Choices[0].Message.Content, nil
}
