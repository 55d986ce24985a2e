// Package content generates reading and vocabulary exercises through the
// OpenAI chat completions API.
package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"littlesteps/backend/config"
)

const (
	ExerciseStory      = "story"
	ExerciseVocabulary = "vocabulary"
)

// Client is a client for the OpenAI chat completions API
type Client struct {
	apiKey      string
	apiURL      string
	model       string
	temperature float64
	httpClient  *http.Client
}

// NewClient creates a new content generation client
func NewClient(cfg *config.Config) *Client {
	return &Client{
		apiKey:      cfg.OpenAIKey,
		apiURL:      cfg.OpenAIURL,
		model:       cfg.OpenAIModel,
		temperature: 0.7,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Message represents a message in the chat conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents a request to the chat completions API
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

// ChatResponse represents a response from the chat completions API
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// GenerateRequest describes the exercise to generate
type GenerateRequest struct {
	Language     string `json:"language"`
	Theme        string `json:"theme"`
	ExerciseType string `json:"exercise_type"`
	Difficulty   string `json:"difficulty"`
	WordCount    int    `json:"word_count"`
}

// Question is one comprehension question for a story exercise
type Question struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// VocabWord is one word in a vocabulary exercise
type VocabWord struct {
	Word        string `json:"word"`
	Translation string `json:"translation"`
}

// Exercise is the generated content. Story exercises fill Story/Questions,
// vocabulary exercises fill Words/Prompt.
type Exercise struct {
	ExerciseType string      `json:"exercise_type"`
	Story        string      `json:"story,omitempty"`
	Questions    []Question  `json:"questions,omitempty"`
	Words        []VocabWord `json:"words,omitempty"`
	Prompt       string      `json:"prompt,omitempty"`
}

// GenerateExercise generates an exercise for the given request
func (c *Client) GenerateExercise(req GenerateRequest) (*Exercise, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("content generation is not configured")
	}

	prompt, err := buildPrompt(req)
	if err != nil {
		return nil, err
	}

	messages := []Message{
		{Role: "system", Content: "You write short, cheerful learning exercises for children aged 5 to 10. Always answer with a single JSON object and nothing else."},
		{Role: "user", Content: prompt},
	}

	request := ChatRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   800,
		Temperature: c.temperature,
	}

	requestData, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %v", err)
	}

	httpReq, err := http.NewRequest("POST", c.apiURL, bytes.NewBuffer(requestData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	var response ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %v", err)
	}

	if response.Error != nil {
		return nil, fmt.Errorf("API error: %s", response.Error.Message)
	}

	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("no response choices returned")
	}

	return parseExercise(req.ExerciseType, response.Choices[0].Message.Content)
}

func buildPrompt(req GenerateRequest) (string, error) {
	switch req.ExerciseType {
	case ExerciseStory:
		return fmt.Sprintf(
			"Write a %s-level story of about %d words in %s about the theme '%s'. "+
				"Then write 3 multiple-choice comprehension questions about it, each with 3 options. "+
				"Return JSON with this exact shape: "+
				`{"story": "...", "questions": [{"question": "...", "options": ["...", "...", "..."], "answer": "..."}]}`,
			req.Difficulty, req.WordCount, req.Language, req.Theme,
		), nil
	case ExerciseVocabulary:
		return fmt.Sprintf(
			"Pick %d %s-level words in %s about the theme '%s', each with an English translation, "+
				"and one short practice prompt using them. "+
				"Return JSON with this exact shape: "+
				`{"words": [{"word": "...", "translation": "..."}], "prompt": "..."}`,
			req.WordCount, req.Difficulty, req.Language, req.Theme,
		), nil
	default:
		return "", fmt.Errorf("unknown exercise type: %s", req.ExerciseType)
	}
}

func parseExercise(exerciseType, raw string) (*Exercise, error) {
	// Models occasionally wrap the JSON in a markdown code fence.
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var exercise Exercise
	if err := json.Unmarshal([]byte(raw), &exercise); err != nil {
		return nil, fmt.Errorf("failed to parse generated exercise: %v", err)
	}
	exercise.ExerciseType = exerciseType

	switch exerciseType {
	case ExerciseStory:
		if exercise.Story == "" || len(exercise.Questions) == 0 {
			return nil, fmt.Errorf("generated story exercise is incomplete")
		}
	case ExerciseVocabulary:
		if len(exercise.Words) == 0 {
			return nil, fmt.Errorf("generated vocabulary exercise is incomplete")
		}
	}
	return &exercise, nil
}
