// Package verify asks a vision model whether a proof photo matches its habit.
package verify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

const defaultPrompt = `You are an AI assistant used on Rootine, a habit tracker app.
Rootine lets users create habits they want to keep up, and are rewarded with coins when they do.
They upload photos to prove they've completed the habit. I need you to verify that the image is relevant to the habit.
Don't be too strict with the verification, but if the image is clearly not relevant to the habit, return false.
For example, if someone says they want to walk their dog, but it is a photo of them playing video games, return false.`

// Client talks to an OpenAI compatible chat completions endpoint
type Client struct {
	apiKey  string
	baseURL string
	model   string
	prompt  string
	http    *http.Client
}

// NewClient builds a verifier. An empty apiKey accepts every image.
func NewClient(apiKey, baseURL, model, prompt string) *Client {
	if strings.TrimSpace(prompt) == "" {
		prompt = defaultPrompt
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		prompt:  strings.TrimSpace(prompt),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []message         `json:"messages"`
	Temperature    float64           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type verdict struct {
	OK *bool `json:"ok"`
}

// Verify returns the model's verdict for the image. Transport and decoding
// failures are returned as errors.
func (c *Client) Verify(ctx context.Context, image, title, description string) (bool, error) {
	if c.apiKey == "" {
		return true, nil
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: c.prompt},
			{Role: "user", Content: []contentPart{
				{Type: "text", Text: "Goal title: " + title},
				{Type: "text", Text: "User description: " + description},
				{Type: "text", Text: `Return strictly JSON matching {"ok": boolean} and nothing else.`},
				{Type: "image_url", ImageURL: &imageURL{URL: image}},
			}},
		},
		Temperature:    0,
		ResponseFormat: map[string]string{"type": "json_object"},
	})
	if err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Title", "Rootine")

	resp, err := c.http.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return false, err
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("verifier returned %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var chat chatResponse
	if err := json.Unmarshal(raw, &chat); err != nil {
		return false, fmt.Errorf("decode completion: %w", err)
	}
	if len(chat.Choices) == 0 {
		return false, fmt.Errorf("completion has no choices")
	}
	return parseVerdict(chat.Choices[0].Message.Content)
}

// parseVerdict reads {"ok": bool}, tolerating markdown code fences
func parseVerdict(content string) (bool, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	var v verdict
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &v); err != nil {
		return false, fmt.Errorf("decode verdict %q: %w", content, err)
	}
	if v.OK == nil {
		return false, fmt.Errorf("verdict %q has no ok field", content)
	}
	return *v.OK, nil
}
