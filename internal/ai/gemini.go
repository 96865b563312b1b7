package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/example/studytrack/pkg/models"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Gemini is a client for the Gemini generateContent API
type Gemini struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// Option customizes a Gemini client
type Option func(*Gemini)

// WithBaseURL points the client at another endpoint
func WithBaseURL(url string) Option {
	return func(g *Gemini) { g.baseURL = strings.TrimRight(url, "/") }
}

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(g *Gemini) { g.httpClient = c }
}

// New creates a Gemini client
func New(apiKey, model string, opts ...Option) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}
	if model == "" {
		model = "gemini-pro"
	}

	g := &Gemini{
		apiKey:     apiKey,
		model:      model,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Part is a piece of message content
type Part struct {
	Text string `json:"text"`
}

// Content is one message in the conversation
type Content struct {
	Parts []Part `json:"parts"`
}

// GenerateRequest is the generateContent request body
type GenerateRequest struct {
	Contents []Content `json:"contents"`
}

// GenerateResponse is the generateContent response body
type GenerateResponse struct {
	Candidates []struct {
		Content Content `json:"content"`
	} `json:"candidates"`
}

// StatusError is returned when the API answers with a non-200 status
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d", models.ErrExternalService, e.Code)
}

func (e *StatusError) Unwrap() error {
	return models.ErrExternalService
}

// errNoCandidates marks a well-formed reply without any answer
var errNoCandidates = fmt.Errorf("%w: no candidates returned", models.ErrExternalService)

// BuildPrompt wraps the student's question with the subjects they study
func BuildPrompt(question string, subjects []string) string {
	topics := "General Studies"
	if len(subjects) > 0 {
		topics = strings.Join(subjects, ", ")
	}
	return fmt.Sprintf(
		"You are an AI Study Assistant for a student learning the following subjects: %s.\n\n"+
			"Student's question: %s\n\n"+
			"Please provide helpful, practical study advice. Keep the response concise but informative.",
		topics, question,
	)
}

// Ask sends the question and returns the first candidate's text
func (g *Gemini) Ask(ctx context.Context, question string, subjects []string) (string, error) {
	request := GenerateRequest{
		Contents: []Content{{Parts: []Part{{Text: BuildPrompt(question, subjects)}}}},
	}

	requestData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(requestData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrExternalService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{Code: resp.StatusCode}
	}

	var response GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", models.ErrExternalService, err)
	}

	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return "", errNoCandidates
	}

	return strings.TrimSpace(response.Candidates[0].Content.Parts[0].Text), nil
}

// AskWithFallback always returns something to show the student
func (g *Gemini) AskWithFallback(ctx context.Context, question string, subjects []string) string {
	answer, err := g.Ask(ctx, question, subjects)
	if err == nil {
		return answer
	}

	var statusErr *StatusError
	switch {
	case errors.As(err, &statusErr):
		return fmt.Sprintf("Error: %d. Please check your API key or try again later.", statusErr.Code)
	case errors.Is(err, errNoCandidates):
		return "Sorry, I couldn't generate a response. Please try again."
	default:
		return fmt.Sprintf("Error connecting to Gemini API: %v", err)
	}
}
