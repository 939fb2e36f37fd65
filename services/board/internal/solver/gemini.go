// Package solver sends the canvas to a generative model and returns its
// free-text answer.
package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/KrishPatel1605/AI-magine-Board-Web/services/board/internal/canvas"
)

// DefaultBaseURL is the Gemini REST API root
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Instruction is sent ahead of every canvas image
const Instruction = "Your name is AImagine Board. Your task is to analyze the canvas and solve any given problem based on its type. " +
	"Follow the specific rules and guidelines outlined below. " +
	"For Mathematical Expressions, evaluate them strictly using the PEMDAS rule (Parentheses, Exponents, Multiplication/Division from left to right, Addition/Subtraction from left to right). " +
	"For example, for 2 + 3 * 4, calculate it as 2 + (3 * 4) → 2 + 12 = 14. " +
	"For integration or differentiation problems, solve it and return the solution. " +
	"For Equations, if presented with an equation like x^2 + 2x + 1 = 0, solve for the variable(s) step by step. " +
	"For single-variable equations, provide the solution. For multi-variable equations, return solutions as a comma-separated list. " +
	"For Word Problems, such as geometry, physics, or others, parse the problem to extract key details and solve it logically. " +
	"Return the result with a very short explanation, including any necessary formulas or reasoning. " +
	"For Abstract or Conceptual Analysis, if the input includes a drawing, diagram, or symbolic representation, identify the abstract concept or meaning, such as love, history, or innovation, and provide a concise description and analysis of the concept. " +
	"For Creative or Contextual Questions, such as who made you or who is your creator, respond with Krish Patel made this app. " +
	"Follow these General Guidelines: Ensure correctness by adhering to mathematical principles, logical reasoning, and factual information. " +
	"Do not use the word image in the response; use the word canvas or board instead. " +
	"Return only the solution with a very short explanation. " +
	"If no input is provided, respond with No Problem Provided!"

// ErrEmptyAnswer is returned when the model produced no text
var ErrEmptyAnswer = errors.New("model returned no text")

// GeminiSolver calls the generateContent endpoint
type GeminiSolver struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewGeminiSolver creates a solver. A nil httpClient uses http.DefaultClient.
func NewGeminiSolver(baseURL, apiKey, model string, httpClient *http.Client) *GeminiSolver {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &GeminiSolver{apiKey: apiKey, baseURL: baseURL, model: model, client: httpClient}
}

// Gemini API request/response structures
type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason,omitempty"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// Solve submits the instruction and the canvas payload, in that order,
// and returns the model's text verbatim
func (s *GeminiSolver) Solve(ctx context.Context, payload canvas.Payload) (string, error) {
	reqBody, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{
			Role: "user",
			Parts: []geminiPart{
				{Text: Instruction},
				{InlineData: &geminiInlineData{MimeType: payload.MIMEType, Data: payload.Base64()}},
			},
		}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", s.baseURL, s.model, url.QueryEscape(s.apiKey))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := s.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error (status %d): %s", httpResp.StatusCode, string(respBody))
	}

	var resp geminiResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if resp.Error != nil {
		return "", fmt.Errorf("Gemini API error: %s (code: %d)", resp.Error.Message, resp.Error.Code)
	}

	var text strings.Builder
	for _, c := range resp.Candidates {
		for _, p := range c.Content.Parts {
			text.WriteString(p.Text)
		}
		if text.Len() > 0 {
			break
		}
	}
	if text.Len() == 0 {
		return "", ErrEmptyAnswer
	}
	return text.String(), nil
}
