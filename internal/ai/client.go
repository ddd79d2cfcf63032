// Package ai talks to the text-generation collaborator (Gemini through its
// OpenAI-compatible API) and hosts the skill registry driving it.
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

	"github.com/cyberhud/hud-docs-api/internal/logging"
	"github.com/cyberhud/hud-docs-api/internal/util"
)

// DefaultBaseURL is Gemini's OpenAI-compatible endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"

const (
	chatModel      = "gemini-2.0-flash"
	embeddingModel = "text-embedding-004"
)

// Generator produces text for a named skill. Failures are recoverable and
// surface as diagnostic strings, never as errors.
type Generator interface {
	GenerateSkill(ctx context.Context, skill, content, extraContext string) string
}

// Client is the HTTP client for the generation collaborator.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	skills     *SkillSet
	log        *logging.Logger
}

// NewClient builds a client. An empty apiKey is tolerated so the server can
// boot without AI configured; generation then degrades to a diagnostic
// string at request time.
func NewClient(apiKey string, skills *SkillSet, log *logging.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		skills:     skills,
		log:        log.With("component", "ai"),
	}
}

// GenerateSkill runs the named skill over the input. extraContext, when set,
// is appended to the skill instructions (used for personalization).
func (c *Client) GenerateSkill(ctx context.Context, skillName, content, extraContext string) string {
	if c.apiKey == "" {
		c.log.Error("generation requested without api key")
		return "System Error: AI Service Unavailable (Configuration Error)."
	}

	skill, ok := c.skills.Get(skillName)
	if !ok {
		c.log.Error("unknown skill requested", "skill", skillName)
		return fmt.Sprintf("System Error: Skill '%s' not found.", skillName)
	}

	instructions := skill.Instructions
	if extraContext != "" {
		instructions += "\n\n**Context/User Preference**: " + extraContext
	}

	output, err := c.chatCompletion(ctx, instructions, content)
	if err != nil {
		c.log.Error("skill execution failed", "skill", skillName, "error", err)
		return fmt.Sprintf("Error executing %s. Detailed Error: %v", skillName, err)
	}
	c.log.Debug("skill executed", "skill", skillName, "output", util.TruncateLog(output, 256))
	return output
}

// IsDiagnostic reports whether output is one of the degraded-mode strings
// GenerateSkill returns in place of an error. Callers use it to keep
// diagnostics out of the content cache.
func IsDiagnostic(output string) bool {
	return strings.HasPrefix(output, "System Error:") ||
		strings.HasPrefix(output, "Error executing ")
}

// GenerateText runs a free-form system/user prompt pair and returns the
// model output. Unlike GenerateSkill, errors propagate to the caller.
func (c *Client) GenerateText(ctx context.Context, system, user string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("ai client not configured")
	}
	return c.chatCompletion(ctx, system, user)
}

// Embed returns the embedding vector for the given text.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("ai client not configured")
	}

	payload := map[string]interface{}{
		"model": embeddingModel,
		"input": text,
	}
	var result struct {
		Data []struct {
			Embedding []float64 `json:"embedding"`
		} `json:"data"`
	}
	if err := c.post(ctx, "/embeddings", payload, &result); err != nil {
		return nil, err
	}
	if len(result.Data) == 0 {
		return nil, fmt.Errorf("empty embedding response")
	}
	return result.Data[0].Embedding, nil
}

func (c *Client) chatCompletion(ctx context.Context, system, user string) (string, error) {
	payload := map[string]interface{}{
		"model": chatModel,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
	}
	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := c.post(ctx, "/chat/completions", payload, &result); err != nil {
		return "", err
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}
	return result.Choices[0].Message.Content, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upstream status %d: %s", resp.StatusCode, util.TruncateLog(string(respBody), 256))
	}
	return json.Unmarshal(respBody, out)
}
