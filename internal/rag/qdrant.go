// Package rag implements the support-drone chat: vector search over the
// knowledge base followed by grounded generation.
package rag

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
)

// Chunk is one retrieved knowledge-base fragment.
type Chunk struct {
	Content string
	Score   float64
}

// QdrantClient issues point queries against a Qdrant collection over HTTP.
type QdrantClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	collection string
	log        *logging.Logger
}

// NewQdrantClient builds a client. Returns nil when no host is configured;
// callers treat a nil client as "no knowledge base available".
func NewQdrantClient(host, apiKey, collection string, log *logging.Logger) *QdrantClient {
	if host == "" {
		return nil
	}
	return &QdrantClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    strings.TrimRight(host, "/"),
		apiKey:     apiKey,
		collection: collection,
		log:        log.With("component", "qdrant"),
	}
}

type queryRequest struct {
	Query       []float64 `json:"query"`
	Limit       int       `json:"limit"`
	WithPayload bool      `json:"with_payload"`
}

type queryResponse struct {
	Result struct {
		Points []struct {
			Score   float64                `json:"score"`
			Payload map[string]interface{} `json:"payload"`
		} `json:"points"`
	} `json:"result"`
}

// Search returns the topK closest chunks for the given query vector.
func (q *QdrantClient) Search(ctx context.Context, vector []float64, topK int) ([]Chunk, error) {
	body, err := json.Marshal(queryRequest{Query: vector, Limit: topK, WithPayload: true})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/collections/%s/points/query", q.baseURL, q.collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if q.apiKey != "" {
		req.Header.Set("api-key", q.apiKey)
	}

	resp, err := q.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("qdrant status %d: %s", resp.StatusCode, snippet)
	}

	var decoded queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, err
	}

	chunks := make([]Chunk, 0, len(decoded.Result.Points))
	for _, point := range decoded.Result.Points {
		content, _ := point.Payload["content"].(string)
		if content == "" {
			continue
		}
		chunks = append(chunks, Chunk{Content: content, Score: point.Score})
	}
	return chunks, nil
}
