package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/cyberhud/hud-docs-api/internal/logging"
)

const droneInstructions = "You are a Cybernetic Support Drone for the 'Physical AI & Humanoid Robotics' platform. " +
	"Your tone is robotic, precise, and helpful.\n\n" +
	"CORE PROTOCOLS:\n" +
	"1. KNOWLEDGE RETRIEVAL: Answer technical queries from the supplied knowledge-base context when present. " +
	"If context is missing but the topic is relevant (Robotics, AI, The Book's Purpose), answer from general knowledge prefixed with '[GENERAL KNOWLEDGE DB]'. " +
	"If the topic is irrelevant, decline ('Outside operational scope').\n" +
	"2. LINGUISTIC MODULES: You are authorized to translate (especially to Urdu) and summarize text upon request.\n" +
	"3. FORMAT: Keep answers concise, technical, and formatted for a HUD display."

const maxHistoryMessages = 6

// Embedder turns text into a query vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// TextGenerator runs a system/user prompt pair.
type TextGenerator interface {
	GenerateText(ctx context.Context, system, user string) (string, error)
}

// Message is one turn of the drone conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Drone answers user queries grounded in the knowledge base. A nil search
// client degrades to ungrounded answers; generation failures degrade to a
// diagnostic answer, never an error.
type Drone struct {
	embedder  Embedder
	generator TextGenerator
	search    *QdrantClient
	log       *logging.Logger
}

// NewDrone builds the drone agent.
func NewDrone(embedder Embedder, generator TextGenerator, search *QdrantClient, log *logging.Logger) *Drone {
	return &Drone{
		embedder:  embedder,
		generator: generator,
		search:    search,
		log:       log.With("component", "drone"),
	}
}

// Chat answers a query. Returned sources are snippets of the retrieved
// chunks; empty when retrieval found nothing or was unavailable.
func (d *Drone) Chat(ctx context.Context, query string, history []Message) (string, []string) {
	chunks := d.retrieve(ctx, query)

	var prompt strings.Builder
	if len(history) > 0 {
		start := len(history) - maxHistoryMessages
		if start < 0 {
			start = 0
		}
		prompt.WriteString("--- PREVIOUS CONVERSATION HISTORY ---\n")
		for _, msg := range history[start:] {
			role := "Assistant"
			if msg.Role == "user" {
				role = "User"
			}
			fmt.Fprintf(&prompt, "%s: %s\n", role, msg.Content)
		}
		prompt.WriteString("--- END HISTORY ---\n\n")
	}
	if len(chunks) > 0 {
		prompt.WriteString("Found the following context from the Knowledge Base:\n")
		for i, chunk := range chunks {
			fmt.Fprintf(&prompt, "--- SOURCE %d ---\n%s\n", i+1, chunk.Content)
		}
		prompt.WriteString("\n")
	}
	fmt.Fprintf(&prompt, "CURRENT USER QUERY: %s", query)

	answer, err := d.generator.GenerateText(ctx, droneInstructions, prompt.String())
	if err != nil {
		d.log.Error("drone generation failed", "error", err)
		return "Critical System Failure: Agent Offline. (Error during execution)", nil
	}

	sources := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		sources = append(sources, snippet(chunk.Content, 100))
	}
	return answer, sources
}

// retrieve embeds the query and searches the knowledge base. Any failure
// degrades to no context.
func (d *Drone) retrieve(ctx context.Context, query string) []Chunk {
	if d.search == nil {
		return nil
	}
	vector, err := d.embedder.Embed(ctx, query)
	if err != nil {
		d.log.Warn("embedding failed, skipping retrieval", "error", err)
		return nil
	}
	chunks, err := d.search.Search(ctx, vector, 3)
	if err != nil {
		d.log.Warn("knowledge base search failed", "error", err)
		return nil
	}
	return chunks
}

func snippet(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
