// Package knowledge is the HTTP adapter for the vector-store knowledge
// base the AI coach searches. The collaborator owns embedding and
// similarity search; this client only speaks its query/add contract.
package knowledge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sixjars/jarflow/internal/config"
	"github.com/sixjars/jarflow/internal/model"
)

// Client talks to one collection of the vector store.
type Client struct {
	httpClient *http.Client
	baseURL    string
	collection string
}

// NewClient creates a knowledge-base client from configuration.
func NewClient(cfg config.KnowledgeConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("knowledge base URL is required")
	}

	collection := cfg.Collection
	if collection == "" {
		collection = "financial_knowledge"
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		collection: collection,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}, nil
}

type queryRequest struct {
	Query    string   `json:"query"`
	Include  []string `json:"include"`
	NResults int      `json:"n_results"`
}

type queryResponse struct {
	Documents [][]string         `json:"documents"`
	Metadatas [][]map[string]any `json:"metadatas"`
	Distances [][]float64        `json:"distances"`
}

// Search performs a semantic search and converts distances to relevance
// scores (1 - distance). A missing or empty result set is not an error.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]model.KnowledgeHit, error) {
	if limit <= 0 {
		limit = 5
	}

	var resp queryResponse
	err := c.post(ctx, fmt.Sprintf("/collections/%s/query", c.collection), queryRequest{
		Query:    query,
		NResults: limit,
		Include:  []string{"documents", "metadatas", "distances"},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("knowledge base query failed: %w", err)
	}

	if len(resp.Documents) == 0 {
		return nil, nil
	}

	docs := resp.Documents[0]
	hits := make([]model.KnowledgeHit, 0, len(docs))
	for i, doc := range docs {
		hit := model.KnowledgeHit{Content: doc}
		if len(resp.Metadatas) > 0 && i < len(resp.Metadatas[0]) {
			hit.Metadata = resp.Metadatas[0][i]
		}
		if len(resp.Distances) > 0 && i < len(resp.Distances[0]) {
			hit.Relevance = 1 - resp.Distances[0][i]
		}
		hits = append(hits, hit)
	}

	return hits, nil
}

type addRequest struct {
	IDs       []string         `json:"ids"`
	Documents []string         `json:"documents"`
	Metadatas []map[string]any `json:"metadatas"`
}

// Add stores one entry in the collection. Entry ids are deterministic
// (category plus slugged title) so re-adding the same entry overwrites
// rather than duplicates.
func (c *Client) Add(ctx context.Context, entry model.KnowledgeEntry) (string, error) {
	id := entry.ID
	if id == "" {
		id = EntryID(entry.Category, entry.Title)
	}

	err := c.post(ctx, fmt.Sprintf("/collections/%s/add", c.collection), addRequest{
		IDs:       []string{id},
		Documents: []string{entry.Content},
		Metadatas: []map[string]any{{
			"title":    entry.Title,
			"category": entry.Category,
			"tags":     strings.Join(entry.Tags, ","),
		}},
	}, nil)
	if err != nil {
		return "", fmt.Errorf("knowledge base add failed: %w", err)
	}

	return id, nil
}

// EntryID derives the deterministic id for a knowledge entry.
func EntryID(category, title string) string {
	slug := strings.ToLower(strings.ReplaceAll(title, " ", "_"))
	return fmt.Sprintf("%s_%s", category, slug)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("vector store error (status %d): %s", resp.StatusCode, string(respBody))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
