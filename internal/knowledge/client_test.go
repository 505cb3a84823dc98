package knowledge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sixjars/jarflow/internal/config"
	"github.com/sixjars/jarflow/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(config.KnowledgeConfig{BaseURL: server.URL, Collection: "financial_knowledge"})
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient(config.KnowledgeConfig{})
	require.Error(t, err)
}

func TestSearch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/collections/financial_knowledge/query", r.URL.Path)

		var req queryRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "emergency fund", req.Query)
		assert.Equal(t, 2, req.NResults)

		_, _ = w.Write([]byte(`{
			"documents": [["Keep three months of expenses.", "Automate your savings."]],
			"metadatas": [[{"category": "savings"}, {"category": "habits"}]],
			"distances": [[0.1, 0.35]]
		}`))
	})

	hits, err := client.Search(context.Background(), "emergency fund", 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	assert.Equal(t, "Keep three months of expenses.", hits[0].Content)
	assert.InDelta(t, 0.9, hits[0].Relevance, 1e-9)
	assert.Equal(t, "savings", hits[0].Metadata["category"])
	assert.InDelta(t, 0.65, hits[1].Relevance, 1e-9)
}

func TestSearchEmptyResult(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"documents": []}`))
	})

	hits, err := client.Search(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearchServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "collection not found", http.StatusNotFound)
	})

	_, err := client.Search(context.Background(), "anything", 5)
	require.Error(t, err)
}

func TestAdd(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/collections/financial_knowledge/add", r.URL.Path)

		var req addRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.IDs, 1)
		assert.Equal(t, "budgeting_six_jar_basics", req.IDs[0])
		assert.Equal(t, []string{"Split income across six jars."}, req.Documents)
		assert.Equal(t, "budgeting,jars", req.Metadatas[0]["tags"])

		w.WriteHeader(http.StatusCreated)
	})

	id, err := client.Add(context.Background(), model.KnowledgeEntry{
		Title:    "Six Jar Basics",
		Content:  "Split income across six jars.",
		Category: "budgeting",
		Tags:     []string{"budgeting", "jars"},
	})
	require.NoError(t, err)
	assert.Equal(t, "budgeting_six_jar_basics", id)
}

func TestEntryID(t *testing.T) {
	assert.Equal(t, "savings_pay_yourself_first", EntryID("savings", "Pay Yourself First"))
	assert.Equal(t, "habits_x", EntryID("habits", "X"))
}
