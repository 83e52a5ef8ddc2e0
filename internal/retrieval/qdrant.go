package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/studylane/studylane-backend/internal/logger"
	"github.com/studylane/studylane-backend/internal/utils"
)

// Payload keys written by the index-maintenance collaborator.
const (
	payloadTextKey       = "text"
	payloadSourceKey     = "source_file"
	payloadPageKey       = "page"
	payloadDepartmentKey = "department"
)

type qdrantSearcher struct {
	log        *logger.Logger
	baseURL    string
	collection string
	http       *http.Client
}

type qdrantEnvelope struct {
	Result json.RawMessage `json:"result"`
}

type qdrantSearchResultItem struct {
	Score   float64        `json:"score"`
	Payload map[string]any `json:"payload"`
}

// NewQdrantSearcher builds the semantic search client from QDRANT_URL and
// QDRANT_COLLECTION.
func NewQdrantSearcher(log *logger.Logger) (VectorSearcher, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(utils.GetEnv("QDRANT_URL", "", log)), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("missing QDRANT_URL")
	}
	collection := strings.TrimSpace(utils.GetEnv("QDRANT_COLLECTION", "knowledge_chunks", log))
	return &qdrantSearcher{
		log:        log.With("service", "QdrantSearcher"),
		baseURL:    baseURL,
		collection: collection,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

func (s *qdrantSearcher) Query(ctx context.Context, vector []float32, topK int) ([]Hit, error) {
	if len(vector) == 0 || topK <= 0 {
		return nil, nil
	}

	req := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/collections/%s/points/search", s.baseURL, s.collection)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, fmt.Errorf("qdrant search failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var envelope qdrantEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, err
	}
	var items []qdrantSearchResultItem
	if err := json.Unmarshal(envelope.Result, &items); err != nil {
		return nil, err
	}

	hits := make([]Hit, 0, len(items))
	for _, item := range items {
		text, _ := item.Payload[payloadTextKey].(string)
		source, _ := item.Payload[payloadSourceKey].(string)
		department, _ := item.Payload[payloadDepartmentKey].(string)
		var page *int
		if raw, ok := item.Payload[payloadPageKey].(float64); ok {
			p := int(raw)
			page = &p
		}
		score := item.Score
		hits = append(hits, Hit{
			Text:       text,
			Source:     source,
			Page:       page,
			Score:      &score,
			Department: department,
		})
	}
	return hits, nil
}
