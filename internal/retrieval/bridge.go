package retrieval

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/studylane/studylane-backend/internal/logger"
	"github.com/studylane/studylane-backend/internal/repos"
	"github.com/studylane/studylane-backend/internal/types"
)

const (
	// snippetMaxChars bounds every snippet handed to the planner.
	snippetMaxChars = 500
	// searchTimeout bounds one Search call end to end.
	searchTimeout = 5 * time.Second
)

// Bridge chains retrieval strategies: the semantic index first, then a
// literal substring match over the raw-text store to fill the remainder.
// Every failure is caught here and degrades to fewer (or zero) hits.
type Bridge struct {
	log      *logger.Logger
	embedder Embedder
	vector   VectorSearcher
	chunks   repos.KnowledgeChunkRepo
	breaker  *gobreaker.CircuitBreaker[[]Hit]
}

func NewBridge(log *logger.Logger, embedder Embedder, vector VectorSearcher, chunks repos.KnowledgeChunkRepo) *Bridge {
	settings := gobreaker.Settings{
		Name:     "retrieval-semantic",
		Interval: time.Minute,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	}
	return &Bridge{
		log:      log.With("service", "RetrievalBridge"),
		embedder: embedder,
		vector:   vector,
		chunks:   chunks,
		breaker:  gobreaker.NewCircuitBreaker[[]Hit](settings),
	}
}

func (b *Bridge) Search(ctx context.Context, q Query) []Hit {
	if q.TopK <= 0 || strings.TrimSpace(q.Text) == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	results := make([]Hit, 0, q.TopK)

	semantic, err := b.breaker.Execute(func() ([]Hit, error) {
		return b.semantic(ctx, q)
	})
	if err != nil {
		b.log.Warn("semantic retrieval failed, continuing without it", "query", q.Text, "error", err)
	}
	for _, hit := range semantic {
		if hit.Department != "" && hit.Department != q.Department {
			continue
		}
		snippet := strings.TrimSpace(hit.Text)
		if snippet == "" {
			continue
		}
		hit.Text = truncate(snippet, snippetMaxChars)
		results = append(results, hit)
		if len(results) >= q.TopK {
			break
		}
	}

	if len(results) < q.TopK {
		results = append(results, b.keyword(ctx, q)...)
	}

	return dedupeByText(results, q.TopK)
}

// semantic embeds the query and asks the vector index for twice the quota,
// leaving room for the department filter.
func (b *Bridge) semantic(ctx context.Context, q Query) ([]Hit, error) {
	if b.embedder == nil || b.vector == nil {
		return nil, nil
	}
	vectors, err := b.embedder.Embed(ctx, []string{q.Text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, nil
	}
	return b.vector.Query(ctx, vectors[0], q.TopK*2)
}

func (b *Bridge) keyword(ctx context.Context, q Query) []Hit {
	if b.chunks == nil {
		return nil
	}
	term := strings.TrimSpace(q.Keyword)
	if term == "" {
		term = q.Text
	}
	rows, err := b.chunks.SearchText(ctx, nil, term, q.TopK)
	if err != nil {
		b.log.Warn("keyword retrieval failed, continuing without it", "term", term, "error", err)
		return nil
	}

	hits := make([]Hit, 0, len(rows))
	for _, row := range rows {
		snippet := strings.TrimSpace(row.Text)
		if snippet == "" {
			continue
		}
		var meta types.ChunkMeta
		if len(row.Meta) > 0 {
			_ = json.Unmarshal(row.Meta, &meta)
		}
		hits = append(hits, Hit{
			Text:       truncate(snippet, snippetMaxChars),
			Source:     meta.SourceFile,
			Page:       meta.Page,
			Department: meta.Department,
		})
	}
	return hits
}

func truncate(s string, maxChars int) string {
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars])
}

func dedupeByText(hits []Hit, limit int) []Hit {
	deduped := make([]Hit, 0, limit)
	seen := make(map[string]bool, len(hits))
	for _, hit := range hits {
		if hit.Text == "" || seen[hit.Text] {
			continue
		}
		seen[hit.Text] = true
		deduped = append(deduped, hit)
		if len(deduped) >= limit {
			break
		}
	}
	return deduped
}
