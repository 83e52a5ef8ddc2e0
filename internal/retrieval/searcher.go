package retrieval

import "context"

// Hit is one ranked context snippet returned by a retrieval strategy.
type Hit struct {
	Text       string
	Source     string
	Page       *int
	Score      *float64
	Department string
}

// Searcher is the retrieval surface the planner consumes. Implementations
// own their failure handling: a searcher that cannot reach its backend
// returns zero hits, it never aborts plan generation.
type Searcher interface {
	Search(ctx context.Context, q Query) []Hit
}

// Query describes one skill-scoped retrieval request.
type Query struct {
	// Text is the semantic query (a skill's keywords joined, or its label).
	Text string
	// Keyword is the literal term for the substring fallback. Defaults to
	// Text when empty.
	Keyword string
	// Department restricts hits to one department; hits tagged with a
	// different department are dropped, untagged hits pass.
	Department string
	TopK       int
}

// Embedder turns query text into a vector. The production implementation is
// the OpenAI embeddings endpoint, optionally fronted by a redis cache.
type Embedder interface {
	Embed(ctx context.Context, inputs []string) ([][]float32, error)
}

// VectorSearcher is the semantic index consumed by the bridge. Index
// construction and maintenance happen out of band; this side only queries.
type VectorSearcher interface {
	Query(ctx context.Context, vector []float32, topK int) ([]Hit, error)
}
