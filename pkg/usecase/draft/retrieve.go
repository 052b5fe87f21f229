package draft

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/postforge/pkg/utils/logging"
)

// FindRelevantPosts returns the texts of up to k stored posts most similar
// to the query, ordered by ascending distance. Retrieval is best effort:
// an unavailable store, a failed embedding, or an empty collection yields
// an empty slice and the pipeline proceeds without examples.
func (u *UseCase) FindRelevantPosts(ctx context.Context, query string, k int) []string {
	logger := logging.From(ctx)

	if query == "" || k <= 0 {
		return nil
	}
	if u.repo == nil || !u.caps.CanRetrieve() {
		logger.Warn("vector store or embedding model unavailable, proceeding without examples")
		return nil
	}

	vector, err := u.gemini.Embed(ctx, query)
	if err != nil {
		logger.Error("failed to embed query", "error", err)
		return nil
	}

	posts, err := u.repo.SearchSimilarPosts(ctx, firestore.Vector32(vector), k)
	if err != nil {
		logger.Error("failed to search similar posts", "error", err)
		return nil
	}

	texts := make([]string, 0, len(posts))
	for _, post := range posts {
		texts = append(texts, post.Text)
	}

	logger.Info("retrieved similar posts", "query", query, "count", len(texts))
	return texts
}
