package repository

import (
	"context"
	"math"
	"sort"
	"sync"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/postforge/pkg/model"
)

// Memory is an in-memory Repository used by tests and offline runs. It
// ranks by brute-force cosine distance; the production nearest-neighbor
// index lives in Firestore.
type Memory struct {
	mu     sync.RWMutex
	posts  map[model.PostID]*model.Post
	drafts map[model.DraftID]*model.Draft
	order  []model.DraftID
}

// NewMemory creates an empty in-memory repository
func NewMemory() *Memory {
	return &Memory{
		posts:  make(map[model.PostID]*model.Post),
		drafts: make(map[model.DraftID]*model.Draft),
	}
}

func (r *Memory) PutPosts(ctx context.Context, posts []*model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, post := range posts {
		if err := post.Validate(); err != nil {
			return goerr.Wrap(err, "invalid post")
		}
		r.posts[post.ID] = post
	}

	return nil
}

func (r *Memory) CountPosts(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.posts)), nil
}

func (r *Memory) SearchSimilarPosts(ctx context.Context, embedding firestore.Vector32, limit int) ([]*model.Post, error) {
	if len(embedding) == 0 {
		return nil, goerr.New("query embedding is empty")
	}
	if limit <= 0 {
		return nil, goerr.New("limit must be positive", goerr.V("limit", limit))
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	type scored struct {
		post     *model.Post
		distance float64
	}
	candidates := make([]scored, 0, len(r.posts))
	for _, post := range r.posts {
		candidates = append(candidates, scored{
			post:     post,
			distance: cosineDistance(embedding, post.Embedding),
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	posts := make([]*model.Post, 0, len(candidates))
	for _, c := range candidates {
		posts = append(posts, c.post)
	}

	return posts, nil
}

func (r *Memory) PutDraft(ctx context.Context, draft *model.Draft) error {
	if draft.ID == "" {
		return goerr.New("draft ID is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.drafts[draft.ID]; !exists {
		r.order = append(r.order, draft.ID)
	}
	r.drafts[draft.ID] = draft

	return nil
}

func (r *Memory) GetDraft(ctx context.Context, id model.DraftID) (*model.Draft, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	draft, ok := r.drafts[id]
	if !ok {
		return nil, goerr.New("draft not found", goerr.V("id", id))
	}

	return draft, nil
}

func (r *Memory) ListDrafts(ctx context.Context, offset, limit int) ([]*model.Draft, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	drafts := make([]*model.Draft, 0, len(r.order))
	// Most recent first, matching the Firestore ordering
	for i := len(r.order) - 1; i >= 0; i-- {
		drafts = append(drafts, r.drafts[r.order[i]])
	}

	if offset >= len(drafts) {
		return nil, nil
	}
	drafts = drafts[offset:]
	if len(drafts) > limit {
		drafts = drafts[:limit]
	}

	return drafts, nil
}

func cosineDistance(a, b firestore.Vector32) float64 {
	if len(a) != len(b) {
		return 2 // maximum cosine distance, effectively "unrelated"
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 2
	}

	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
