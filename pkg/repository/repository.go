package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/postforge/pkg/model"
)

// Repository defines persistence for past posts and generated drafts
type Repository interface {
	// PutPosts inserts or replaces posts by ID
	PutPosts(ctx context.Context, posts []*model.Post) error

	// CountPosts returns the number of stored posts
	CountPosts(ctx context.Context) (int64, error)

	// SearchSimilarPosts performs nearest-neighbor search over stored post
	// embeddings. Results are ordered by non-decreasing cosine distance and
	// contain at most limit posts.
	SearchSimilarPosts(ctx context.Context, embedding firestore.Vector32, limit int) ([]*model.Post, error)

	// PutDraft saves a generation result
	PutDraft(ctx context.Context, draft *model.Draft) error

	// GetDraft retrieves a draft by ID
	GetDraft(ctx context.Context, id model.DraftID) (*model.Draft, error)

	// ListDrafts retrieves drafts ordered by creation time descending
	ListDrafts(ctx context.Context, offset, limit int) ([]*model.Draft, error)
}
