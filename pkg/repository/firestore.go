package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/postforge/pkg/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	postCollection  = "posts"
	draftCollection = "drafts"
)

// Firestore implements Repository using Cloud Firestore. Nearest-neighbor
// retrieval is delegated to Firestore's vector index.
type Firestore struct {
	client *firestore.Client
}

// New creates a new Firestore repository
func New(ctx context.Context, projectID, databaseID string) (*Firestore, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("project", projectID),
			goerr.V("database", databaseID))
	}

	return &Firestore{client: client}, nil
}

// Close releases the underlying client
func (r *Firestore) Close() error {
	return r.client.Close()
}

func (r *Firestore) PutPosts(ctx context.Context, posts []*model.Post) error {
	if len(posts) == 0 {
		return nil
	}

	bw := r.client.BulkWriter(ctx)
	for _, post := range posts {
		if err := post.Validate(); err != nil {
			return goerr.Wrap(err, "invalid post")
		}
		if _, err := bw.Set(r.client.Collection(postCollection).Doc(string(post.ID)), post); err != nil {
			return goerr.Wrap(err, "failed to enqueue post", goerr.V("id", post.ID))
		}
	}
	bw.End()

	return nil
}

func (r *Firestore) CountPosts(ctx context.Context) (int64, error) {
	aq := r.client.Collection(postCollection).NewAggregationQuery().WithCount("count")
	results, err := aq.Get(ctx)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to count posts")
	}

	count, ok := results["count"]
	if !ok {
		return 0, goerr.New("count aggregation missing from result")
	}
	value, ok := count.(*firestorepb.Value)
	if !ok {
		return 0, goerr.New("unexpected count aggregation type")
	}

	return value.GetIntegerValue(), nil
}

func (r *Firestore) SearchSimilarPosts(ctx context.Context, embedding firestore.Vector32, limit int) ([]*model.Post, error) {
	if len(embedding) == 0 {
		return nil, goerr.New("query embedding is empty")
	}
	if limit <= 0 {
		return nil, goerr.New("limit must be positive", goerr.V("limit", limit))
	}

	query := r.client.Collection(postCollection).FindNearest(
		"embedding",
		embedding,
		limit,
		firestore.DistanceMeasureCosine,
		nil,
	)

	iter := query.Documents(ctx)
	defer iter.Stop()

	var posts []*model.Post
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate vector search results")
		}

		var post model.Post
		if err := doc.DataTo(&post); err != nil {
			return nil, goerr.Wrap(err, "failed to decode post", goerr.V("doc", doc.Ref.ID))
		}
		post.ID = model.PostID(doc.Ref.ID)
		posts = append(posts, &post)
	}

	return posts, nil
}

func (r *Firestore) PutDraft(ctx context.Context, draft *model.Draft) error {
	if draft.ID == "" {
		return goerr.New("draft ID is empty")
	}

	if _, err := r.client.Collection(draftCollection).Doc(string(draft.ID)).Set(ctx, draft); err != nil {
		return goerr.Wrap(err, "failed to put draft", goerr.V("id", draft.ID))
	}

	return nil
}

func (r *Firestore) GetDraft(ctx context.Context, id model.DraftID) (*model.Draft, error) {
	doc, err := r.client.Collection(draftCollection).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.New("draft not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get draft", goerr.V("id", id))
	}

	var draft model.Draft
	if err := doc.DataTo(&draft); err != nil {
		return nil, goerr.Wrap(err, "failed to decode draft", goerr.V("id", id))
	}
	draft.ID = id

	return &draft, nil
}

func (r *Firestore) ListDrafts(ctx context.Context, offset, limit int) ([]*model.Draft, error) {
	query := r.client.Collection(draftCollection).
		OrderBy("created_at", firestore.Desc).
		Offset(offset).
		Limit(limit)

	iter := query.Documents(ctx)
	defer iter.Stop()

	var drafts []*model.Draft
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate drafts")
		}

		var draft model.Draft
		if err := doc.DataTo(&draft); err != nil {
			return nil, goerr.Wrap(err, "failed to decode draft", goerr.V("doc", doc.Ref.ID))
		}
		draft.ID = model.DraftID(doc.Ref.ID)
		drafts = append(drafts, &draft)
	}

	return drafts, nil
}
