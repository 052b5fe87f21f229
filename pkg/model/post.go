package model

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
)

type PostID string

// NewPostID derives a stable ID from the post text. Populating the same
// file twice upserts instead of duplicating.
func NewPostID(text string) PostID {
	sum := sha256.Sum256([]byte(text))
	return PostID(hex.EncodeToString(sum[:]))
}

// Post is a past social media post stored with its embedding vector.
// Immutable after population.
type Post struct {
	ID        PostID             `firestore:"-"`
	Text      string             `firestore:"text"`
	Embedding firestore.Vector32 `firestore:"embedding"`
	CreatedAt time.Time          `firestore:"created_at"`
}

// Validate checks the post is storable
func (p *Post) Validate() error {
	if p.ID == "" {
		return goerr.New("post ID is empty")
	}
	if p.Text == "" {
		return goerr.New("post text is empty")
	}
	if len(p.Embedding) == 0 {
		return goerr.New("post embedding is empty", goerr.V("id", p.ID))
	}
	return nil
}
