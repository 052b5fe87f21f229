package model

import (
	"time"

	"github.com/google/uuid"
)

type DraftID string

// NewDraftID generates a new unique DraftID
func NewDraftID() DraftID {
	return DraftID(uuid.New().String())
}

// Draft is a generation result: the post text plus the image prompt
// derived from it.
type Draft struct {
	ID           DraftID   `firestore:"-"`
	ArticleTitle string    `firestore:"article_title"`
	ArticleURL   string    `firestore:"article_url"`
	Post         string    `firestore:"post"`
	ImagePrompt  string    `firestore:"image_prompt"`
	CreatedAt    time.Time `firestore:"created_at"`
}
