package adapter

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/postforge/pkg/model"
)

// Storage archives generated draft artifacts. Archiving is optional and
// best effort; the pipeline never depends on it.
type Storage interface {
	// Put returns a writer to save a draft artifact under the given key
	Put(ctx context.Context, key string) (io.WriteCloser, error)
	// Get loads a previously archived artifact
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

// storageClient implements Storage using Cloud Storage
type storageClient struct {
	bucketName string
	client     *storage.Client
}

// NewStorage creates a new Cloud Storage client for draft archiving
func NewStorage(ctx context.Context, bucketName string) (Storage, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client")
	}

	return &storageClient{
		bucketName: bucketName,
		client:     client,
	}, nil
}

func (s *storageClient) Put(ctx context.Context, key string) (io.WriteCloser, error) {
	obj := s.client.Bucket(s.bucketName).Object(key)
	return obj.NewWriter(ctx), nil
}

func (s *storageClient) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	obj := s.client.Bucket(s.bucketName).Object(key)
	reader, err := obj.NewReader(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read draft artifact", goerr.V("key", key))
	}

	return reader, nil
}

// Artifact object names under the per-draft archive prefix
const (
	archivePostObject  = "post.txt"
	archiveImageObject = "image_prompt.txt"
)

func archiveKey(id model.DraftID, name string) string {
	return fmt.Sprintf("drafts/%s/%s", id, name)
}

// ArchiveDraft saves the draft artifacts under drafts/<id>/. The image
// prompt object is written only when one was generated.
func ArchiveDraft(ctx context.Context, s Storage, draft *model.Draft) error {
	artifacts := map[string]string{
		archivePostObject: draft.Post,
	}
	if draft.ImagePrompt != "" {
		artifacts[archiveImageObject] = draft.ImagePrompt
	}

	for name, content := range artifacts {
		key := archiveKey(draft.ID, name)
		w, err := s.Put(ctx, key)
		if err != nil {
			return goerr.Wrap(err, "failed to open archive object", goerr.V("key", key))
		}
		if _, err := io.WriteString(w, content); err != nil {
			_ = w.Close()
			return goerr.Wrap(err, "failed to write archive object", goerr.V("key", key))
		}
		if err := w.Close(); err != nil {
			return goerr.Wrap(err, "failed to finalize archive object", goerr.V("key", key))
		}
	}

	return nil
}

// ReadArchivedDraft loads a previously archived draft. A missing image
// prompt object means none was generated for this draft.
func ReadArchivedDraft(ctx context.Context, s Storage, id model.DraftID) (post, imagePrompt string, err error) {
	post, err = readArchiveObject(ctx, s, archiveKey(id, archivePostObject))
	if err != nil {
		return "", "", goerr.Wrap(err, "failed to read archived post", goerr.V("id", id))
	}

	imagePrompt, err = readArchiveObject(ctx, s, archiveKey(id, archiveImageObject))
	if err != nil {
		return post, "", nil
	}

	return post, imagePrompt, nil
}

func readArchiveObject(ctx context.Context, s Storage, key string) (string, error) {
	r, err := s.Get(ctx, key)
	if err != nil {
		return "", err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return "", goerr.Wrap(err, "failed to read archive object", goerr.V("key", key))
	}

	return string(data), nil
}
