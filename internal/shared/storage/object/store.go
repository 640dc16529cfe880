package object

import (
	"context"
	"io"
)

// Object describes a stored artifact.
type Object struct {
	Key         string
	SizeBytes   int64
	ContentType string
}

// ObjectStore defines the contract for saving and retrieving binary objects.
// Keys are namespaced by owner so artifacts of different sessions never collide.
type ObjectStore interface {
	// Save stores r under the owner's namespace. An empty contentType is sniffed.
	Save(ctx context.Context, owner, fileName, contentType string, r io.Reader) (Object, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	Delete(ctx context.Context, storageKey string) error
}
