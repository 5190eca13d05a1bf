package object

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"resume-builder/internal/shared/util"
)

// ErrNotFound is returned by Open when no object exists at the key.
var ErrNotFound = errors.New("object not found")

// Store saves and retrieves compiled artifacts by key.
type Store interface {
	Put(ctx context.Context, key string, contentType string, r io.Reader) (sizeBytes int64, err error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// ArtifactKey returns the storage key for a resume's archived PDF. The user
// segment is hashed so keys never carry raw identities.
func ArtifactKey(userID, resumeID string) (string, error) {
	if userID == "" {
		return "", errors.New("user id is required")
	}
	name, err := util.SanitizeFileName(resumeID)
	if err != nil {
		return "", fmt.Errorf("resume id: %w", err)
	}
	return path.Join("artifacts", util.HashUserKey(userID), name+".pdf"), nil
}
