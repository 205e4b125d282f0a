package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"course-platform/internal/dto/request"
	"course-platform/pkg/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// imageTypes maps accepted image extensions to their content type.
var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// imageContentType returns the content type for an accepted image file name,
// or false when the extension is not allowed.
func imageContentType(filename string) (string, bool) {
	contentType, ok := imageTypes[strings.ToLower(filepath.Ext(filename))]
	return contentType, ok
}

// checkImage validates an upload's extension and size. label names the field
// in the client message.
func checkImage(upload *request.Upload, maxBytes int64, label string) (string, *Error) {
	contentType, ok := imageContentType(upload.Filename)
	if !ok {
		return "", invalidInput(label + " must be a .jpg, .jpeg, .png or .webp file")
	}
	if maxBytes > 0 && upload.Size > maxBytes {
		return "", invalidInput(fmt.Sprintf("%s must be at most %d bytes", label, maxBytes))
	}
	return contentType, nil
}

// storeImage saves upload under a fresh prefix-<uuid><ext> key.
func storeImage(ctx context.Context, store storage.Storage, prefix string, upload *request.Upload, contentType string) (string, error) {
	key := prefix + uuid.NewString() + strings.ToLower(filepath.Ext(upload.Filename))
	return store.Put(ctx, key, upload.Body, upload.Size, contentType)
}

// discardImage removes a stored file the caller no longer references. Failures
// only leave an orphaned file, so they are logged and dropped.
func discardImage(ctx context.Context, store storage.Storage, log *zap.Logger, url string) {
	if url == "" {
		return
	}
	if err := store.Delete(context.WithoutCancel(ctx), url); err != nil {
		log.Warn("Failed to remove stored image", zap.Error(err), zap.String("url", url))
	}
}
