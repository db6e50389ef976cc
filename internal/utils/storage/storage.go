package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/gabriel-vasile/mimetype"
)

var (
	AllowImage = []string{"image/jpeg", "image/png", "image/webp", "image/bmp", "image/gif"}

	ErrFileTypeNotAllowed = errors.New("file type not allowed")
)

// ImageStorage keeps uploaded and annotated fridge images.
type ImageStorage interface {
	UploadFile(ctx context.Context, fileName string, data []byte, folder string, allowTypes ...string) (string, error)
	GetPublicLinkKey(objectKey string) string
}

// detectContentType sniffs data and rejects it when allowTypes is set and does not contain it.
func detectContentType(data []byte, allowTypes []string) (string, error) {
	mtype := mimetype.Detect(data)
	if len(allowTypes) == 0 {
		return mtype.String(), nil
	}
	for _, allowed := range allowTypes {
		if mtype.Is(allowed) {
			return allowed, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrFileTypeNotAllowed, mtype.String())
}

func objectKey(folder, fileName string) string {
	if folder == "" {
		return fileName
	}
	return folder + "/" + fileName
}
