package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage writes images under root, which the app serves at publicPrefix.
type LocalStorage struct {
	root         string
	publicPrefix string
}

func NewLocalStorage(root, publicPrefix string) *LocalStorage {
	return &LocalStorage{
		root:         root,
		publicPrefix: strings.TrimRight(publicPrefix, "/"),
	}
}

func (l *LocalStorage) UploadFile(_ context.Context, fileName string, data []byte, folder string, allowTypes ...string) (string, error) {
	if _, err := detectContentType(data, allowTypes); err != nil {
		return "", err
	}

	key := objectKey(folder, filepath.Base(fileName))
	path := filepath.Join(l.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create image dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write image %s: %w", key, err)
	}
	return key, nil
}

func (l *LocalStorage) GetPublicLinkKey(objectKey string) string {
	return l.publicPrefix + "/" + objectKey
}
