package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	appErrors "github.com/noah-isme/timetable-editor/pkg/errors"
	"github.com/noah-isme/timetable-editor/pkg/storage"
)

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// FileStateRepository keeps each key in its own JSON file under the storage dir.
type FileStateRepository struct {
	storage *storage.LocalStorage
}

// NewFileStateRepository constructs a file-backed state repository.
func NewFileStateRepository(store *storage.LocalStorage) *FileStateRepository {
	return &FileStateRepository{storage: store}
}

// Get returns the raw value stored under key.
func (r *FileStateRepository) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := r.storage.Load(fileName(key))
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return nil, appErrors.ErrStateNotFound
		}
		return nil, fmt.Errorf("load state %s: %w", key, err)
	}
	return data, nil
}

// Put replaces the value stored under key.
func (r *FileStateRepository) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := r.storage.Save(fileName(key), value); err != nil {
		return fmt.Errorf("save state %s: %w", key, err)
	}
	return nil
}

// Delete removes the value stored under key.
func (r *FileStateRepository) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.storage.Delete(fileName(key))
}

func fileName(key string) string {
	return unsafeKeyChars.ReplaceAllString(key, "_") + ".json"
}
