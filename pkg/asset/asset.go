package asset

import (
	"context"
	"errors"
	"fmt"

	"github.com/mwantia/photolio/pkg/db/models"
)

// mutation is one blob change plus the row change that commits it.
type mutation struct {
	blob  func(ctx context.Context) error
	row   func(ctx context.Context) error
	undo  func(ctx context.Context) error
	apply func(p *models.Photo)
}

// withAsset locks the photo and the given names, loads the row and runs the
// mutation built for it: blob first, row only on blob success, undo when the
// row step fails. A nil mutation means there is nothing to change.
func (m *Manager) withAsset(ctx context.Context, photoID uint, names []string, build func(photo *models.Photo) (*mutation, error)) (*models.Photo, error) {
	unlockID := m.locks.Lock(idKey(photoID))
	defer unlockID()

	photo, err := m.store.GetPhoto(ctx, photoID)
	if err != nil {
		return nil, lookupError(err, photoID)
	}

	keys := []string{nameKey(photo.FileName)}
	for _, name := range names {
		keys = append(keys, nameKey(name))
	}
	unlockNames := m.locks.Lock(keys...)
	defer unlockNames()

	mut, err := build(photo)
	if err != nil || mut == nil {
		return photo, err
	}

	if err := mut.blob(ctx); err != nil {
		m.log.Warn("Blob step for photo %d failed, metadata untouched: %v", photoID, err)
		return nil, err
	}

	if err := mut.row(ctx); err != nil {
		rowErr := metadataError(err)
		if mut.undo == nil {
			m.log.Error("Photo %d left inconsistent, blob changed but row not: %v", photoID, err)
			return nil, rowErr
		}

		if undoErr := mut.undo(context.WithoutCancel(ctx)); undoErr != nil {
			m.log.Error("Photo %d left inconsistent, rollback failed: %v", photoID, undoErr)
			return nil, errors.Join(rowErr, fmt.Errorf("rollback failed: %w", undoErr))
		}

		m.log.Warn("Row step for photo %d failed, blob change rolled back: %v", photoID, err)
		return nil, rowErr
	}

	if mut.apply != nil {
		mut.apply(photo)
	}
	return photo, nil
}
