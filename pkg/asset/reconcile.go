package asset

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mwantia/photolio/pkg/blob"
	"github.com/mwantia/photolio/pkg/db/models"
	"github.com/mwantia/photolio/pkg/db/store"
)

type ReconcileOptions struct {
	// DryRun only reports, nothing is removed.
	DryRun bool
	// PruneRows deletes photo rows whose blob is missing.
	PruneRows bool
}

type ReconcileReport struct {
	OrphanBlobs    []string       `json:"orphanBlobs"`
	RemovedBlobs   []string       `json:"removedBlobs"`
	DanglingPhotos []models.Photo `json:"danglingPhotos"`
	PrunedPhotos   []uint         `json:"prunedPhotos"`
}

// Reconcile compares the blob directory with the photo rows. Blobs without a
// row are removed, rows without a blob are reported and optionally pruned.
func (m *Manager) Reconcile(ctx context.Context, opts ReconcileOptions) (*ReconcileReport, error) {
	names, err := m.blobs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBlobDelete, err)
	}

	photos, err := m.store.ListPhotos(ctx)
	if err != nil {
		return nil, metadataError(err)
	}

	report := &ReconcileReport{
		OrphanBlobs:    []string{},
		RemovedBlobs:   []string{},
		DanglingPhotos: []models.Photo{},
		PrunedPhotos:   []uint{},
	}

	known := make(map[string]struct{}, len(photos))
	for _, photo := range photos {
		known[photo.BlobName()] = struct{}{}
	}
	present := make(map[string]struct{}, len(names))
	for _, name := range names {
		present[name] = struct{}{}
	}

	var errs []error
	for _, name := range names {
		if _, ok := known[name]; ok {
			continue
		}

		report.OrphanBlobs = append(report.OrphanBlobs, name)
		if opts.DryRun {
			continue
		}

		removed, err := m.removeOrphan(ctx, name)
		if err != nil {
			m.log.Warn("Failed to remove orphaned blob '%s': %v", name, err)
			errs = append(errs, err)
			continue
		}
		if removed {
			report.RemovedBlobs = append(report.RemovedBlobs, name)
		}
	}

	for _, photo := range photos {
		if _, ok := present[photo.BlobName()]; ok {
			continue
		}

		report.DanglingPhotos = append(report.DanglingPhotos, photo)
		if opts.DryRun || !opts.PruneRows {
			continue
		}

		pruned, err := m.pruneDangling(ctx, photo.PhotoID)
		if err != nil {
			m.log.Warn("Failed to prune photo %d: %v", photo.PhotoID, err)
			errs = append(errs, err)
			continue
		}
		if pruned {
			report.PrunedPhotos = append(report.PrunedPhotos, photo.PhotoID)
		}
	}

	m.log.Info("Reconciled storage: %d orphaned blob(s), %d dangling photo(s)",
		len(report.OrphanBlobs), len(report.DanglingPhotos))
	return report, errors.Join(errs...)
}

// removeOrphan deletes a blob unless a row claimed its name in the meantime.
func (m *Manager) removeOrphan(ctx context.Context, blobName string) (bool, error) {
	name := strings.TrimSuffix(blobName, filepath.Ext(blobName))

	unlock := m.locks.Lock(nameKey(name))
	defer unlock()

	photo, err := m.store.GetPhotoByFileName(ctx, name)
	switch {
	case err == nil && photo.BlobName() == blobName:
		return false, nil
	case err != nil && !errors.Is(err, store.ErrNotFound):
		return false, metadataError(err)
	}

	if err := m.blobs.Remove(ctx, blobName); err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %w", ErrBlobDelete, err)
	}
	return true, nil
}

// pruneDangling deletes a row whose blob is still missing under lock.
func (m *Manager) pruneDangling(ctx context.Context, photoID uint) (bool, error) {
	unlockID := m.locks.Lock(idKey(photoID))
	defer unlockID()

	photo, err := m.store.GetPhoto(ctx, photoID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, metadataError(err)
	}

	unlockName := m.locks.Lock(nameKey(photo.FileName))
	defer unlockName()

	ok, err := m.blobs.Exists(ctx, photo.BlobName())
	if err != nil || ok {
		return false, err
	}

	if err := m.store.DeletePhoto(ctx, photoID); err != nil {
		return false, metadataError(err)
	}
	return true, nil
}
