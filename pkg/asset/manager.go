// Package asset keeps photo blobs and their metadata rows consistent.
//
// Every write follows the same order: the blob is changed first and the row
// is only committed once the blob step succeeded. When the row step fails
// afterwards the blob change is undone where that is possible, and the error
// kind tells the caller which step broke.
package asset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mwantia/photolio/pkg/blob"
	"github.com/mwantia/photolio/pkg/db/models"
	"github.com/mwantia/photolio/pkg/db/store"
	"github.com/mwantia/photolio/pkg/events"
	"github.com/mwantia/photolio/pkg/log"
)

const defaultDeleteWorkers = 4

// Manager is the only component that creates, renames or removes blobs.
type Manager struct {
	store  store.MetadataStore
	blobs  blob.Store
	log    log.LoggerService
	events events.Publisher
	locks  *keyedMutex

	deleteWorkers int
}

type Option func(*Manager)

func WithPublisher(p events.Publisher) Option {
	return func(m *Manager) {
		if p != nil {
			m.events = p
		}
	}
}

func WithDeleteWorkers(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.deleteWorkers = n
		}
	}
}

func NewManager(st store.MetadataStore, blobs blob.Store, logger log.LoggerService, opts ...Option) *Manager {
	m := &Manager{
		store:         st,
		blobs:         blobs,
		log:           logger,
		events:        events.Discard,
		locks:         newKeyedMutex(),
		deleteWorkers: defaultDeleteWorkers,
	}

	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Upload stores the image under its logical name and inserts the photo row.
func (m *Manager) Upload(ctx context.Context, r io.Reader, fileName, contentType string) (*models.Photo, error) {
	name := LogicalName(fileName)
	if err := validateLogicalName(name); err != nil {
		return nil, err
	}

	ext, err := ExtensionFor(contentType)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	width, height, err := Dimensions(data)
	if err != nil {
		return nil, err
	}

	unlock := m.locks.Lock(nameKey(name))
	defer unlock()

	if err := m.ensureNameFree(ctx, name, 0); err != nil {
		return nil, err
	}

	photo := &models.Photo{
		FileName: name,
		FileSize: int64(len(data)),
		FileType: ext,
		Height:   height,
		Width:    width,
	}

	if _, err := m.blobs.Put(ctx, photo.BlobName(), bytes.NewReader(data)); err != nil {
		m.log.Error("Failed to write blob '%s': %v", photo.BlobName(), err)
		return nil, fmt.Errorf("%w: %w", ErrBlobWrite, err)
	}

	if err := m.store.CreatePhoto(ctx, photo); err != nil {
		m.log.Error("Failed to insert photo '%s', removing blob: %v", name, err)
		if rmErr := m.blobs.Remove(context.WithoutCancel(ctx), photo.BlobName()); rmErr != nil {
			m.log.Error("Blob '%s' is orphaned and needs reconciliation: %v", photo.BlobName(), rmErr)
		}
		return nil, metadataError(err)
	}

	m.log.Info("Uploaded photo %d as '%s' (%d bytes, %dx%d)", photo.PhotoID, photo.BlobName(), photo.FileSize, width, height)
	m.publish(events.PhotoUploaded, photo.PhotoID, photo.FileName)
	return photo, nil
}

// Rename moves the blob to newName and then updates the row. A failed row
// update moves the blob back.
func (m *Manager) Rename(ctx context.Context, photoID uint, newName string) (*models.Photo, error) {
	if err := validateLogicalName(newName); err != nil {
		return nil, err
	}

	photo, err := m.withAsset(ctx, photoID, []string{newName}, func(photo *models.Photo) (*mutation, error) {
		if photo.FileName == newName {
			return nil, nil
		}
		if err := m.ensureNameFree(ctx, newName, photo.PhotoID); err != nil {
			return nil, err
		}

		oldBlob, newBlob := photo.BlobName(), newName+photo.FileType
		return &mutation{
			blob: func(ctx context.Context) error {
				if err := m.blobs.Rename(ctx, oldBlob, newBlob); err != nil {
					return fmt.Errorf("%w: %w", ErrBlobRename, err)
				}
				return nil
			},
			row: func(ctx context.Context) error {
				return m.store.RenamePhoto(ctx, photo.PhotoID, newName)
			},
			undo: func(ctx context.Context) error {
				return m.blobs.Rename(ctx, newBlob, oldBlob)
			},
			apply: func(p *models.Photo) {
				p.FileName = newName
			},
		}, nil
	})
	if err != nil {
		return nil, err
	}

	m.publish(events.PhotoRenamed, photo.PhotoID, photo.FileName)
	return photo, nil
}

// Delete removes the blob and, only once that succeeded, the row.
func (m *Manager) Delete(ctx context.Context, photoID uint) error {
	photo, err := m.withAsset(ctx, photoID, nil, func(photo *models.Photo) (*mutation, error) {
		return &mutation{
			blob: func(ctx context.Context) error {
				if err := m.blobs.Remove(ctx, photo.BlobName()); err != nil {
					return fmt.Errorf("%w: %w", ErrBlobDelete, err)
				}
				return nil
			},
			row: func(ctx context.Context) error {
				return m.store.DeletePhoto(ctx, photo.PhotoID)
			},
		}, nil
	})
	if err != nil {
		return err
	}

	m.publish(events.PhotoDeleted, photo.PhotoID, photo.FileName)
	return nil
}

// DeleteAll removes every blob and every photo row. Both halves always run;
// blobs that could not be removed are reported through *PartialFailureError.
func (m *Manager) DeleteAll(ctx context.Context) error {
	var errs []error

	names, err := m.blobs.List(ctx)
	if err != nil {
		m.log.Error("Failed to list blobs: %v", err)
		errs = append(errs, fmt.Errorf("%w: %w", ErrBlobDelete, err))
	}

	var (
		mu      sync.Mutex
		partial = &PartialFailureError{}
		group   errgroup.Group
	)
	group.SetLimit(m.deleteWorkers)

	for _, name := range names {
		group.Go(func() error {
			err := m.blobs.Remove(ctx, name)
			if err == nil || errors.Is(err, blob.ErrNotFound) {
				return nil
			}

			m.log.Warn("Failed to delete blob '%s': %v", name, err)
			mu.Lock()
			partial.Failed = append(partial.Failed, name)
			partial.Errs = append(partial.Errs, err)
			mu.Unlock()
			return nil
		})
	}
	_ = group.Wait()

	if len(partial.Failed) > 0 {
		sort.Strings(partial.Failed)
		errs = append(errs, partial)
	}

	if err := m.store.DeleteAllPhotos(ctx); err != nil {
		m.log.Error("Failed to delete photo rows: %v", err)
		errs = append(errs, metadataError(err))
	}

	m.log.Info("Deleted all photos (%d blob(s) scanned, %d failed)", len(names), len(partial.Failed))
	m.publish(events.PhotosCleared, 0, "")
	return errors.Join(errs...)
}

func (m *Manager) Photo(ctx context.Context, photoID uint) (*models.Photo, error) {
	photo, err := m.store.GetPhoto(ctx, photoID)
	if err != nil {
		return nil, lookupError(err, photoID)
	}
	return photo, nil
}

func (m *Manager) Photos(ctx context.Context) ([]models.Photo, error) {
	photos, err := m.store.ListPhotos(ctx)
	if err != nil {
		return nil, metadataError(err)
	}
	return photos, nil
}

// LastPhoto returns the most recently inserted photo.
func (m *Manager) LastPhoto(ctx context.Context) (*models.Photo, error) {
	photo, err := m.store.LastPhoto(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: no photos", ErrNotFound)
		}
		return nil, metadataError(err)
	}
	return photo, nil
}

// ensureNameFree fails with ErrDuplicateName when a photo other than self
// already uses name.
func (m *Manager) ensureNameFree(ctx context.Context, name string, self uint) error {
	existing, err := m.store.GetPhotoByFileName(ctx, name)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil
	case err != nil:
		return metadataError(err)
	case existing.PhotoID != self:
		return fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}
	return nil
}

func (m *Manager) publish(kind events.Type, photoID uint, fileName string) {
	m.events.Publish(events.Event{
		Type:     kind,
		PhotoID:  photoID,
		FileName: fileName,
		Time:     time.Now().UTC(),
	})
}

func lookupError(err error, photoID uint) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: %d", ErrNotFound, photoID)
	}
	return metadataError(err)
}

func metadataError(err error) error {
	if errors.Is(err, store.ErrDuplicate) {
		return fmt.Errorf("%w: %w", ErrDuplicateName, err)
	}
	return fmt.Errorf("%w: %w", ErrMetadata, err)
}

func nameKey(name string) string {
	return "name:" + name
}

func idKey(id uint) string {
	return fmt.Sprintf("id:%d", id)
}
