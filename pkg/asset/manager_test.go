package asset

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/mwantia/photolio/internal/config/server"
	"github.com/mwantia/photolio/pkg/blob"
	"github.com/mwantia/photolio/pkg/db/models"
	"github.com/mwantia/photolio/pkg/db/store"
	"github.com/mwantia/photolio/pkg/events"
	"github.com/mwantia/photolio/pkg/log"
)

type fixture struct {
	manager *Manager
	store   *store.GormStore
	blobs   *blob.LocalStore
	events  *recorder
}

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(event events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) types() []events.Type {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]events.Type, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

// failingStore overrides single MetadataStore calls with an error.
type failingStore struct {
	store.MetadataStore
	createErr error
	renameErr error
	deleteErr error
}

func (f *failingStore) CreatePhoto(ctx context.Context, photo *models.Photo) error {
	if f.createErr != nil {
		return f.createErr
	}
	return f.MetadataStore.CreatePhoto(ctx, photo)
}

func (f *failingStore) RenamePhoto(ctx context.Context, id uint, fileName string) error {
	if f.renameErr != nil {
		return f.renameErr
	}
	return f.MetadataStore.RenamePhoto(ctx, id, fileName)
}

func (f *failingStore) DeleteAllPhotos(ctx context.Context) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.MetadataStore.DeleteAllPhotos(ctx)
}

// failingBlobs refuses to remove the named blobs.
type failingBlobs struct {
	blob.Store
	removeErr map[string]error
}

func (f *failingBlobs) Remove(ctx context.Context, name string) error {
	if err, ok := f.removeErr[name]; ok {
		return err
	}
	return f.Store.Remove(ctx, name)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dir := t.TempDir()
	st, err := store.NewGormStore(store.Config{
		Type: config.MetadataTypeSQLite,
		DSN:  filepath.Join(dir, "photolio.db"),
	})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, st.Connect(ctx))
	require.NoError(t, st.Migrate(ctx))
	t.Cleanup(func() { _ = st.Close() })

	blobs, err := blob.NewLocalStore(filepath.Join(dir, "images"))
	require.NoError(t, err)

	rec := &recorder{}
	return &fixture{
		manager: NewManager(st, blobs, log.NewNopLogger(), WithPublisher(rec)),
		store:   st,
		blobs:   blobs,
		events:  rec,
	}
}

func (f *fixture) withStore(s store.MetadataStore) *Manager {
	return NewManager(s, f.blobs, log.NewNopLogger())
}

func (f *fixture) withBlobs(b blob.Store) *Manager {
	return NewManager(f.store, b, log.NewNopLogger())
}

func (f *fixture) blobNames(t *testing.T) []string {
	t.Helper()

	names, err := f.blobs.List(context.Background())
	require.NoError(t, err)
	return names
}

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, testImage(w, h), nil))
	return buf.Bytes()
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage(w, h)))
	return buf.Bytes()
}

func gifBytes(t *testing.T, w, h int) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, testImage(w, h), nil))
	return buf.Bytes()
}

func upload(t *testing.T, m *Manager, data []byte, fileName, contentType string) *models.Photo {
	t.Helper()

	photo, err := m.Upload(context.Background(), bytes.NewReader(data), fileName, contentType)
	require.NoError(t, err)
	return photo
}

func TestUploadRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	data := jpegBytes(t, 64, 48)

	photo := upload(t, f.manager, data, "sunset.jpg", "image/jpeg")
	assert.EqualValues(t, 1, photo.PhotoID)

	got, err := f.manager.Photo(ctx, photo.PhotoID)
	require.NoError(t, err)
	assert.Equal(t, "sunset", got.FileName)
	assert.Equal(t, ".jpg", got.FileType)
	assert.EqualValues(t, len(data), got.FileSize)
	assert.Equal(t, 64, got.Width)
	assert.Equal(t, 48, got.Height)

	stored, err := os.ReadFile(filepath.Join(f.blobs.Root(), "sunset.jpg"))
	require.NoError(t, err)
	assert.Equal(t, data, stored)

	assert.Equal(t, []events.Type{events.PhotoUploaded}, f.events.types())
}

func TestUploadDerivesTypeFromContentType(t *testing.T) {
	f := newFixture(t)

	p := upload(t, f.manager, pngBytes(t, 3, 5), "C:\\photos\\beach.final.png", "image/png")
	assert.Equal(t, "beach", p.FileName)
	assert.Equal(t, ".png", p.FileType)
	assert.Equal(t, 3, p.Width)
	assert.Equal(t, 5, p.Height)

	g := upload(t, f.manager, gifBytes(t, 7, 2), "loop.gif", "image/gif")
	assert.Equal(t, ".gif", g.FileType)

	assert.Equal(t, []string{"beach.png", "loop.gif"}, f.blobNames(t))
}

func TestUploadDuplicateName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := jpegBytes(t, 10, 10)

	upload(t, f.manager, first, "sunset.jpg", "image/jpeg")

	_, err := f.manager.Upload(ctx, bytes.NewReader(pngBytes(t, 2, 2)), "sunset.png", "image/png")
	assert.ErrorIs(t, err, ErrDuplicateName)

	photos, err := f.manager.Photos(ctx)
	require.NoError(t, err)
	assert.Len(t, photos, 1)
	assert.Equal(t, []string{"sunset.jpg"}, f.blobNames(t))

	stored, err := os.ReadFile(filepath.Join(f.blobs.Root(), "sunset.jpg"))
	require.NoError(t, err)
	assert.Equal(t, first, stored)
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	f := newFixture(t)

	_, err := f.manager.Upload(context.Background(), bytes.NewReader(pngBytes(t, 2, 2)), "scan.bmp", "image/bmp")
	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.Empty(t, f.blobNames(t))
}

func TestUploadRejectsUndecodableBytes(t *testing.T) {
	f := newFixture(t)

	_, err := f.manager.Upload(context.Background(), bytes.NewReader([]byte("not an image")), "sunset.jpg", "image/jpeg")
	assert.ErrorIs(t, err, ErrDecode)
	assert.Empty(t, f.blobNames(t))
}

func TestUploadRejectsEmptyName(t *testing.T) {
	f := newFixture(t)

	_, err := f.manager.Upload(context.Background(), bytes.NewReader(pngBytes(t, 2, 2)), ".png", "image/png")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestUploadRemovesBlobWhenInsertFails(t *testing.T) {
	f := newFixture(t)
	m := f.withStore(&failingStore{MetadataStore: f.store, createErr: errors.New("connection reset")})

	_, err := m.Upload(context.Background(), bytes.NewReader(pngBytes(t, 2, 2)), "sunset.png", "image/png")
	assert.ErrorIs(t, err, ErrMetadata)
	assert.Empty(t, f.blobNames(t))
}

func TestConcurrentUploadsSameName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	data := pngBytes(t, 4, 4)

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		dupes     int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.manager.Upload(ctx, bytes.NewReader(data), "sunset.png", "image/png")

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrDuplicateName):
				dupes++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, dupes)

	photos, err := f.manager.Photos(ctx)
	require.NoError(t, err)
	assert.Len(t, photos, 1)
	assert.Zero(t, f.manager.locks.size())
}

func TestRename(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	photo := upload(t, f.manager, pngBytes(t, 2, 2), "sunset.png", "image/png")

	renamed, err := f.manager.Rename(ctx, photo.PhotoID, "dusk")
	require.NoError(t, err)
	assert.Equal(t, "dusk", renamed.FileName)

	got, err := f.manager.Photo(ctx, photo.PhotoID)
	require.NoError(t, err)
	assert.Equal(t, "dusk", got.FileName)
	assert.Equal(t, []string{"dusk.png"}, f.blobNames(t))
}

func TestRenameToOwnNameIsNoop(t *testing.T) {
	f := newFixture(t)
	photo := upload(t, f.manager, pngBytes(t, 2, 2), "sunset.png", "image/png")

	renamed, err := f.manager.Rename(context.Background(), photo.PhotoID, "sunset")
	require.NoError(t, err)
	assert.Equal(t, "sunset", renamed.FileName)
	assert.Equal(t, []string{"sunset.png"}, f.blobNames(t))
}

func TestRenameNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.manager.Rename(context.Background(), 42, "dusk")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRenameDuplicateName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	upload(t, f.manager, pngBytes(t, 2, 2), "sunset.png", "image/png")
	beach := upload(t, f.manager, pngBytes(t, 2, 2), "beach.png", "image/png")

	_, err := f.manager.Rename(ctx, beach.PhotoID, "sunset")
	assert.ErrorIs(t, err, ErrDuplicateName)
	assert.Equal(t, "photo already exists: sunset", err.Error())
	assert.Equal(t, []string{"beach.png", "sunset.png"}, f.blobNames(t))
}

func TestRenameBlobFailureLeavesRowUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	photo := upload(t, f.manager, pngBytes(t, 2, 2), "sunset.png", "image/png")

	// A stray file occupies the target name at the filesystem level only.
	_, err := f.blobs.Put(ctx, "dusk.png", bytes.NewReader([]byte("stray")))
	require.NoError(t, err)

	_, err = f.manager.Rename(ctx, photo.PhotoID, "dusk")
	assert.ErrorIs(t, err, ErrBlobRename)
	assert.ErrorIs(t, err, blob.ErrExists)

	got, err := f.manager.Photo(ctx, photo.PhotoID)
	require.NoError(t, err)
	assert.Equal(t, "sunset", got.FileName)
}

func TestRenameRowFailureRollsBackBlob(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	photo := upload(t, f.manager, pngBytes(t, 2, 2), "sunset.png", "image/png")

	m := f.withStore(&failingStore{MetadataStore: f.store, renameErr: errors.New("lock wait timeout")})
	_, err := m.Rename(ctx, photo.PhotoID, "dusk")
	assert.ErrorIs(t, err, ErrMetadata)

	assert.Equal(t, []string{"sunset.png"}, f.blobNames(t))
	got, err := f.manager.Photo(ctx, photo.PhotoID)
	require.NoError(t, err)
	assert.Equal(t, "sunset", got.FileName)
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	photo := upload(t, f.manager, pngBytes(t, 2, 2), "sunset.png", "image/png")

	require.NoError(t, f.manager.Delete(ctx, photo.PhotoID))

	_, err := f.manager.Photo(ctx, photo.PhotoID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, f.blobNames(t))

	assert.ErrorIs(t, f.manager.Delete(ctx, photo.PhotoID), ErrNotFound)
}

func TestDeleteWithMissingBlobKeepsRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	photo := upload(t, f.manager, pngBytes(t, 2, 2), "sunset.png", "image/png")

	require.NoError(t, os.Remove(filepath.Join(f.blobs.Root(), "sunset.png")))

	err := f.manager.Delete(ctx, photo.PhotoID)
	assert.ErrorIs(t, err, ErrBlobDelete)
	assert.ErrorIs(t, err, blob.ErrNotFound)

	_, err = f.manager.Photo(ctx, photo.PhotoID)
	assert.NoError(t, err)
}

func TestDeleteAllIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	upload(t, f.manager, pngBytes(t, 2, 2), "sunset.png", "image/png")
	upload(t, f.manager, jpegBytes(t, 2, 2), "beach.jpg", "image/jpeg")

	require.NoError(t, f.manager.DeleteAll(ctx))
	require.NoError(t, f.manager.DeleteAll(ctx))

	photos, err := f.manager.Photos(ctx)
	require.NoError(t, err)
	assert.Empty(t, photos)
	assert.Empty(t, f.blobNames(t))
}

func TestDeleteAllReportsPartialFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	upload(t, f.manager, pngBytes(t, 2, 2), "sunset.png", "image/png")
	upload(t, f.manager, pngBytes(t, 2, 2), "beach.png", "image/png")

	m := f.withBlobs(&failingBlobs{
		Store:     f.blobs,
		removeErr: map[string]error{"beach.png": os.ErrPermission},
	})

	err := m.DeleteAll(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPartialFailure)
	assert.NotErrorIs(t, err, ErrMetadata)

	var partial *PartialFailureError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, []string{"beach.png"}, partial.Failed)

	// Rows are removed regardless of blob failures.
	photos, err := f.manager.Photos(ctx)
	require.NoError(t, err)
	assert.Empty(t, photos)
	assert.Equal(t, []string{"beach.png"}, f.blobNames(t))
}

func TestDeleteAllRowFailureStillRemovesBlobs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	upload(t, f.manager, pngBytes(t, 2, 2), "sunset.png", "image/png")

	m := f.withStore(&failingStore{MetadataStore: f.store, deleteErr: errors.New("read-only")})

	err := m.DeleteAll(ctx)
	assert.ErrorIs(t, err, ErrMetadata)
	assert.Empty(t, f.blobNames(t))
}

func TestLastPhoto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.manager.LastPhoto(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	upload(t, f.manager, pngBytes(t, 2, 2), "sunset.png", "image/png")
	beach := upload(t, f.manager, pngBytes(t, 2, 2), "beach.png", "image/png")

	last, err := f.manager.LastPhoto(ctx)
	require.NoError(t, err)
	assert.Equal(t, beach.PhotoID, last.PhotoID)
}
