package asset

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileRemovesOrphansAndReportsDangling(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	upload(t, f.manager, pngBytes(t, 2, 2), "sunset.png", "image/png")
	beach := upload(t, f.manager, pngBytes(t, 2, 2), "beach.png", "image/png")

	_, err := f.blobs.Put(ctx, "orphan.jpg", bytes.NewReader([]byte("left behind")))
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(f.blobs.Root(), "beach.png")))

	dry, err := f.manager.Reconcile(ctx, ReconcileOptions{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"orphan.jpg"}, dry.OrphanBlobs)
	assert.Empty(t, dry.RemovedBlobs)
	require.Len(t, dry.DanglingPhotos, 1)
	assert.Equal(t, beach.PhotoID, dry.DanglingPhotos[0].PhotoID)
	assert.Contains(t, f.blobNames(t), "orphan.jpg")

	report, err := f.manager.Reconcile(ctx, ReconcileOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"orphan.jpg"}, report.RemovedBlobs)
	assert.Empty(t, report.PrunedPhotos)
	assert.Equal(t, []string{"sunset.png"}, f.blobNames(t))

	_, err = f.manager.Photo(ctx, beach.PhotoID)
	assert.NoError(t, err)
}

func TestReconcilePrunesDanglingRows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	beach := upload(t, f.manager, pngBytes(t, 2, 2), "beach.png", "image/png")
	require.NoError(t, os.Remove(filepath.Join(f.blobs.Root(), "beach.png")))

	report, err := f.manager.Reconcile(ctx, ReconcileOptions{PruneRows: true})
	require.NoError(t, err)
	assert.Equal(t, []uint{beach.PhotoID}, report.PrunedPhotos)

	_, err = f.manager.Photo(ctx, beach.PhotoID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReconcileKeepsBlobOfLivePhoto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	upload(t, f.manager, pngBytes(t, 2, 2), "sunset.png", "image/png")

	report, err := f.manager.Reconcile(ctx, ReconcileOptions{})
	require.NoError(t, err)
	assert.Empty(t, report.OrphanBlobs)
	assert.Empty(t, report.DanglingPhotos)
	assert.Equal(t, []string{"sunset.png"}, f.blobNames(t))
}
