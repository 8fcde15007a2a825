package store

import (
	"context"
	"errors"
	"time"

	"github.com/mwantia/photolio/pkg/db/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// MetadataStore defines the interface for database operations
type MetadataStore interface {
	// Lifecycle
	Connect(ctx context.Context) error
	Close() error
	Migrate(ctx context.Context) error
	Health(ctx context.Context) error

	// Photo operations
	CreatePhoto(ctx context.Context, photo *models.Photo) error
	GetPhoto(ctx context.Context, id uint) (*models.Photo, error)
	GetPhotoByFileName(ctx context.Context, fileName string) (*models.Photo, error)
	ListPhotos(ctx context.Context) ([]models.Photo, error)
	LastPhoto(ctx context.Context) (*models.Photo, error)
	RenamePhoto(ctx context.Context, id uint, fileName string) error
	DeletePhoto(ctx context.Context, id uint) error
	DeleteAllPhotos(ctx context.Context) error

	// Tag operations
	CreateTag(ctx context.Context, tag *models.Tag) error
	GetTag(ctx context.Context, tagName string) (*models.Tag, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
	DeleteTag(ctx context.Context, tagName string) error
	DeleteAllTags(ctx context.Context) error
	TagPhoto(ctx context.Context, photoID uint, tagName string) error
	UntagPhoto(ctx context.Context, photoID uint, tagNames []string) error
	ListPhotoTags(ctx context.Context, photoID uint) ([]models.HasTag, error)

	// Album operations
	CreateAlbum(ctx context.Context, album *models.Album) error
	FindAlbums(ctx context.Context, albumName string) ([]models.Album, error)
	ListAlbums(ctx context.Context) ([]models.Album, error)
	DeleteAlbum(ctx context.Context, albumName string) error
	DeleteAllAlbums(ctx context.Context) error
	AddPhotoToAlbum(ctx context.Context, photoID, albumID uint, uploadDate time.Time) error
	RemovePhotoFromAlbum(ctx context.Context, photoID, albumID uint) error
	ListPhotoAlbums(ctx context.Context, photoID uint) ([]models.Album, error)

	// Camera operations
	CreateCamera(ctx context.Context, camera *models.Camera) error
	GetCamera(ctx context.Context, make, model string) (*models.Camera, error)
	ListCameras(ctx context.Context) ([]models.Camera, error)
	DeleteCamera(ctx context.Context, make, model string) error
	DeleteAllCameras(ctx context.Context) error
	AddPhotoCamera(ctx context.Context, takenWith *models.TakenWith) error
	UpdatePhotoCamera(ctx context.Context, photoID uint, make, model string) error
	RemovePhotoCamera(ctx context.Context, takenWith *models.TakenWith) error
	GetPhotoCamera(ctx context.Context, photoID uint) ([]models.TakenWith, error)
	ListCameraPhotos(ctx context.Context, make, model string) ([]models.TakenWith, error)
}
