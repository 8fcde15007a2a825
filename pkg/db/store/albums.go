package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mwantia/photolio/pkg/db/models"
)

// Album operations

func (s *GormStore) CreateAlbum(ctx context.Context, album *models.Album) error {
	return translate(s.db.WithContext(ctx).Create(album).Error)
}

func (s *GormStore) FindAlbums(ctx context.Context, albumName string) ([]models.Album, error) {
	albums := []models.Album{}
	err := s.db.WithContext(ctx).Where("album_name = ?", albumName).Order("album_id").Find(&albums).Error
	return albums, err
}

func (s *GormStore) ListAlbums(ctx context.Context) ([]models.Album, error) {
	albums := []models.Album{}
	err := s.db.WithContext(ctx).Order("album_id").Find(&albums).Error
	return albums, err
}

// DeleteAlbum removes every album called albumName along with their InAlbum rows.
func (s *GormStore) DeleteAlbum(ctx context.Context, albumName string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := tx.Model(&models.Album{}).Select("album_id").Where("album_name = ?", albumName)
		if err := tx.Where("album_id IN (?)", ids).Delete(&models.InAlbum{}).Error; err != nil {
			return err
		}

		result := tx.Where("album_name = ?", albumName).Delete(&models.Album{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: album %s", ErrNotFound, albumName)
		}
		return nil
	})
}

func (s *GormStore) DeleteAllAlbums(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.InAlbum{}).Error; err != nil {
			return err
		}
		return tx.Where("1 = 1").Delete(&models.Album{}).Error
	})
}

func (s *GormStore) AddPhotoToAlbum(ctx context.Context, photoID, albumID uint, uploadDate time.Time) error {
	return translate(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := exists(tx, &models.Photo{}, fmt.Sprintf("photo %d", photoID), "photo_id = ?", photoID); err != nil {
			return err
		}
		if err := exists(tx, &models.Album{}, fmt.Sprintf("album %d", albumID), "album_id = ?", albumID); err != nil {
			return err
		}
		return tx.Create(&models.InAlbum{PhotoID: photoID, AlbumID: albumID, UploadDate: uploadDate}).Error
	}))
}

func (s *GormStore) RemovePhotoFromAlbum(ctx context.Context, photoID, albumID uint) error {
	return s.db.WithContext(ctx).
		Where("photo_id = ? AND album_id = ?", photoID, albumID).
		Delete(&models.InAlbum{}).Error
}

func (s *GormStore) ListPhotoAlbums(ctx context.Context, photoID uint) ([]models.Album, error) {
	albums := []models.Album{}
	err := s.db.WithContext(ctx).
		Joins("JOIN in_album ON in_album.album_id = albums.album_id").
		Where("in_album.photo_id = ?", photoID).
		Order("albums.album_id").
		Find(&albums).Error
	return albums, err
}
