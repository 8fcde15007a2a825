package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/mwantia/photolio/pkg/db/models"
)

// Photo operations

func (s *GormStore) CreatePhoto(ctx context.Context, photo *models.Photo) error {
	return translate(s.db.WithContext(ctx).Create(photo).Error)
}

func (s *GormStore) GetPhoto(ctx context.Context, id uint) (*models.Photo, error) {
	var photo models.Photo
	err := s.db.WithContext(ctx).Where("photo_id = ?", id).First(&photo).Error
	if err != nil {
		return nil, translate(err)
	}
	return &photo, nil
}

func (s *GormStore) GetPhotoByFileName(ctx context.Context, fileName string) (*models.Photo, error) {
	var photo models.Photo
	err := s.db.WithContext(ctx).Where("file_name = ?", fileName).First(&photo).Error
	if err != nil {
		return nil, translate(err)
	}
	return &photo, nil
}

func (s *GormStore) ListPhotos(ctx context.Context) ([]models.Photo, error) {
	photos := []models.Photo{}
	err := s.db.WithContext(ctx).Order("photo_id").Find(&photos).Error
	return photos, err
}

func (s *GormStore) LastPhoto(ctx context.Context) (*models.Photo, error) {
	var photo models.Photo
	err := s.db.WithContext(ctx).Order("photo_id DESC").First(&photo).Error
	if err != nil {
		return nil, translate(err)
	}
	return &photo, nil
}

func (s *GormStore) RenamePhoto(ctx context.Context, id uint, fileName string) error {
	result := s.db.WithContext(ctx).
		Model(&models.Photo{}).
		Where("photo_id = ?", id).
		Update("file_name", fileName)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: photo %d", ErrNotFound, id)
	}
	return nil
}

// DeletePhoto removes the photo row together with its association rows.
func (s *GormStore) DeletePhoto(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deletePhotoAssociations(tx.Where("photo_id = ?", id)); err != nil {
			return err
		}

		result := tx.Where("photo_id = ?", id).Delete(&models.Photo{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: photo %d", ErrNotFound, id)
		}
		return nil
	})
}

func (s *GormStore) DeleteAllPhotos(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deletePhotoAssociations(tx.Where("1 = 1")); err != nil {
			return err
		}
		return tx.Where("1 = 1").Delete(&models.Photo{}).Error
	})
}

func deletePhotoAssociations(scope *gorm.DB) error {
	for _, model := range []any{&models.HasTag{}, &models.InAlbum{}, &models.TakenWith{}} {
		if err := scope.Session(&gorm.Session{}).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}
