package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/mwantia/photolio/pkg/db/models"
)

// Camera operations

func (s *GormStore) CreateCamera(ctx context.Context, camera *models.Camera) error {
	return translate(s.db.WithContext(ctx).Create(camera).Error)
}

func (s *GormStore) GetCamera(ctx context.Context, make, model string) (*models.Camera, error) {
	var camera models.Camera
	err := s.db.WithContext(ctx).Where("make = ? AND model = ?", make, model).First(&camera).Error
	if err != nil {
		return nil, translate(err)
	}
	return &camera, nil
}

func (s *GormStore) ListCameras(ctx context.Context) ([]models.Camera, error) {
	cameras := []models.Camera{}
	err := s.db.WithContext(ctx).Order("make, model").Find(&cameras).Error
	return cameras, err
}

// DeleteCamera removes the TakenWith rows referencing the camera, then the camera.
func (s *GormStore) DeleteCamera(ctx context.Context, make, model string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("make = ? AND model = ?", make, model).Delete(&models.TakenWith{}).Error; err != nil {
			return err
		}

		result := tx.Where("make = ? AND model = ?", make, model).Delete(&models.Camera{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: camera %s %s", ErrNotFound, make, model)
		}
		return nil
	})
}

func (s *GormStore) DeleteAllCameras(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.TakenWith{}).Error; err != nil {
			return err
		}
		return tx.Where("1 = 1").Delete(&models.Camera{}).Error
	})
}

func (s *GormStore) AddPhotoCamera(ctx context.Context, takenWith *models.TakenWith) error {
	return translate(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := exists(tx, &models.Photo{}, fmt.Sprintf("photo %d", takenWith.PhotoID), "photo_id = ?", takenWith.PhotoID); err != nil {
			return err
		}
		if err := exists(tx, &models.Camera{}, "camera "+takenWith.Make+" "+takenWith.Model,
			"make = ? AND model = ?", takenWith.Make, takenWith.Model); err != nil {
			return err
		}
		return tx.Create(takenWith).Error
	}))
}

// UpdatePhotoCamera replaces the camera recorded for a photo. It fails with
// ErrNotFound when the photo has no camera yet.
func (s *GormStore) UpdatePhotoCamera(ctx context.Context, photoID uint, make, model string) error {
	return translate(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := exists(tx, &models.TakenWith{}, fmt.Sprintf("camera of photo %d", photoID), "photo_id = ?", photoID); err != nil {
			return err
		}
		return tx.Model(&models.TakenWith{}).
			Where("photo_id = ?", photoID).
			Updates(map[string]any{"make": make, "model": model}).Error
	}))
}

func (s *GormStore) RemovePhotoCamera(ctx context.Context, takenWith *models.TakenWith) error {
	return s.db.WithContext(ctx).
		Where("photo_id = ? AND make = ? AND model = ?", takenWith.PhotoID, takenWith.Make, takenWith.Model).
		Delete(&models.TakenWith{}).Error
}

func (s *GormStore) GetPhotoCamera(ctx context.Context, photoID uint) ([]models.TakenWith, error) {
	cameras := []models.TakenWith{}
	err := s.db.WithContext(ctx).Where("photo_id = ?", photoID).Find(&cameras).Error
	return cameras, err
}

func (s *GormStore) ListCameraPhotos(ctx context.Context, make, model string) ([]models.TakenWith, error) {
	photos := []models.TakenWith{}
	err := s.db.WithContext(ctx).Where("make = ? AND model = ?", make, model).Order("photo_id").Find(&photos).Error
	return photos, err
}
