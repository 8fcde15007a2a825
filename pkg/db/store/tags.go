package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/mwantia/photolio/pkg/db/models"
)

// Tag operations

func (s *GormStore) CreateTag(ctx context.Context, tag *models.Tag) error {
	return translate(s.db.WithContext(ctx).Create(tag).Error)
}

func (s *GormStore) GetTag(ctx context.Context, tagName string) (*models.Tag, error) {
	var tag models.Tag
	err := s.db.WithContext(ctx).Where("tag_name = ?", tagName).First(&tag).Error
	if err != nil {
		return nil, translate(err)
	}
	return &tag, nil
}

func (s *GormStore) ListTags(ctx context.Context) ([]models.Tag, error) {
	tags := []models.Tag{}
	err := s.db.WithContext(ctx).Order("tag_name").Find(&tags).Error
	return tags, err
}

// DeleteTag removes the HasTag rows referencing the tag, then the tag itself.
func (s *GormStore) DeleteTag(ctx context.Context, tagName string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tag_name = ?", tagName).Delete(&models.HasTag{}).Error; err != nil {
			return err
		}

		result := tx.Where("tag_name = ?", tagName).Delete(&models.Tag{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: tag %s", ErrNotFound, tagName)
		}
		return nil
	})
}

func (s *GormStore) DeleteAllTags(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.HasTag{}).Error; err != nil {
			return err
		}
		return tx.Where("1 = 1").Delete(&models.Tag{}).Error
	})
}

func (s *GormStore) TagPhoto(ctx context.Context, photoID uint, tagName string) error {
	return translate(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := exists(tx, &models.Photo{}, fmt.Sprintf("photo %d", photoID), "photo_id = ?", photoID); err != nil {
			return err
		}
		if err := exists(tx, &models.Tag{}, "tag "+tagName, "tag_name = ?", tagName); err != nil {
			return err
		}
		return tx.Create(&models.HasTag{PhotoID: photoID, TagName: tagName}).Error
	}))
}

func (s *GormStore) UntagPhoto(ctx context.Context, photoID uint, tagNames []string) error {
	if len(tagNames) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Where("photo_id = ? AND tag_name IN ?", photoID, tagNames).
		Delete(&models.HasTag{}).Error
}

func (s *GormStore) ListPhotoTags(ctx context.Context, photoID uint) ([]models.HasTag, error) {
	tags := []models.HasTag{}
	err := s.db.WithContext(ctx).Where("photo_id = ?", photoID).Order("tag_name").Find(&tags).Error
	return tags, err
}
