package models

import "time"

// Tag is a named label that photos can carry
type Tag struct {
	TagName     string `gorm:"column:tag_name;type:varchar(255);primaryKey" json:"tagName"`
	Description string `gorm:"column:description;type:text" json:"description"`
}

func (Tag) TableName() string {
	return "tags"
}

// HasTag relates a photo to a tag
type HasTag struct {
	PhotoID   uint      `gorm:"column:photo_id;primaryKey;autoIncrement:false" json:"photoID"`
	TagName   string    `gorm:"column:tag_name;type:varchar(255);primaryKey;index:idx_has_tag_name" json:"tagName"`
	CreatedAt time.Time `gorm:"column:created_at" json:"-"`
}

func (HasTag) TableName() string {
	return "has_tag"
}
