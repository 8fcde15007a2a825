package models

// Photo is the metadata row mirroring one blob named FileName+FileType.
type Photo struct {
	PhotoID  uint   `gorm:"column:photo_id;primaryKey;autoIncrement" json:"photoID"`
	FileName string `gorm:"column:file_name;type:varchar(255);not null;uniqueIndex:idx_photos_file_name" json:"fileName"`
	FileSize int64  `gorm:"column:file_size;not null" json:"fileSize"`
	FileType string `gorm:"column:file_type;type:varchar(16);not null" json:"fileType"`
	Height   int    `gorm:"column:height" json:"height"`
	Width    int    `gorm:"column:width" json:"width"`
}

func (Photo) TableName() string {
	return "photos"
}

// BlobName returns the name of the blob backing this photo.
func (p Photo) BlobName() string {
	return p.FileName + p.FileType
}
