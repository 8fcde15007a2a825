package models

import "time"

type Album struct {
	AlbumID      uint      `gorm:"column:album_id;primaryKey;autoIncrement" json:"albumID"`
	AlbumName    string    `gorm:"column:album_name;type:varchar(255);not null;index:idx_albums_name" json:"albumName"`
	CreationDate time.Time `gorm:"column:creation_date" json:"creationDate"`
}

func (Album) TableName() string {
	return "albums"
}

// InAlbum places a photo into an album
type InAlbum struct {
	PhotoID    uint      `gorm:"column:photo_id;primaryKey;autoIncrement:false" json:"photoID"`
	AlbumID    uint      `gorm:"column:album_id;primaryKey;autoIncrement:false;index:idx_in_album_album" json:"albumID"`
	UploadDate time.Time `gorm:"column:upload_date" json:"uploadDate"`
}

func (InAlbum) TableName() string {
	return "in_album"
}
