package models

// Camera is identified by its make and model together
type Camera struct {
	Make  string `gorm:"column:make;type:varchar(255);primaryKey" json:"make"`
	Model string `gorm:"column:model;type:varchar(255);primaryKey" json:"model"`
}

func (Camera) TableName() string {
	return "cameras"
}

// TakenWith records the camera a photo was taken with
type TakenWith struct {
	PhotoID uint   `gorm:"column:photo_id;primaryKey;autoIncrement:false" json:"photoID"`
	Make    string `gorm:"column:make;type:varchar(255);primaryKey;index:idx_taken_with_camera" json:"make"`
	Model   string `gorm:"column:model;type:varchar(255);primaryKey;index:idx_taken_with_camera" json:"model"`
}

func (TakenWith) TableName() string {
	return "taken_with"
}
