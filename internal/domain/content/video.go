package content

import "gorm.io/datatypes"

type Video struct {
	Base
	Tags         datatypes.JSONSlice[string] `gorm:"column:tags" json:"tags"`
	Difficulty   string                      `gorm:"not null;column:difficulty" json:"difficulty"`
	VideoURL     string                      `gorm:"not null;column:video_url" json:"video_url"`
	ThumbnailURL *string                     `gorm:"column:thumbnail_url" json:"thumbnail_url"`
	AspectRatio  string                      `gorm:"not null;default:'video';column:aspect_ratio" json:"aspect_ratio"`
	SaveStats
}

func (Video) TableName() string { return "videos" }

func (v *Video) Category() Category { return CategoryVideos }

func (v *Video) AssetURLs() []string { return nonEmpty(&v.VideoURL, v.ThumbnailURL) }
