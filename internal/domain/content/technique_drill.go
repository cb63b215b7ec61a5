package content

import "gorm.io/datatypes"

type TechniqueDrill struct {
	Base
	Tags         datatypes.JSONSlice[string] `gorm:"column:tags" json:"tags"`
	Difficulty   string                      `gorm:"not null;column:difficulty" json:"difficulty"`
	PDFURL       string                      `gorm:"not null;column:pdf_url" json:"pdf_url"`
	ThumbnailURL *string                     `gorm:"column:thumbnail_url" json:"thumbnail_url"`
	SaveStats
}

func (TechniqueDrill) TableName() string { return "technique_drills" }

func (d *TechniqueDrill) Category() Category { return CategoryTechniqueDrills }

func (d *TechniqueDrill) AssetURLs() []string { return nonEmpty(&d.PDFURL, d.ThumbnailURL) }
