package content

import "gorm.io/datatypes"

type SheetMusic struct {
	Base
	Tags       datatypes.JSONSlice[string] `gorm:"column:tags" json:"tags"`
	Difficulty string                      `gorm:"not null;column:difficulty" json:"difficulty"`
	PDFURL     string                      `gorm:"not null;column:pdf_url" json:"pdf_url"`
	SaveStats
}

func (SheetMusic) TableName() string { return "sheet_music" }

func (s *SheetMusic) Category() Category { return CategorySheetMusic }

func (s *SheetMusic) AssetURLs() []string { return nonEmpty(&s.PDFURL) }
