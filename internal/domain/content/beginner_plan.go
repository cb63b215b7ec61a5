package content

import "gorm.io/datatypes"

// BeginnerPlan has no saved relation; SavesCount is always zero.
type BeginnerPlan struct {
	Base
	Duration string                      `gorm:"column:duration" json:"duration"`
	Level    string                      `gorm:"column:level" json:"level"`
	Lessons  datatypes.JSONSlice[string] `gorm:"column:lessons" json:"lessons"`
	SaveStats
}

func (BeginnerPlan) TableName() string { return "beginner_plans" }

func (p *BeginnerPlan) Category() Category { return CategoryBeginnerPlans }

func (p *BeginnerPlan) AssetURLs() []string { return []string{} }
