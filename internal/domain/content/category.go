package content

import "strings"

// Category identifies one of the four content tables.
type Category string

const (
	CategoryVideos          Category = "videos"
	CategorySheetMusic      Category = "sheet_music"
	CategoryTechniqueDrills Category = "technique_drills"
	CategoryBeginnerPlans   Category = "beginner_plans"
)

var Categories = []Category{
	CategoryVideos,
	CategorySheetMusic,
	CategoryTechniqueDrills,
	CategoryBeginnerPlans,
}

// ParseCategory accepts the table name, the URL segment ("sheet-music") or the
// singular item type ("sheet_music", "technique_drill").
func ParseCategory(raw string) (Category, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "-", "_")
	switch s {
	case "videos", "video":
		return CategoryVideos, true
	case "sheet_music":
		return CategorySheetMusic, true
	case "technique_drills", "technique_drill", "drills", "drill":
		return CategoryTechniqueDrills, true
	case "beginner_plans", "beginner_plan", "plans", "plan":
		return CategoryBeginnerPlans, true
	}
	return "", false
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) Table() string { return string(c) }

// PathSegment is the URL form used under /api.
func (c Category) PathSegment() string { return strings.ReplaceAll(string(c), "_", "-") }

// ItemType is the discriminator stored on comments.
func (c Category) ItemType() string {
	switch c {
	case CategoryVideos:
		return "video"
	case CategorySheetMusic:
		return "sheet_music"
	case CategoryTechniqueDrills:
		return "technique_drill"
	case CategoryBeginnerPlans:
		return "beginner_plan"
	}
	return ""
}

// Label is the human readable singular used in error messages.
func (c Category) Label() string {
	return strings.ReplaceAll(c.ItemType(), "_", " ")
}

// Saveable reports whether users can bookmark items of this category.
func (c Category) Saveable() bool {
	return c == CategoryVideos || c == CategorySheetMusic || c == CategoryTechniqueDrills
}

// SavedTable and SavedColumn describe the saved-relation table, empty for plans.
func (c Category) SavedTable() string {
	if !c.Saveable() {
		return ""
	}
	return "saved_" + string(c)
}

func (c Category) SavedColumn() string {
	switch c {
	case CategoryVideos:
		return "video_id"
	case CategorySheetMusic:
		return "sheet_music_id"
	case CategoryTechniqueDrills:
		return "technique_drill_id"
	}
	return ""
}

// AssetColumns names the columns holding stored asset URLs.
func (c Category) AssetColumns() []string {
	switch c {
	case CategoryVideos:
		return []string{"video_url", "thumbnail_url"}
	case CategorySheetMusic:
		return []string{"pdf_url"}
	case CategoryTechniqueDrills:
		return []string{"pdf_url", "thumbnail_url"}
	}
	return nil
}
