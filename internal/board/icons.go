package board

import (
	"math/rand/v2"

	"github.com/arnold/visionboard-api/internal/models"
)

var categoryIcons = map[models.Category][]string{
	models.CategoryHealth:         {"dumbbell", "activity", "bike", "apple", "stethoscope", "heart", "target"},
	models.CategoryCareer:         {"briefcase", "trending-up", "award", "building", "lightbulb", "rocket", "trophy"},
	models.CategoryRelationships:  {"heart", "users", "message-circle", "phone", "heart-handshake", "smile", "users-2"},
	models.CategoryFinance:        {"dollar-sign", "trending-up", "target", "award", "check"},
	models.CategoryPersonalGrowth: {"lightbulb", "sparkles", "book-open", "target", "rocket", "star", "zap"},
	models.CategoryTravel:         {"plane", "compass", "map-pin", "globe", "mountain", "camera"},
	models.CategoryEducation:      {"graduation-cap", "book", "book-open", "lightbulb", "trophy"},
	models.CategoryFamily:         {"home", "users", "baby", "users-2", "heart", "gift", "smile"},
	models.CategoryCreative:       {"palette", "camera", "music", "headphones", "sparkles", "star"},
	models.CategoryOther:          {"star", "target", "sparkles", "zap", "check", "gift"},
}

// IconsFor returns the icon names suggested for a category. Unknown
// categories get the "other" set.
func IconsFor(c models.Category) []string {
	icons, ok := categoryIcons[c]
	if !ok {
		icons = categoryIcons[models.CategoryOther]
	}
	return append([]string(nil), icons...)
}

// RandomIcon picks one of the category's icons.
func RandomIcon(c models.Category) string {
	icons := IconsFor(c)
	return icons[rand.IntN(len(icons))]
}
