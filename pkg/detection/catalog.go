package detection

import (
	"smart-fridge-backend/domain"
	"strings"
)

// relevantLabels are the detector classes that count as fridge inventory.
var relevantLabels = map[string]struct{}{
	"apple":      {},
	"banana":     {},
	"orange":     {},
	"broccoli":   {},
	"carrot":     {},
	"hot dog":    {},
	"pizza":      {},
	"donut":      {},
	"cake":       {},
	"bottle":     {},
	"cup":        {},
	"bowl":       {},
	"sandwich":   {},
	"wine glass": {},
	"fork":       {},
	"knife":      {},
	"spoon":      {},
}

// containerSubstrings also admit compound labels such as "paper cup" or "cupboard".
var containerSubstrings = []string{"bottle", "cup", "bowl", "glass", "container"}

var labelCategories = map[string]domain.Category{
	"apple":      domain.CategoryFruits,
	"banana":     domain.CategoryFruits,
	"orange":     domain.CategoryFruits,
	"broccoli":   domain.CategoryVegetables,
	"carrot":     domain.CategoryVegetables,
	"hot dog":    domain.CategoryPreparedFoods,
	"pizza":      domain.CategoryPreparedFoods,
	"donut":      domain.CategoryPreparedFoods,
	"cake":       domain.CategoryPreparedFoods,
	"sandwich":   domain.CategoryPreparedFoods,
	"bottle":     domain.CategoryContainers,
	"cup":        domain.CategoryContainers,
	"bowl":       domain.CategoryContainers,
	"wine glass": domain.CategoryContainers,
	"fork":       domain.CategoryUtensils,
	"knife":      domain.CategoryUtensils,
	"spoon":      domain.CategoryUtensils,
}

// IsRelevant expects a lower-cased label.
func IsRelevant(label string) bool {
	if _, ok := relevantLabels[label]; ok {
		return true
	}
	for _, sub := range containerSubstrings {
		if strings.Contains(label, sub) {
			return true
		}
	}
	return false
}

// CategoryFor expects a lower-cased label.
func CategoryFor(label string) domain.Category {
	if category, ok := labelCategories[label]; ok {
		return category
	}
	return domain.CategoryOther
}
