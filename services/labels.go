package services

import "questhero/models"

// categoryLabels maps each quest category to the object and scene labels a
// legitimate proof photo is expected to match. Immutable configuration.
var categoryLabels = map[models.QuestCategory][]string{
	models.CategoryEnvironment: {
		"trash bag", "garbage", "litter", "plastic waste", "cleaning",
		"recycling", "outdoor cleanup", "park", "nature", "tree planting",
		"sapling", "watering plants", "environmental work",
	},
	models.CategoryElderlyCare: {
		"elderly person", "senior citizen", "old person", "helping elderly",
		"wheelchair", "walking assistance", "care giving", "companionship",
		"grocery shopping", "medicine", "healthcare",
	},
	models.CategoryFoodRescue: {
		"food", "meal", "restaurant", "food donation", "food container",
		"cooking", "packaged food", "food delivery", "kitchen", "feeding",
	},
	models.CategoryEducation: {
		"books", "library", "reading", "teaching", "tutoring", "classroom",
		"school supplies", "notebook", "education", "learning", "studying",
	},
	models.CategoryCommunity: {
		"community service", "volunteer", "helping", "group activity",
		"charity", "donation", "social work", "neighborhood", "teamwork",
	},
}

// negativeLabels flag photos that are likely fraudulent re-captures rather
// than first-hand proof.
var negativeLabels = []string{
	"screenshot", "computer screen", "phone screen", "TV screen",
	"printed image", "photo of photo", "indoor selfie", "fake",
}

// labelsForCategory returns the positive labels for a category, defaulting
// to the community set for unknown categories.
func labelsForCategory(category models.QuestCategory) []string {
	if labels, ok := categoryLabels[category]; ok {
		return labels
	}
	return categoryLabels[models.CategoryCommunity]
}

// candidateLabels returns the full candidate set for a category: expected
// labels plus the fraud markers.
func candidateLabels(category models.QuestCategory) []string {
	positives := labelsForCategory(category)
	all := make([]string, 0, len(positives)+len(negativeLabels))
	all = append(all, positives...)
	all = append(all, negativeLabels...)
	return all
}

func isNegativeLabel(label string) bool {
	for _, l := range negativeLabels {
		if l == label {
			return true
		}
	}
	return false
}

func isCategoryLabel(category models.QuestCategory, label string) bool {
	for _, l := range labelsForCategory(category) {
		if l == label {
			return true
		}
	}
	return false
}
