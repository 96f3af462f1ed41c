package services

import (
	"testing"

	"questhero/models"
)

func TestCandidateLabelsIncludeFraudMarkers(t *testing.T) {
	labels := candidateLabels(models.CategoryEnvironment)
	if !containsString(labels, "trash bag") {
		t.Errorf("Expected category label in candidate set, got %v", labels)
	}
	if !containsString(labels, "screenshot") {
		t.Errorf("Expected fraud label in candidate set, got %v", labels)
	}
}

func TestUnknownCategoryFallsBackToCommunity(t *testing.T) {
	labels := labelsForCategory("underwater_basket_weaving")
	if !containsString(labels, "community service") {
		t.Errorf("Expected community labels for unknown category, got %v", labels)
	}
}
