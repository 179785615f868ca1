package domain

import "testing"

func TestConditionsForKnownRegion(t *testing.T) {
	catalog := NewConditionCatalog()
	conditions := catalog.ConditionsFor(RegionBone)
	if conditions.Region != RegionBone {
		t.Fatalf("expected bone region, got %s", conditions.Region)
	}
	if len(conditions.Conditions) != 10 {
		t.Fatalf("expected 10 bone conditions, got %d", len(conditions.Conditions))
	}
	if conditions.Conditions[0] != "Normal" || conditions.Conditions[1] != "Fracture" {
		t.Fatalf("unexpected bone condition order: %v", conditions.Conditions[:2])
	}
}

func TestConditionsForUnknownRegionFallsBackToChest(t *testing.T) {
	catalog := NewConditionCatalog()
	chest := catalog.ConditionsFor(RegionChest)
	unknown := catalog.ConditionsFor(RegionType("hand"))
	if unknown.Region != RegionType("hand") {
		t.Fatalf("requested region must be preserved, got %s", unknown.Region)
	}
	if len(unknown.Conditions) != len(chest.Conditions) {
		t.Fatalf("expected the chest vocabulary, got %v", unknown.Conditions)
	}
	for i, condition := range chest.Conditions {
		if unknown.Conditions[i] != condition {
			t.Fatalf("expected chest condition %q at %d, got %q", condition, i, unknown.Conditions[i])
		}
	}
}
