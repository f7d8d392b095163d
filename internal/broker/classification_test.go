package broker

import "testing"

func TestGetCategoryKnownCodes(t *testing.T) {
	if GetCategory("BK") != CategoryForeignInstitutional {
		t.Error("expected BK to be foreign institutional")
	}
	if GetCategory("CC") != CategoryLocalInstitutional {
		t.Error("expected CC to be local institutional")
	}
	if GetCategory("EP") != CategoryRetail {
		t.Error("expected EP to be retail")
	}
	if GetCategory("ZZ") != CategoryUnknown {
		t.Error("expected unknown code to classify as Unknown")
	}
}

func TestIsForeignAndInstitutional(t *testing.T) {
	if !IsForeign("BK") {
		t.Error("expected BK to be foreign")
	}
	if !IsInstitutional("CC") {
		t.Error("expected CC to be institutional")
	}
	if IsInstitutional("EP") {
		t.Error("expected EP (retail) to not be institutional")
	}
}

func TestWeightsOrdering(t *testing.T) {
	if !CategoryForeignInstitutional.Weight().GreaterThan(CategoryLocalInstitutional.Weight()) {
		t.Error("expected foreign weight > local weight")
	}
	if !CategoryLocalInstitutional.Weight().GreaterThan(CategoryRetail.Weight()) {
		t.Error("expected local weight > retail weight")
	}
}
