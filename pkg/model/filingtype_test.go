package model

import "testing"

func TestIsAmendment(t *testing.T) {
	if !Filing10KAmended.IsAmendment() {
		t.Error("10-K/A should be an amendment")
	}
	if Filing10K.IsAmendment() {
		t.Error("10-K should not be an amendment")
	}
}

func TestBaseType(t *testing.T) {
	if got := Filing10KAmended.BaseType(); got.Code != "10-K" {
		t.Errorf("BaseType(10-K/A) = %q, want 10-K", got.Code)
	}
	if got := Filing10K.BaseType(); got.Code != "10-K" {
		t.Errorf("BaseType(10-K) = %q, want 10-K (no-op)", got.Code)
	}
}

func TestMapEDGARForm(t *testing.T) {
	cases := map[string]FilingType{
		"10-K":   Filing10K,
		"10-k":   Filing10K,
		"10-K/A": Filing10KAmended,
		"8-K":    Filing8K,
	}
	for form, want := range cases {
		if got := MapEDGARForm(form); got.Code != want.Code {
			t.Errorf("MapEDGARForm(%q) = %q, want %q", form, got.Code, want.Code)
		}
	}
}

func TestMapEDGARFormUnknownPreservedVerbatim(t *testing.T) {
	got := MapEDGARForm("DEF 14A")
	if got.Code != "DEF 14A" {
		t.Errorf("MapEDGARForm(unknown) = %q, want verbatim passthrough", got.Code)
	}
}

func TestMapEDINETDocType(t *testing.T) {
	if got := MapEDINETDocType("120"); got.Code != FilingAnnualReport.Code {
		t.Errorf("MapEDINETDocType(120) = %q, want AnnualReport", got.Code)
	}
	if got := MapEDINETDocType("180"); got.Code != FilingExtraordinaryReport.Code {
		t.Errorf("MapEDINETDocType(180) = %q, want ExtraordinaryReport", got.Code)
	}
}

func TestMapEDINETDocTypeUnknownFallsBackToOther(t *testing.T) {
	got := MapEDINETDocType("999")
	if got.Code != "999" {
		t.Errorf("MapEDINETDocType(unknown) = %q, want passthrough via Other", got.Code)
	}
}
