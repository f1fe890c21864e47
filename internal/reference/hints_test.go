package reference

import (
	"strings"
	"testing"
)

func TestHintForChapters(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		wantOK   bool
		wantWord string
	}{
		{name: "knit vs woven", a: "61", b: "62", wantOK: true, wantWord: "knitted"},
		{name: "order insensitive", a: "62", b: "61", wantOK: true, wantWord: "knitted"},
		{name: "plastic vs aluminum", a: "39", b: "76", wantOK: true, wantWord: "plastic"},
		{name: "machinery vs instruments", a: "90", b: "84", wantOK: true, wantWord: "measuring"},
		{name: "luminaire vs electrical", a: "94", b: "85", wantOK: true, wantWord: "luminaire"},
		{name: "unmapped pair", a: "01", b: "02", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hint, ok := HintForChapters(tt.a, tt.b)
			if ok != tt.wantOK {
				t.Fatalf("HintForChapters(%s, %s) ok = %v, want %v", tt.a, tt.b, ok, tt.wantOK)
			}
			if ok && !strings.Contains(strings.ToLower(hint.Question), tt.wantWord) {
				t.Errorf("question %q does not mention %q", hint.Question, tt.wantWord)
			}
		})
	}
}

func TestChapterPairHintKeysSorted(t *testing.T) {
	// HintForChapters sorts its arguments, so an unsorted key is dead.
	for key := range chapterPairHints {
		a, b, ok := strings.Cut(key, "-")
		if !ok {
			t.Errorf("key %q is not a chapter pair", key)
			continue
		}
		if b < a {
			t.Errorf("key %q is not sorted, entry is unreachable", key)
		}
	}
}

func TestPurchaseTaxTables(t *testing.T) {
	if _, ok := PurchaseTaxByHeading("8703"); !ok {
		t.Error("expected an excise entry for heading 8703")
	}
	if _, ok := PurchaseTaxByChapter("24"); !ok {
		t.Error("expected a purchase-tax entry for chapter 24")
	}
	if _, ok := PurchaseTaxByHeading("8471"); ok {
		t.Error("heading 8471 should carry no excise entry")
	}
}
