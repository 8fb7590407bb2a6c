package pipeline

import (
	"testing"

	"github.com/adurasov/nutricode/internal/refdata"
)

func TestFilterReason(t *testing.T) {
	keywords := refdata.DefaultRules().FilterKeywords

	tests := []struct {
		title    string
		filtered bool
	}{
		{"Vitamin D3 5000 IU Softgels", false},
		{"Herbal Shampoo with Biotin", true},
		{"Hand Lotion with Vitamin E", true},
		{"The Supplement Handbook Book", false}, // exception term present
		{"Cookbook for Athletes", true},
		{"Dog Joint Chews", true},
		{"Human Grade Dog Supplement", false}, // exception term present
		{"Yoga Mat Non-Slip", true},
	}

	for _, tt := range tests {
		reason := filterReason(tt.title, keywords)
		if (reason != "") != tt.filtered {
			t.Errorf("filterReason(%q) = %q, filtered want %v", tt.title, reason, tt.filtered)
		}
	}
}

func TestFilterReason_NamesKeyword(t *testing.T) {
	keywords := refdata.DefaultRules().FilterKeywords
	reason := filterReason("Mint Shampoo", keywords)
	if reason != "SHAMPOO (body care)" {
		t.Errorf("unexpected reason: %q", reason)
	}
}
