package form

import (
	"strings"
	"testing"

	"github.com/smileynet/vcardqr/internal/contact"
)

func TestPaneWidths(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		wantLeft  int
		wantRight int
	}{
		{"zero", 0, 0, 0},
		{"negative", -5, 0, 0},
		{"wide splits in half", 120, 60, 60},
		{"odd width gives the extra column to the preview", 121, 60, 61},
		{"narrow clamps form to minimum", 70, MinFormWidth, 70 - MinFormWidth},
		{"narrower than minimum", 30, MinFormWidth, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			left, right := PaneWidths(tt.total)
			if left != tt.wantLeft || right != tt.wantRight {
				t.Errorf("PaneWidths(%d) = (%d, %d), want (%d, %d)",
					tt.total, left, right, tt.wantLeft, tt.wantRight)
			}
		})
	}
}

func TestChoiceView(t *testing.T) {
	got := choiceView(contact.AddressWork, false)
	if !strings.Contains(got, "[work]") {
		t.Errorf("choiceView() = %q, want selected type in brackets", got)
	}
	if strings.Contains(got, "[home]") || strings.Contains(got, "‹") {
		t.Errorf("choiceView() = %q, want only work selected and no arrows", got)
	}

	focused := choiceView(contact.AddressOther, true)
	if !strings.HasPrefix(focused, "‹ ") || !strings.HasSuffix(focused, " ›") {
		t.Errorf("focused choiceView() = %q, want arrows", focused)
	}
}

func TestKeyMap_HelpCoversBindings(t *testing.T) {
	km := KeyMap()

	short := km.ShortHelp()
	if len(short) == 0 {
		t.Fatal("ShortHelp() is empty")
	}
	var full int
	for _, col := range km.FullHelp() {
		full += len(col)
	}
	if full < len(short) {
		t.Errorf("FullHelp() has %d bindings, want at least the %d short ones", full, len(short))
	}
	for _, b := range short {
		if b.Help().Key == "" || b.Help().Desc == "" {
			t.Errorf("binding %v has empty help", b.Keys())
		}
	}
}
