package ui

import (
	"os"
	"testing"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

func TestDefaultTheme(t *testing.T) {
	r := lipgloss.NewRenderer(os.Stdout)
	th := DefaultTheme(r)
	if th.Renderer != r {
		t.Error("theme should keep its renderer")
	}
	if th.Primary != ColorPrimary {
		t.Errorf("primary = %v, want %v", th.Primary, ColorPrimary)
	}
	if !th.Selected.GetBold() {
		t.Error("selected buttons should render bold")
	}
	if th.PanelFocused.GetBorderTopForeground() != th.Primary {
		t.Error("focused panel border should use the primary color")
	}
}

func TestThemeFg(t *testing.T) {
	saved := TermProfile
	defer func() { TermProfile = saved }()

	tests := []struct {
		profile colorprofile.Profile
		ansi    bool
	}{
		{colorprofile.TrueColor, false},
		{colorprofile.ANSI256, false},
		{colorprofile.ANSI, true},
		{colorprofile.NoTTY, true},
	}
	for _, tt := range tests {
		TermProfile = tt.profile
		got := ThemeFg("#FF6B6B")
		c, isANSI := got.(lipgloss.ANSIColor)
		if isANSI != tt.ansi {
			t.Errorf("profile %v: ThemeFg returned %T", tt.profile, got)
		}
		if isANSI && c != 7 {
			t.Errorf("profile %v: ANSI fallback = %d, want 7", tt.profile, c)
		}
	}
}
