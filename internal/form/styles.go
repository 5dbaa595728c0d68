package form

import "github.com/charmbracelet/lipgloss"

// MinFormWidth is the minimum character width for the form pane.
const MinFormWidth = 44

// labelWidth is the fixed width of the field label column.
const labelWidth = 13

var (
	accent = lipgloss.AdaptiveColor{Light: "4", Dark: "12"}
	dim    = lipgloss.AdaptiveColor{Light: "240", Dark: "245"}
	warn   = lipgloss.AdaptiveColor{Light: "3", Dark: "11"}
	bad    = lipgloss.AdaptiveColor{Light: "1", Dark: "9"}
	good   = lipgloss.AdaptiveColor{Light: "2", Dark: "10"}
)

// FocusedBorder returns a lipgloss style with an accent-colored rounded border.
func FocusedBorder() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent)
}

// UnfocusedBorder returns a lipgloss style with a dim rounded border.
func UnfocusedBorder() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.AdaptiveColor{Light: "240", Dark: "240"})
}

// LabelStyle renders a field label, highlighted when the field has focus.
func LabelStyle(focused bool) lipgloss.Style {
	s := lipgloss.NewStyle().Width(labelWidth)
	if focused {
		return s.Foreground(accent).Bold(true)
	}
	return s.Foreground(dim)
}

// WarningStyle renders validation warnings.
func WarningStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(warn)
}

// StatusStyle renders the status line in green, or red for failures.
func StatusStyle(failed bool) lipgloss.Style {
	if failed {
		return lipgloss.NewStyle().Foreground(bad)
	}
	return lipgloss.NewStyle().Foreground(good)
}

// HintStyle renders placeholder text in the preview pane.
func HintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(dim).Italic(true)
}

// PaneWidths calculates the form and preview pane widths from a total width.
// The form gets half (minimum MinFormWidth), the preview gets the rest.
func PaneWidths(totalWidth int) (left, right int) {
	if totalWidth <= 0 {
		return 0, 0
	}
	left = totalWidth / 2
	if left < MinFormWidth {
		left = MinFormWidth
	}
	right = totalWidth - left
	if right < 0 {
		right = 0
	}
	return left, right
}
