package output

import "github.com/charmbracelet/lipgloss"

// Status icons.
const (
	IconSuccess = "✓"
	IconError   = "✗"
	IconWarning = "!"
	IconRunning = "•"
	IconSkipped = "-"
)

// Styles holds the lipgloss styles a Renderer uses.
type Styles struct {
	Header  lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Muted   lipgloss.Style
	Key     lipgloss.Style
}

// NewStyles builds styles bound to a lipgloss renderer so colour follows the
// renderer's output, not the process stdout.
func NewStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Header:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Success: r.NewStyle().Foreground(lipgloss.Color("10")),
		Error:   r.NewStyle().Foreground(lipgloss.Color("9")),
		Warning: r.NewStyle().Foreground(lipgloss.Color("11")),
		Muted:   r.NewStyle().Foreground(lipgloss.Color("8")),
		Key:     r.NewStyle().Bold(true),
	}
}

// ForStatus returns the icon and style for a status string.
func (s *Styles) ForStatus(status string) (string, lipgloss.Style) {
	switch status {
	case "success", "completed":
		return IconSuccess, s.Success
	case "failed", "error":
		return IconError, s.Error
	case "warning", "cancelled":
		return IconWarning, s.Warning
	case "running":
		return IconRunning, s.Header
	default:
		return IconSkipped, s.Muted
	}
}
