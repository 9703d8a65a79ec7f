package styles

import "github.com/charmbracelet/lipgloss"

// Color palette, dark mode optimized
var (
	Accent  = lipgloss.Color("#7C3AED") // violet
	Success = lipgloss.Color("#10B981") // emerald
	Warning = lipgloss.Color("#F59E0B") // amber
	Error   = lipgloss.Color("#EF4444") // red
	Info    = lipgloss.Color("#3B82F6") // blue
	Muted   = lipgloss.Color("#6B7280") // gray

	TextPrimary   = lipgloss.Color("#F9FAFB")
	TextSecondary = lipgloss.Color("#9CA3AF")

	BgHighlight = lipgloss.Color("#1F2937")
)

// Highlight colors for conditional cell styling
var (
	ColorStrongPositive = lipgloss.Color("#15803D") // green-700
	ColorMildPositive   = lipgloss.Color("#86EFAC") // green-300
	ColorStrongAlert    = lipgloss.Color("#B91C1C") // red-700
	ColorMildAlert      = lipgloss.Color("#FCA5A5") // red-300
)
