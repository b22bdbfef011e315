package dashboard

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/mdash/internal/ui"
)

// Dashboard colors, taken from the shared neon palette.
const (
	ColorDarkBg        = ui.ColorDeepVoid
	ColorSurfaceBg     = ui.ColorDarkSurface
	ColorBorder        = ui.ColorGlassBorder
	ColorTextPrimary   = ui.ColorPrimary
	ColorTextSecondary = ui.ColorSecondary
	ColorTextMuted     = ui.ColorMuted
	ColorAccent        = ui.ColorNeonPink
	ColorAccentDim     = ui.ColorNeonPurple
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorSurfaceBg).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	ColumnHeaderStyle = lipgloss.NewStyle().
				Foreground(ColorTextPrimary).
				Bold(true)

	ActiveColumnStyle = ColumnHeaderStyle.
				Foreground(ColorAccent)

	RowStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary)

	SelectedRowStyle = lipgloss.NewStyle().
				Foreground(ColorAccent).
				Bold(true)

	FlashStyle = lipgloss.NewStyle().
			Foreground(ui.ColorSuccess)

	FlashErrorStyle = lipgloss.NewStyle().
			Foreground(ui.ColorError)

	ConfirmStyle = lipgloss.NewStyle().
			Foreground(ui.ColorWarning).
			Bold(true)

	OverlayBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Padding(1, 2)
)

// selectionMarker prefixes the selected row.
const selectionMarker = "▸ "
