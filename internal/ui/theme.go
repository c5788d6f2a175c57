package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// Theme is the default fyne theme with a red accent and tighter spacing
// around the form rows.
type Theme struct{}

// NewTheme creates the application theme
func NewTheme() fyne.Theme {
	return &Theme{}
}

var (
	accentRed   = color.RGBA{R: 204, G: 32, B: 32, A: 255}
	statusGreen = color.RGBA{R: 46, G: 204, B: 113, A: 255}
)

// Color returns theme colors
func (t *Theme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return accentRed
	case theme.ColorNameSuccess:
		return statusGreen
	}
	return theme.DefaultTheme().Color(name, variant)
}

// Font returns theme fonts
func (t *Theme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

// Icon returns theme icons
func (t *Theme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

// Size returns theme sizes
func (t *Theme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameLineSpacing:
		return 2
	case theme.SizeNameText:
		return 13
	}
	return theme.DefaultTheme().Size(name)
}
