package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// StamperTheme provides a custom theme for the application. The variant is
// pinned by the user's theme preference rather than the OS setting.
type StamperTheme struct {
	Variant fyne.ThemeVariant
}

var _ fyne.Theme = (*StamperTheme)(nil)

func (t *StamperTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return color.NRGBA{R: 0x1A, G: 0x5C, B: 0xB0, A: 0xFF} // Blue for document tooling
	case theme.ColorNameSelection:
		return color.NRGBA{R: 0x1A, G: 0x5C, B: 0xB0, A: 0x60}
	default:
		return theme.DefaultTheme().Color(name, t.Variant)
	}
}

func (t *StamperTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *StamperTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *StamperTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameScrollBar:
		return 16 // Wider scrollbar for easier grabbing
	default:
		return theme.DefaultTheme().Size(name)
	}
}
