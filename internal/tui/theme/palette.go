package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Palette holds precomputed colors derived from a Theme.
type Palette struct {
	Bg          lipgloss.Color
	BgHighlight lipgloss.Color
	BgSelection lipgloss.Color
	Fg          lipgloss.Color
	FgMuted     lipgloss.Color
	Accent      lipgloss.Color
	Available   lipgloss.Color
	Paint       lipgloss.Color
	Erase       lipgloss.Color
	Cursor      lipgloss.Color
	Warning     lipgloss.Color

	// Cell fills
	AvailableBg    lipgloss.Color
	AvailableBgAlt lipgloss.Color // every other hour
	EmptyBg        lipgloss.Color
	EmptyBgAlt     lipgloss.Color
	PaintBg        lipgloss.Color
	EraseBg        lipgloss.Color

	TextOnAccent    lipgloss.Color
	TextOnAvailable lipgloss.Color
	TextOnPaint     lipgloss.Color
	TextOnErase     lipgloss.Color
	TextOnCursor    lipgloss.Color
}

// NewPalette derives a Palette from the provided Theme.
func NewPalette(t *Theme) *Palette {
	if t == nil {
		t, _ = Load("mocha")
	}

	light := IsLight(t.Bg)
	availableBg := cellBg(t.Available, t.Bg, light)
	paintBg := cellBg(t.Paint, t.Bg, light)
	eraseBg := mutedBg(t.Erase, t.Bg, light)
	emptyAlt := blend(t.Bg, t.BgHighlight, 0.45)

	return &Palette{
		Bg:          lipgloss.Color(t.Bg),
		BgHighlight: lipgloss.Color(t.BgHighlight),
		BgSelection: lipgloss.Color(t.BgSelection),
		Fg:          lipgloss.Color(t.Fg),
		FgMuted:     lipgloss.Color(t.FgMuted),
		Accent:      lipgloss.Color(t.Accent),
		Available:   lipgloss.Color(t.Available),
		Paint:       lipgloss.Color(t.Paint),
		Erase:       lipgloss.Color(t.Erase),
		Cursor:      lipgloss.Color(t.Cursor),
		Warning:     lipgloss.Color(t.Warning),

		AvailableBg:    lipgloss.Color(availableBg),
		AvailableBgAlt: lipgloss.Color(alternateShade(availableBg, light)),
		EmptyBg:        lipgloss.Color(t.Bg),
		EmptyBgAlt:     lipgloss.Color(emptyAlt),
		PaintBg:        lipgloss.Color(paintBg),
		EraseBg:        lipgloss.Color(eraseBg),

		TextOnAccent:    lipgloss.Color(chooseTextColor(t.Accent, t.Bg, t.Fg)),
		TextOnAvailable: lipgloss.Color(chooseTextColor(availableBg, t.Bg, t.Fg)),
		TextOnPaint:     lipgloss.Color(chooseTextColor(paintBg, t.Bg, t.Fg)),
		TextOnErase:     lipgloss.Color(chooseTextColor(eraseBg, t.Bg, t.Fg)),
		TextOnCursor:    lipgloss.Color(chooseTextColor(t.Cursor, t.Bg, t.Fg)),
	}
}

// IsLight reports whether a background color calls for dark text.
func IsLight(bg string) bool {
	return relativeLuminance(bg) > 0.55
}

func cellBg(accent, bg string, light bool) string {
	if light {
		return blend(accent, bg, 0.55)
	}
	return darken(accent, 0.55, 40)
}

func mutedBg(accent, bg string, light bool) string {
	if light {
		return blend(accent, bg, 0.8)
	}
	return darken(accent, 0.35, 30)
}

// alternateShade shifts a color slightly so adjacent hours stay readable.
func alternateShade(hex string, light bool) string {
	if light {
		return blend(hex, "#000000", 0.08)
	}
	return blend(hex, "#ffffff", 0.12)
}

// darken scales each channel by factor, keeping every channel at or above
// floor (0-255) so the result stays visible on dark backgrounds.
func darken(hex string, factor float64, floor int) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	minimum := float64(floor) / 255
	scale := func(v float64) float64 {
		return max(v*factor, minimum)
	}
	return colorful.Color{R: scale(c.R), G: scale(c.G), B: scale(c.B)}.Clamped().Hex()
}

func blend(a, b string, ratio float64) string {
	ca, errA := colorful.Hex(a)
	cb, errB := colorful.Hex(b)
	if errA != nil || errB != nil {
		return a
	}
	ratio = min(max(ratio, 0), 1)
	return ca.BlendRgb(cb, ratio).Clamped().Hex()
}

func chooseTextColor(bg, lightText, darkText string) string {
	if contrastRatio(bg, lightText) >= contrastRatio(bg, darkText) {
		return lightText
	}
	return darkText
}

func contrastRatio(a, b string) float64 {
	l1 := relativeLuminance(a)
	l2 := relativeLuminance(b)
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

func relativeLuminance(hex string) float64 {
	c, err := colorful.Hex(hex)
	if err != nil {
		return 0
	}
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}
