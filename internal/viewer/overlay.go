package viewer

import (
	"fmt"
	"strings"

	"github.com/photodrift/photodrift/internal/weather"
)

const (
	overlayMargin  = 20.0
	overlayLineGap = 4.0
	ellipsis       = "…"
)

// MeasureFunc reports the rendered width and height of a single line of text
// at a font size. The render front end supplies a real text measurer; tests
// use a fixed-advance stand-in.
type MeasureFunc func(s string, size float64) (w, h float64)

// defaultMeasure approximates proportional text. Good enough for headless
// use; replaced by the renderer at startup.
func defaultMeasure(s string, size float64) (float64, float64) {
	return float64(len([]rune(s))) * size * 0.55, size * 1.25
}

// Line is one positioned overlay line, in viewport coordinates.
type Line struct {
	Text string
	Size float64
	X    float64
	Y    float64
	W    float64
	H    float64
}

// Overlay is the full overlay layout for the current tick: metadata anchored
// to the bottom margin, weather anchored to the top margin.
type Overlay struct {
	Meta    []Line
	Weather []Line
}

// ElideMiddle shortens s with a middle ellipsis until it fits maxWidth,
// preserving prefix and suffix characters. Returns "" if nothing fits.
func ElideMiddle(s string, maxWidth float64, size float64, measure MeasureFunc) string {
	if w, _ := measure(s, size); w <= maxWidth {
		return s
	}

	runes := []rune(s)
	for keep := len(runes) - 1; keep >= 2; keep-- {
		head := (keep + 1) / 2
		tail := keep / 2
		candidate := string(runes[:head]) + ellipsis + string(runes[len(runes)-tail:])
		if w, _ := measure(candidate, size); w <= maxWidth {
			return candidate
		}
	}
	if w, _ := measure(ellipsis, size); w <= maxWidth {
		return ellipsis
	}
	return ""
}

// wrapText greedily word-wraps s to maxWidth. Words that alone exceed the
// width are emitted on their own line rather than split.
func wrapText(s string, maxWidth float64, size float64, measure MeasureFunc) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}

	lines := make([]string, 0, 2)
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if w, _ := measure(candidate, size); w <= maxWidth {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
	}
	return append(lines, current)
}

// Overlay computes the overlay layout for the current viewer state. Label
// width is constrained by the displayed image's on-screen width (its bounds
// mapped through the view transform) and by the viewport, both minus margins.
func (v *Viewer) Overlay() Overlay {
	maxWidth := v.overlayMaxWidth()
	if maxWidth <= 0 {
		return Overlay{}
	}

	var o Overlay
	o.Meta = v.metaLines(maxWidth)
	o.Weather = v.weatherLines(maxWidth)
	return o
}

// overlayMaxWidth derives the label width limit. Zero means the overlay is
// hidden entirely (blank screen or degenerate viewport).
func (v *Viewer) overlayMaxWidth() float64 {
	viewportLimit := float64(v.viewportW) - overlayMargin*2
	if viewportLimit <= 0 {
		return 0
	}
	if v.current.img == nil {
		return 0
	}

	minX, _, maxX, _ := v.view.MapRect(float64(v.current.w), float64(v.current.h))
	imageWidth := maxX - minX
	if imageWidth < viewportLimit {
		return imageWidth
	}
	return viewportLimit
}

func (v *Viewer) metaLines(maxWidth float64) []Line {
	type entry struct {
		text string
		size float64
	}

	fileText := v.fileLabel
	if v.paused && fileText != "" {
		fileText += " [PAUSED]"
	}

	entries := []entry{
		{v.folderLabel, v.folderFontSize},
		{fileText, v.fileFontSize},
		{v.dateLabel, v.dateFontSize},
	}

	lines := make([]Line, 0, len(entries))
	y := float64(v.viewportH) - overlayMargin
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if e.text == "" {
			continue
		}
		text := ElideMiddle(e.text, maxWidth, e.size, v.measure)
		if text == "" {
			continue
		}
		w, h := v.measure(text, e.size)
		y -= h
		lines = append(lines, Line{
			Text: text,
			Size: e.size,
			X:    v.centerClamped(w),
			Y:    y,
			W:    w,
			H:    h,
		})
		y -= overlayLineGap
	}

	// Restore top-to-bottom order.
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	return lines
}

func (v *Viewer) weatherLines(maxWidth float64) []Line {
	if v.weather == nil {
		return nil
	}

	text := formatWeather(v.weather, v.weatherUnits)
	if text == "" {
		return nil
	}

	lines := make([]Line, 0, 2)
	y := overlayMargin
	for _, wrapped := range wrapText(text, maxWidth, v.weatherFontSize, v.measure) {
		w, h := v.measure(wrapped, v.weatherFontSize)
		lines = append(lines, Line{
			Text: wrapped,
			Size: v.weatherFontSize,
			X:    v.centerClamped(w),
			Y:    y,
			W:    w,
			H:    h,
		})
		y += h + overlayLineGap
	}
	return lines
}

// centerClamped centers a line horizontally, never crossing the left margin.
func (v *Viewer) centerClamped(w float64) float64 {
	x := (float64(v.viewportW) - w) / 2
	if x < overlayMargin {
		return overlayMargin
	}
	return x
}

func unitSymbol(units string) string {
	switch units {
	case "imperial":
		return "°F"
	case "metric":
		return "°C"
	default:
		return "°"
	}
}

// formatWeather renders the weather summary as a single logical line; the
// layout wraps it as needed.
func formatWeather(s *weather.Summary, units string) string {
	parts := make([]string, 0, 4)
	if s.City != "" {
		parts = append(parts, s.City)
	}
	if s.Condition != "" {
		parts = append(parts, s.Condition)
	}
	if s.Temperature != nil {
		t := fmt.Sprintf("%.0f%s", *s.Temperature, unitSymbol(units))
		if s.FeelsLike != nil {
			t += fmt.Sprintf(" (feels %.0f%s)", *s.FeelsLike, unitSymbol(units))
		}
		parts = append(parts, t)
	}
	if s.Humidity != nil {
		parts = append(parts, fmt.Sprintf("humidity %.0f%%", *s.Humidity))
	}
	return strings.Join(parts, "  ")
}
