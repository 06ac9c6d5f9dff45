package render

import (
	"bytes"
	"image/color"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/photodrift/photodrift/internal/viewer"
)

var (
	fontOnce   sync.Once
	fontSource *text.GoTextFaceSource

	faceMu sync.Mutex
	faces  = map[float64]*text.GoTextFace{}
)

func source() *text.GoTextFaceSource {
	fontOnce.Do(func() {
		src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
		if err != nil {
			// goregular is embedded and known-good, so this only fires on
			// a corrupted build.
			log.Fatalf("cannot parse embedded font: %v", err)
		}
		fontSource = src
	})
	return fontSource
}

func face(size float64) *text.GoTextFace {
	faceMu.Lock()
	defer faceMu.Unlock()

	if f, ok := faces[size]; ok {
		return f
	}
	f := &text.GoTextFace{Source: source(), Size: size}
	faces[size] = f
	return f
}

// Measure reports the rendered size of a single line at the given font
// size. It is handed to the viewer so overlay layout matches what Draw
// puts on screen.
func Measure(s string, size float64) (float64, float64) {
	f := face(size)
	m := f.Metrics()
	w, h := text.Measure(s, f, m.HAscent+m.HDescent+m.HLineGap)
	return w, h
}

var _ viewer.MeasureFunc = Measure

func drawText(dst *ebiten.Image, s string, size, x, y float64) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(color.White)
	text.Draw(dst, s, face(size), op)
}
