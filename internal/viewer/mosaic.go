package viewer

import (
	"image"
	"math"
	"math/rand/v2"
)

const (
	mosaicCols = 6
	mosaicRows = 5
)

// Tile is one rectangular fragment of the outgoing image during a mosaic
// transition. Rect addresses the fragment inside the old image; X, Y and
// Opacity are its current drawable state in scene coordinates.
type Tile struct {
	Rect    image.Rectangle
	OriginX float64
	OriginY float64
	OffsetX float64 // total scatter displacement at progress 1
	OffsetY float64

	X       float64
	Y       float64
	Opacity float64
}

// makeTiles splits a w×h image into a 6×5 grid and assigns each tile a
// random outward scatter vector: uniform angle, distance uniform in
// [0.2, 0.6] of the image width.
func makeTiles(w, h int) []Tile {
	if w <= 0 || h <= 0 {
		return nil
	}

	tiles := make([]Tile, 0, mosaicCols*mosaicRows)
	for col := 0; col < mosaicCols; col++ {
		for row := 0; row < mosaicRows; row++ {
			x0 := col * w / mosaicCols
			y0 := row * h / mosaicRows
			x1 := (col + 1) * w / mosaicCols
			y1 := (row + 1) * h / mosaicRows
			if x1 <= x0 {
				x1 = x0 + 1
			}
			if y1 <= y0 {
				y1 = y0 + 1
			}

			angle := rand.Float64() * 2 * math.Pi
			distance := (0.2 + rand.Float64()*0.4) * float64(w)

			tiles = append(tiles, Tile{
				Rect:    image.Rect(x0, y0, x1, y1),
				OriginX: float64(x0),
				OriginY: float64(y0),
				OffsetX: math.Cos(angle) * distance,
				OffsetY: math.Sin(angle) * distance,
				X:       float64(x0),
				Y:       float64(y0),
				Opacity: 1,
			})
		}
	}
	return tiles
}
