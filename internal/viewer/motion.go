package viewer

import (
	"math"
	"math/rand/v2"
)

// motionPhase tracks the Ken Burns effect for the current image. Parameters
// are valid only in the prepared and running phases, and are rerolled from
// scratch for every new image.
type motionPhase int

const (
	motionIdle motionPhase = iota
	motionPrepared
	motionRunning
	motionDone
)

// motionParams are the randomized parameters of one motion run. Exactly one
// of startScale/endScale is 1.0; the other is uniform in [1.08, 1.2]. The pan
// vector has magnitude uniform in [0.02, 0.08] of the image dimensions at a
// uniform angle.
type motionParams struct {
	startScale float64
	endScale   float64
	totalDX    float64
	totalDY    float64
}

func prepareMotion(w, h float64) motionParams {
	m := motionParams{startScale: 1, endScale: 1}
	drift := 1.08 + rand.Float64()*0.12
	if rand.IntN(2) == 0 {
		m.endScale = drift // zoom in
	} else {
		m.startScale = drift // zoom out
	}

	panRatio := 0.02 + rand.Float64()*0.06
	panAngle := rand.Float64() * 2 * math.Pi
	m.totalDX = w * panRatio * math.Cos(panAngle)
	m.totalDY = h * panRatio * math.Sin(panAngle)
	return m
}

// at returns the scale and translation at linear progress p.
func (m motionParams) at(p float64) (scale, dx, dy float64) {
	scale = m.startScale + (m.endScale-m.startScale)*p
	return scale, m.totalDX * p, m.totalDY * p
}
