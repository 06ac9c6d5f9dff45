package viewer

import (
	"errors"
	"image"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage(w, h int) image.Image {
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

func testDecoder(images map[string]image.Image) func(string) (image.Image, error) {
	return func(path string) (image.Image, error) {
		if img, ok := images[path]; ok {
			return img, nil
		}
		return nil, errors.New("decode failed")
	}
}

func newTestViewer(t *testing.T) (*Viewer, *clockwork.FakeClock) {
	t.Helper()
	fc := clockwork.NewFakeClock()
	v := New(
		WithClock(fc),
		WithDecoder(testDecoder(map[string]image.Image{
			"album/one.jpg": testImage(120, 100),
			"album/two.jpg": testImage(200, 80),
		})),
	)
	v.SetViewport(800, 600)
	return v, fc
}

// runTransition advances the clock past the active transition in small
// steps, calling Advance each step the way the game loop does.
func runTransition(v *Viewer, fc *clockwork.FakeClock) {
	for i := 0; i < 200 && v.TransitionActive(); i++ {
		fc.Advance(10 * time.Millisecond)
		v.Advance()
	}
}

func TestShowFirstImageAppearsImmediately(t *testing.T) {
	v, _ := newTestViewer(t)

	v.Show("album/one.jpg", KeepDuration, "")

	assert.False(t, v.Blank())
	assert.False(t, v.TransitionActive())
	assert.NotNil(t, v.CurrentImage())
	assert.True(t, v.CurrentPose().IsIdentity())

	folder, file, _ := v.Labels()
	assert.Equal(t, "album", folder)
	assert.Equal(t, "one.jpg", file)
}

func TestShowSecondImageStartsTransition(t *testing.T) {
	v, fc := newTestViewer(t)

	v.Show("album/one.jpg", KeepDuration, "")
	v.Show("album/two.jpg", KeepDuration, "crossfade")

	require.True(t, v.TransitionActive())
	assert.Equal(t, KindCrossfade, v.TransitionKind())
	assert.NotNil(t, v.IncomingImage())

	runTransition(v, fc)

	assert.False(t, v.TransitionActive())
	assert.Nil(t, v.IncomingImage())
	assert.True(t, v.CurrentPose().IsIdentity())

	w, h := v.CurrentSize()
	assert.Equal(t, 200, w)
	assert.Equal(t, 80, h)
}

func TestEveryTransitionKindCompletesClean(t *testing.T) {
	for _, kind := range SupportedTransitions {
		t.Run(kind, func(t *testing.T) {
			v, fc := newTestViewer(t)

			v.Show("album/one.jpg", KeepDuration, "")
			v.Show("album/two.jpg", KeepDuration, kind)

			require.True(t, v.TransitionActive())
			assert.Equal(t, kind, v.TransitionKind())

			runTransition(v, fc)

			assert.False(t, v.TransitionActive())
			assert.Empty(t, v.Tiles())
			assert.True(t, v.CurrentPose().IsIdentity())
			assert.True(t, v.IncomingPose().IsIdentity())
			assert.InDelta(t, 1.0, v.IncomingPixelRatio(), 1e-9)
		})
	}
}

func TestShowDuringTransitionAbortsIt(t *testing.T) {
	v, fc := newTestViewer(t)

	v.Show("album/one.jpg", KeepDuration, "")
	v.Show("album/two.jpg", KeepDuration, "mosaic")
	require.True(t, v.TransitionActive())

	fc.Advance(100 * time.Millisecond)
	v.Advance()
	require.True(t, v.TransitionActive())
	require.NotEmpty(t, v.Tiles())

	// The superseding image replaces everything at once.
	v.Show("album/one.jpg", KeepDuration, "")

	assert.False(t, v.TransitionActive())
	assert.Empty(t, v.Tiles())
	assert.True(t, v.CurrentPose().IsIdentity())
	w, _ := v.CurrentSize()
	assert.Equal(t, 120, w)
}

func TestUnsupportedHintFallsBackToRandom(t *testing.T) {
	v, _ := newTestViewer(t)
	v.SetAvailableTransitions([]string{KindZoom})

	v.Show("album/one.jpg", KeepDuration, "")
	v.Show("album/two.jpg", KeepDuration, "wipe")

	require.True(t, v.TransitionActive())
	assert.Equal(t, KindZoom, v.TransitionKind())
}

func TestAvailableTransitionsRestrictRandomChoice(t *testing.T) {
	v, fc := newTestViewer(t)
	v.SetAvailableTransitions([]string{KindCarousel})

	v.Show("album/one.jpg", KeepDuration, "")
	for i := 0; i < 25; i++ {
		path := "album/two.jpg"
		if i%2 == 1 {
			path = "album/one.jpg"
		}
		v.Show(path, KeepDuration, "")
		require.True(t, v.TransitionActive())
		assert.Equal(t, KindCarousel, v.TransitionKind())
		runTransition(v, fc)
	}
}

func TestSetAvailableTransitionsNilRestoresAll(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 200 && len(seen) < len(SupportedTransitions); i++ {
		v, fc := newTestViewer(t)
		v.SetAvailableTransitions([]string{KindZoom})
		v.SetAvailableTransitions(nil)

		v.Show("album/one.jpg", KeepDuration, "")
		v.Show("album/two.jpg", KeepDuration, "")
		seen[v.TransitionKind()] = true
		runTransition(v, fc)
	}
	assert.Greater(t, len(seen), 1)
}

func TestDecodeFailureKeepsCurrentImage(t *testing.T) {
	v, _ := newTestViewer(t)

	v.Show("album/one.jpg", KeepDuration, "")
	v.Show("album/missing.jpg", KeepDuration, "")

	assert.False(t, v.TransitionActive())
	assert.NotNil(t, v.CurrentImage())

	folder, file, date := v.Labels()
	assert.Empty(t, folder)
	assert.Empty(t, file)
	assert.Empty(t, date)
}

func TestShowBlankClearsEverything(t *testing.T) {
	v, _ := newTestViewer(t)

	v.Show("album/one.jpg", KeepDuration, "")
	v.Show("album/two.jpg", KeepDuration, "slide-horizontal")
	v.ShowBlank()

	assert.True(t, v.Blank())
	assert.False(t, v.TransitionActive())
	assert.Empty(t, v.Tiles())
	assert.False(t, v.MotionRunning())

	folder, file, date := v.Labels()
	assert.Empty(t, folder)
	assert.Empty(t, file)
	assert.Empty(t, date)
}

func TestMotionStartsAfterDelayAndRunsLinearly(t *testing.T) {
	v, fc := newTestViewer(t)

	v.Show("album/one.jpg", 2*time.Second, "")
	require.True(t, v.MotionScheduled())
	assert.False(t, v.MotionRunning())

	// Still inside the settle delay.
	fc.Advance(20 * time.Millisecond)
	v.Advance()
	assert.False(t, v.MotionRunning())

	fc.Advance(40 * time.Millisecond)
	v.Advance()
	assert.True(t, v.MotionRunning())

	fc.Advance(3 * time.Second)
	v.Advance()
	assert.False(t, v.MotionRunning())
}

func TestZeroDurationDisablesMotion(t *testing.T) {
	v, fc := newTestViewer(t)

	v.Show("album/one.jpg", 0, "")
	assert.False(t, v.MotionScheduled())

	fc.Advance(time.Second)
	v.Advance()
	assert.False(t, v.MotionRunning())

	// A later positive duration re-enables it.
	v.Show("album/two.jpg", 3*time.Second, "crossfade")
	runTransition(v, fc)
	assert.True(t, v.MotionScheduled())

	fc.Advance(60 * time.Millisecond)
	v.Advance()
	assert.True(t, v.MotionRunning())
}

func TestKeepDurationLeavesMotionDurationAlone(t *testing.T) {
	v, _ := newTestViewer(t)

	v.Show("album/one.jpg", 7*time.Second, "")
	assert.Equal(t, 7*time.Second, v.MotionDuration())

	v.Show("album/two.jpg", KeepDuration, "crossfade")
	assert.Equal(t, 7*time.Second, v.MotionDuration())
}

func TestMotionDisabledGlobally(t *testing.T) {
	fc := clockwork.NewFakeClock()
	v := New(
		WithClock(fc),
		WithMotionEnabled(false),
		WithDecoder(testDecoder(map[string]image.Image{
			"album/one.jpg": testImage(120, 100),
		})),
	)
	v.SetViewport(800, 600)

	v.Show("album/one.jpg", 2*time.Second, "")
	assert.False(t, v.MotionScheduled())

	fc.Advance(time.Second)
	v.Advance()
	assert.False(t, v.MotionRunning())
}

func TestMotionWaitsForTransitionToFinish(t *testing.T) {
	v, fc := newTestViewer(t)

	v.Show("album/one.jpg", time.Second, "")
	v.Show("album/two.jpg", time.Second, "crossfade")
	require.True(t, v.TransitionActive())

	fc.Advance(100 * time.Millisecond)
	v.Advance()
	assert.False(t, v.MotionRunning())

	runTransition(v, fc)
	fc.Advance(60 * time.Millisecond)
	v.Advance()
	assert.True(t, v.MotionRunning())
}

func TestCrossfadeOpacityRamps(t *testing.T) {
	v, fc := newTestViewer(t)

	v.Show("album/one.jpg", KeepDuration, "")
	v.Show("album/two.jpg", KeepDuration, "crossfade")

	fc.Advance(350 * time.Millisecond)
	v.Advance()
	require.True(t, v.TransitionActive())

	in := v.IncomingPose().Opacity
	assert.Greater(t, in, 0.0)
	assert.Less(t, in, 1.0)
}

func TestMosaicTilesScatterAndFade(t *testing.T) {
	v, fc := newTestViewer(t)

	v.Show("album/one.jpg", KeepDuration, "")
	v.Show("album/two.jpg", KeepDuration, "mosaic")

	require.Len(t, v.Tiles(), 30)

	fc.Advance(450 * time.Millisecond)
	v.Advance()
	require.True(t, v.TransitionActive())

	moved := false
	for _, tile := range v.Tiles() {
		assert.Less(t, tile.Opacity, 1.0)
		if tile.X != tile.OriginX || tile.Y != tile.OriginY {
			moved = true
		}
	}
	assert.True(t, moved)
	assert.Greater(t, v.IncomingPose().Opacity, 0.0)
}

func TestPixelateRatioGrowsTowardOne(t *testing.T) {
	v, fc := newTestViewer(t)

	v.Show("album/one.jpg", KeepDuration, "")
	v.Show("album/two.jpg", KeepDuration, "pixelate")

	assert.InDelta(t, minPixelRatio, v.IncomingPixelRatio(), 1e-9)

	fc.Advance(325 * time.Millisecond)
	v.Advance()
	require.True(t, v.TransitionActive())

	mid := v.IncomingPixelRatio()
	assert.Greater(t, mid, minPixelRatio)
	assert.Less(t, mid, 1.0)

	runTransition(v, fc)
	assert.InDelta(t, 1.0, v.IncomingPixelRatio(), 1e-9)
}

func TestSlideDirectionsMoveOppositeWays(t *testing.T) {
	v, fc := newTestViewer(t)

	v.Show("album/one.jpg", KeepDuration, "")
	v.Show("album/two.jpg", KeepDuration, "slide-horizontal")
	fc.Advance(1 * time.Millisecond)
	v.Advance()

	// Outgoing slides one way, incoming enters from the other side.
	outDX := v.CurrentPose().DX
	inDX := v.IncomingPose().DX
	assert.NotEqual(t, 0.0, inDX)
	assert.True(t, outDX*inDX <= 0, "poses %v and %v should move opposite ways", outDX, inDX)
}

func TestViewportResizeKeepsAnimationRunning(t *testing.T) {
	v, fc := newTestViewer(t)

	v.Show("album/one.jpg", KeepDuration, "")
	v.Show("album/two.jpg", KeepDuration, "zoom")
	require.True(t, v.TransitionActive())

	v.SetViewport(1920, 1080)
	assert.True(t, v.TransitionActive())

	runTransition(v, fc)
	assert.False(t, v.TransitionActive())
}

func TestBaseFitCentersAndScales(t *testing.T) {
	v := New(
		WithClock(clockwork.NewFakeClock()),
		WithMotionEnabled(false),
		WithDecoder(testDecoder(map[string]image.Image{
			"album/one.jpg": testImage(120, 100),
		})),
	)
	v.SetViewport(800, 600)
	v.Show("album/one.jpg", KeepDuration, "")

	// 120x100 into 800x600: scale 6 (600/100), centered horizontally.
	minX, minY, maxX, maxY := v.View().MapRect(120, 100)
	assert.InDelta(t, 40, minX, 1e-9)
	assert.InDelta(t, 0, minY, 1e-9)
	assert.InDelta(t, 760, maxX, 1e-9)
	assert.InDelta(t, 600, maxY, 1e-9)
}
