// Package viewer implements the slideshow's presentation state machine: two
// image layers, seven animated transitions between them, an independent Ken
// Burns pan/zoom motion effect, and the metadata/weather overlay layout.
//
// The viewer is single-threaded and cooperative: the host loop calls Advance
// once per frame and the viewer computes progress from its clock. Show and
// ShowBlank cancel any in-flight animation synchronously; at most one
// transition runs at a time and motion never runs during a transition.
package viewer

import (
	"image"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/jonboulle/clockwork"
	"github.com/tanema/gween/ease"

	"github.com/photodrift/photodrift/internal/meta"
	"github.com/photodrift/photodrift/internal/weather"
)

const (
	minPixelRatio    = 0.05
	motionStartDelay = 50 * time.Millisecond

	// DefaultMotionDuration is used until a Show call overrides it.
	DefaultMotionDuration = 5 * time.Second

	defaultFontSize = 24.0
	minFontSize     = 8.0
)

// KeepDuration passed to Show leaves the motion duration unchanged.
const KeepDuration time.Duration = -1

// layer is one of the two drawable image slots.
type layer struct {
	img        image.Image
	w, h       int
	pose       Pose
	pixelRatio float64 // 1 = sharp; below 1 only while pixelate reveals
}

func newLayer(img image.Image) layer {
	b := img.Bounds()
	return layer{img: img, w: b.Dx(), h: b.Dy(), pose: identityPose(), pixelRatio: 1}
}

func emptyLayer() layer {
	return layer{pose: identityPose(), pixelRatio: 1}
}

// reset returns the layer to the inert default pose without touching its image.
func (l *layer) reset() {
	l.pose = identityPose()
	l.pixelRatio = 1
}

type transitionRun struct {
	eff     effect
	started time.Time
}

// Viewer owns the presentation state. All methods must be called from the
// host loop; nothing here is safe for concurrent use.
type Viewer struct {
	clock   clockwork.Clock
	measure MeasureFunc
	decode  func(path string) (image.Image, error)

	viewportW int
	viewportH int
	baseFit   Affine
	view      Affine

	current    layer
	incoming   layer
	tiles      []Tile
	transition *transitionRun

	motionEnabled  bool
	motionDuration time.Duration
	motionPhase    motionPhase
	motion         motionParams
	motionStartAt  time.Time // zero = start never scheduled
	motionBegan    time.Time
	motionProgress float64

	available []string

	folderLabel string
	fileLabel   string
	dateLabel   string
	paused      bool

	weather      *weather.Summary
	weatherIcon  image.Image
	weatherUnits string

	folderFontSize  float64
	fileFontSize    float64
	dateFontSize    float64
	weatherFontSize float64
}

// Option configures a Viewer at construction.
type Option func(*Viewer)

// WithClock substitutes the clock driving all timelines.
func WithClock(c clockwork.Clock) Option {
	return func(v *Viewer) { v.clock = c }
}

// WithMeasure substitutes the text measurer used for overlay layout.
func WithMeasure(m MeasureFunc) Option {
	return func(v *Viewer) { v.measure = m }
}

// WithDecoder substitutes the image decoder. Used by tests.
func WithDecoder(d func(path string) (image.Image, error)) Option {
	return func(v *Viewer) { v.decode = d }
}

// WithMotionEnabled sets the initial motion flag.
func WithMotionEnabled(enabled bool) Option {
	return func(v *Viewer) { v.motionEnabled = enabled }
}

// New creates a blank viewer with the full transition catalog enabled.
func New(opts ...Option) *Viewer {
	v := &Viewer{
		clock:           clockwork.NewRealClock(),
		measure:         defaultMeasure,
		decode:          decodeFile,
		baseFit:         identityAffine(),
		view:            identityAffine(),
		current:         emptyLayer(),
		incoming:        emptyLayer(),
		motionEnabled:   true,
		motionDuration:  DefaultMotionDuration,
		available:       append([]string(nil), SupportedTransitions...),
		weatherUnits:    "metric",
		folderFontSize:  defaultFontSize,
		fileFontSize:    defaultFontSize,
		dateFontSize:    18,
		weatherFontSize: 18,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func decodeFile(path string) (image.Image, error) {
	return imaging.Open(path, imaging.AutoOrientation(true))
}

// Show displays a new image. duration, when >= 0, becomes the motion duration
// for subsequent runs (0 disables motion for this image); pass KeepDuration
// to leave it unchanged. transitionHint names a transition kind to use; an
// empty or unsupported hint selects randomly from the enabled set.
//
// A decode failure only clears the overlay labels: the previous frame stays
// up and no error propagates.
func (v *Viewer) Show(path string, duration time.Duration, transitionHint string) {
	img, err := v.decode(path)
	if err != nil {
		log.Warnf("skipping undecodable image %s: %v", path, err)
		v.clearLabels()
		return
	}

	v.cancelMotion()

	if duration >= 0 {
		v.motionDuration = duration
	}

	info := meta.Resolve(path)
	v.folderLabel = info.Folder
	v.fileLabel = info.File
	v.dateLabel = info.Date

	hint := strings.ToLower(strings.TrimSpace(transitionHint))
	if !supportedTransitionSet[hint] {
		hint = ""
	}

	if v.current.img == nil {
		v.setImmediately(img)
		return
	}

	if v.transition != nil {
		// A superseding Show aborts the running transition outright; the new
		// image appears without one.
		v.resetTransition()
		v.setImmediately(img)
		return
	}

	kind := hint
	if kind == "" {
		if len(v.available) == 0 {
			v.setImmediately(img)
			return
		}
		kind = v.available[rand.IntN(len(v.available))]
	}

	v.incoming = newLayer(img)
	v.startTransition(kind)
}

// ShowBlank clears both layers and all overlay text, cancelling any pending
// or running animation.
func (v *Viewer) ShowBlank() {
	v.cancelMotion()
	v.resetTransition()
	v.current = emptyLayer()
	v.clearLabels()
	v.baseFit = identityAffine()
	v.view = v.baseFit
}

// Advance drives the transition and motion timelines from the clock. Call it
// once per frame.
func (v *Viewer) Advance() {
	now := v.clock.Now()

	if t := v.transition; t != nil {
		raw := clamp01(float64(now.Sub(t.started)) / float64(t.eff.duration()))
		eased := float64(ease.InOutCubic(float32(raw), 0, 1, 1))
		t.eff.apply(v, eased)
		if raw >= 1 {
			v.finishTransition()
		}
	}

	v.advanceMotion(now)
}

// SetViewport records a viewport size change: the base fit transform and the
// overlay geometry are recomputed, but in-progress animations keep running.
func (v *Viewer) SetViewport(w, h int) {
	if w == v.viewportW && h == v.viewportH {
		return
	}
	v.viewportW = w
	v.viewportH = h
	v.computeBaseFit()
	v.reapplyView()
}

// SetAvailableTransitions replaces the enabled transition set. nil restores
// the full catalog; unknown names are dropped and "slide" expands to both
// directions.
func (v *Viewer) SetAvailableTransitions(names []string) {
	if names == nil {
		v.available = append([]string(nil), SupportedTransitions...)
		return
	}
	v.available = NormalizeTransitions(names)
}

// SetMotionEnabled toggles the Ken Burns effect for subsequent images.
func (v *Viewer) SetMotionEnabled(enabled bool) {
	v.motionEnabled = enabled
}

// SetWeather installs a fresh weather summary for the overlay.
func (v *Viewer) SetWeather(s *weather.Summary) {
	v.weather = s
}

// SetWeatherError drops the current summary so the overlay omits weather.
// Any previously fetched icon stays cached.
func (v *Viewer) SetWeatherError() {
	v.weather = nil
}

// SetWeatherIcon caches the decoded weather icon for the renderer.
func (v *Viewer) SetWeatherIcon(img image.Image) {
	v.weatherIcon = img
}

// SetWeatherUnits selects the temperature unit symbol.
func (v *Viewer) SetWeatherUnits(units string) {
	v.weatherUnits = units
}

// SetPaused toggles the [PAUSED] marker on the overlay.
func (v *Viewer) SetPaused(paused bool) {
	v.paused = paused
}

func (v *Viewer) SetFolderFontSize(size float64)  { v.folderFontSize = sanitizeFontSize(size) }
func (v *Viewer) SetFileFontSize(size float64)    { v.fileFontSize = sanitizeFontSize(size) }
func (v *Viewer) SetDateFontSize(size float64)    { v.dateFontSize = sanitizeFontSize(size) }
func (v *Viewer) SetWeatherFontSize(size float64) { v.weatherFontSize = sanitizeFontSize(size) }

func sanitizeFontSize(size float64) float64 {
	if size <= 0 {
		return defaultFontSize
	}
	if size < minFontSize {
		return minFontSize
	}
	return size
}

// --- accessors (renderer and tests) ---

// Blank reports whether nothing is on screen.
func (v *Viewer) Blank() bool { return v.current.img == nil }

func (v *Viewer) CurrentImage() image.Image  { return v.current.img }
func (v *Viewer) IncomingImage() image.Image { return v.incoming.img }
func (v *Viewer) CurrentPose() Pose          { return v.current.pose }
func (v *Viewer) IncomingPose() Pose         { return v.incoming.pose }
func (v *Viewer) CurrentSize() (int, int)    { return v.current.w, v.current.h }
func (v *Viewer) IncomingSize() (int, int)   { return v.incoming.w, v.incoming.h }

// IncomingPixelRatio is the pixelation sample ratio of the incoming layer;
// 1 means sharp.
func (v *Viewer) IncomingPixelRatio() float64 { return v.incoming.pixelRatio }

// Tiles returns the live mosaic tiles; empty outside a mosaic transition.
func (v *Viewer) Tiles() []Tile { return v.tiles }

// TransitionActive reports whether a transition is running.
func (v *Viewer) TransitionActive() bool { return v.transition != nil }

// TransitionKind names the running transition, or "" when idle.
func (v *Viewer) TransitionKind() string {
	if v.transition == nil {
		return ""
	}
	return v.transition.eff.kind()
}

// View is the current scene-to-viewport transform (base fit composed with
// any motion).
func (v *Viewer) View() Affine { return v.view }

// MotionRunning reports whether a Ken Burns run is in progress.
func (v *Viewer) MotionRunning() bool { return v.motionPhase == motionRunning }

// MotionScheduled reports whether a motion run is prepared and waiting on its
// start delay.
func (v *Viewer) MotionScheduled() bool {
	return v.motionPhase == motionPrepared && !v.motionStartAt.IsZero()
}

// MotionDuration is the duration the next motion run will use.
func (v *Viewer) MotionDuration() time.Duration { return v.motionDuration }

// WeatherIcon returns the cached icon image, if any.
func (v *Viewer) WeatherIcon() image.Image { return v.weatherIcon }

// Labels returns the overlay source labels.
func (v *Viewer) Labels() (folder, file, date string) {
	return v.folderLabel, v.fileLabel, v.dateLabel
}

// --- internals ---

func (v *Viewer) setImmediately(img image.Image) {
	v.resetTransition()
	v.current = newLayer(img)
	v.computeBaseFit()
	v.view = v.baseFit
	v.armMotion()
}

// armMotion rerolls motion parameters for the now-steady image and schedules
// the run after a short layout-settle delay. A non-positive duration leaves
// the run unscheduled.
func (v *Viewer) armMotion() {
	if !v.motionEnabled {
		v.motionPhase = motionIdle
		return
	}
	v.motion = prepareMotion(float64(v.current.w), float64(v.current.h))
	v.motionPhase = motionPrepared
	v.motionProgress = 0
	v.motionStartAt = time.Time{}
	if v.motionDuration > 0 {
		v.motionStartAt = v.clock.Now().Add(motionStartDelay)
	}
	v.applyMotionProgress(0)
}

func (v *Viewer) cancelMotion() {
	v.motionPhase = motionIdle
	v.motionStartAt = time.Time{}
	v.motionProgress = 0
}

func (v *Viewer) advanceMotion(now time.Time) {
	switch v.motionPhase {
	case motionPrepared:
		if v.transition != nil || v.motionStartAt.IsZero() || now.Before(v.motionStartAt) {
			return
		}
		if v.motionDuration <= 0 {
			return
		}
		v.motionPhase = motionRunning
		v.motionBegan = now
		v.applyMotionProgress(0)
	case motionRunning:
		p := clamp01(float64(now.Sub(v.motionBegan)) / float64(v.motionDuration))
		v.applyMotionProgress(p)
		if p >= 1 {
			v.motionPhase = motionDone
		}
	}
}

// applyMotionProgress composes the motion transform on top of the base fit.
// Motion runs linearly; there is no easing here.
func (v *Viewer) applyMotionProgress(p float64) {
	v.motionProgress = p
	scale, dx, dy := v.motion.at(p)
	v.view = v.baseFit.Mul(scaleAffine(scale)).Mul(translateAffine(dx, dy))
}

// reapplyView rebuilds the view transform after the base fit changed.
func (v *Viewer) reapplyView() {
	switch v.motionPhase {
	case motionRunning, motionDone:
		v.applyMotionProgress(v.motionProgress)
	case motionPrepared:
		v.applyMotionProgress(0)
	default:
		v.view = v.baseFit
	}
}

func (v *Viewer) startTransition(kind string) {
	if !supportedTransitionSet[kind] {
		kind = KindCrossfade
	}
	v.current.reset()
	v.incoming.reset()

	eff := newEffect(kind, v)
	eff.init(v)
	v.transition = &transitionRun{eff: eff, started: v.clock.Now()}
	eff.apply(v, 0)
}

// finishTransition promotes the incoming layer, releases tiles, restores both
// layers to the identity pose, and arms the next motion run.
func (v *Viewer) finishTransition() {
	incoming := v.incoming
	v.tiles = nil
	v.transition = nil
	v.current.reset()
	v.incoming = emptyLayer()

	if incoming.img != nil {
		incoming.pose = identityPose()
		incoming.pixelRatio = 1
		v.current = incoming
		v.computeBaseFit()
		v.view = v.baseFit
		v.armMotion()
	}
}

// resetTransition aborts a transition: tiles are discarded and both layers
// return to the inert default, whatever the interruption cause.
func (v *Viewer) resetTransition() {
	v.tiles = nil
	v.transition = nil
	v.current.reset()
	v.incoming = emptyLayer()
}

func (v *Viewer) clearLabels() {
	v.folderLabel = ""
	v.fileLabel = ""
	v.dateLabel = ""
}

// computeBaseFit recomputes the fit-to-viewport transform for the current
// image: uniform scale, centered.
func (v *Viewer) computeBaseFit() {
	if v.current.img == nil || v.viewportW <= 0 || v.viewportH <= 0 {
		v.baseFit = identityAffine()
		return
	}

	sx := float64(v.viewportW) / float64(v.current.w)
	sy := float64(v.viewportH) / float64(v.current.h)
	s := sx
	if sy < s {
		s = sy
	}

	tx := (float64(v.viewportW) - float64(v.current.w)*s) / 2
	ty := (float64(v.viewportH) - float64(v.current.h)*s) / 2
	v.baseFit = translateAffine(tx, ty).Mul(scaleAffine(s))
}

func clamp01(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
