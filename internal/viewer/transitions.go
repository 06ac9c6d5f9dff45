package viewer

import (
	"math/rand/v2"
	"strings"
	"time"
)

// Transition kind identifiers. These are the exact strings accepted in config
// files, IPC payloads, and Show hints.
const (
	KindCrossfade       = "crossfade"
	KindSlideHorizontal = "slide-horizontal"
	KindSlideVertical   = "slide-vertical"
	KindZoom            = "zoom"
	KindCarousel        = "carousel"
	KindMosaic          = "mosaic"
	KindPixelate        = "pixelate"
)

// SupportedTransitions lists every transition kind, in catalog order.
var SupportedTransitions = []string{
	KindCrossfade,
	KindSlideHorizontal,
	KindSlideVertical,
	KindZoom,
	KindCarousel,
	KindMosaic,
	KindPixelate,
}

var supportedTransitionSet = func() map[string]bool {
	set := make(map[string]bool, len(SupportedTransitions))
	for _, kind := range SupportedTransitions {
		set[kind] = true
	}
	return set
}()

// IsSupportedTransition reports whether name (after trimming and lowercasing)
// is a known transition kind.
func IsSupportedTransition(name string) bool {
	return supportedTransitionSet[strings.ToLower(strings.TrimSpace(name))]
}

// NormalizeTransitions lowercases, trims, deduplicates, and filters a list of
// transition names down to supported kinds. The legacy alias "slide" expands
// to both slide directions.
func NormalizeTransitions(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]bool)

	add := func(kind string) {
		if supportedTransitionSet[kind] && !seen[kind] {
			seen[kind] = true
			out = append(out, kind)
		}
	}

	for _, name := range names {
		trimmed := strings.ToLower(strings.TrimSpace(name))
		if trimmed == "slide" {
			add(KindSlideHorizontal)
			add(KindSlideVertical)
			continue
		}
		add(trimmed)
	}
	return out
}

// effect is one running transition. Each kind is its own type carrying its
// randomized parameters; init places both layers at progress 0 and apply
// moves them to an eased progress in [0, 1].
type effect interface {
	kind() string
	duration() time.Duration
	init(v *Viewer)
	apply(v *Viewer, p float64)
}

func newEffect(kind string, v *Viewer) effect {
	oldW, oldH := float64(v.current.w), float64(v.current.h)
	newW, newH := float64(v.incoming.w), float64(v.incoming.h)

	switch kind {
	case KindSlideHorizontal:
		return &slideEffect{
			vertical:  false,
			direction: randDirection(),
			distance:  maxFloat(oldW, newW),
		}
	case KindSlideVertical:
		return &slideEffect{
			vertical:  true,
			direction: randDirection(),
			distance:  maxFloat(oldH, newH),
		}
	case KindZoom:
		startScale := 0.7
		if rand.IntN(2) == 0 {
			startScale = 1.2
		}
		return &zoomEffect{startScale: startScale}
	case KindCarousel:
		return &carouselEffect{width: maxFloat(oldW, newW)}
	case KindMosaic:
		return &mosaicEffect{}
	case KindPixelate:
		return &pixelateEffect{}
	default:
		// Unsupported kinds are not an error; fall back silently.
		return &crossfadeEffect{}
	}
}

func randDirection() float64 {
	if rand.IntN(2) == 0 {
		return -1
	}
	return 1
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

type crossfadeEffect struct{}

func (*crossfadeEffect) kind() string            { return KindCrossfade }
func (*crossfadeEffect) duration() time.Duration { return 700 * time.Millisecond }

func (*crossfadeEffect) init(v *Viewer) {
	v.current.pose.Opacity = 1
	v.incoming.pose.Opacity = 0
}

func (*crossfadeEffect) apply(v *Viewer, p float64) {
	v.incoming.pose.Opacity = p
	v.current.pose.Opacity = 1 - p
}

type slideEffect struct {
	vertical  bool
	direction float64 // -1 or 1
	distance  float64
}

func (e *slideEffect) kind() string {
	if e.vertical {
		return KindSlideVertical
	}
	return KindSlideHorizontal
}

func (*slideEffect) duration() time.Duration { return 650 * time.Millisecond }

func (e *slideEffect) init(v *Viewer) {
	e.apply(v, 0)
}

func (e *slideEffect) apply(v *Viewer, p float64) {
	in := e.direction * (1 - p) * e.distance
	out := -e.direction * p * e.distance
	if e.vertical {
		v.incoming.pose.DY = in
		v.current.pose.DY = out
	} else {
		v.incoming.pose.DX = in
		v.current.pose.DX = out
	}
}

type zoomEffect struct {
	startScale float64
}

func (*zoomEffect) kind() string            { return KindZoom }
func (*zoomEffect) duration() time.Duration { return 750 * time.Millisecond }

func (e *zoomEffect) init(v *Viewer) {
	v.incoming.pose.Scale = e.startScale
	v.incoming.pose.Opacity = 0
}

func (e *zoomEffect) apply(v *Viewer, p float64) {
	v.incoming.pose.Scale = e.startScale + (1-e.startScale)*p
	v.incoming.pose.Opacity = p
	v.current.pose.Opacity = 1 - p
}

type carouselEffect struct {
	width float64
}

func (*carouselEffect) kind() string            { return KindCarousel }
func (*carouselEffect) duration() time.Duration { return 800 * time.Millisecond }

func (e *carouselEffect) init(v *Viewer) {
	v.incoming.pose.Scale = 0.8
	v.incoming.pose.Opacity = 0.2
	v.incoming.pose.DX = e.width * 0.55
	v.incoming.pose.Rotation = 12
}

func (e *carouselEffect) apply(v *Viewer, p float64) {
	v.current.pose.DX = -e.width * 0.35 * p
	v.current.pose.Opacity = 1 - 0.7*p
	v.current.pose.Scale = 1 - 0.2*p
	v.current.pose.Rotation = -18 * p

	v.incoming.pose.DX = e.width*0.55*(1-p) - e.width*0.1
	v.incoming.pose.Opacity = 0.2 + 0.8*p
	v.incoming.pose.Scale = 0.8 + 0.2*p
	v.incoming.pose.Rotation = 12 * (1 - p)
}

type mosaicEffect struct{}

func (*mosaicEffect) kind() string            { return KindMosaic }
func (*mosaicEffect) duration() time.Duration { return 900 * time.Millisecond }

func (*mosaicEffect) init(v *Viewer) {
	v.tiles = makeTiles(v.current.w, v.current.h)
	// The old layer is carried entirely by its tiles; the incoming image is
	// revealed beneath them as they scatter.
	v.current.pose.Opacity = 0
	v.incoming.pose.Opacity = 0
}

func (*mosaicEffect) apply(v *Viewer, p float64) {
	for i := range v.tiles {
		t := &v.tiles[i]
		t.X = t.OriginX + t.OffsetX*p
		t.Y = t.OriginY + t.OffsetY*p
		t.Opacity = 1 - p
	}
	v.incoming.pose.Opacity = p
}

type pixelateEffect struct{}

func (*pixelateEffect) kind() string            { return KindPixelate }
func (*pixelateEffect) duration() time.Duration { return 650 * time.Millisecond }

func (*pixelateEffect) init(v *Viewer) {
	v.incoming.pose.Opacity = 1
	v.incoming.pixelRatio = minPixelRatio
}

func (*pixelateEffect) apply(v *Viewer, p float64) {
	v.current.pose.Opacity = 1 - p
	v.incoming.pose.Opacity = 1
	v.incoming.pixelRatio = minPixelRatio + (1-minPixelRatio)*p
}
