package viewer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSupportedTransition(t *testing.T) {
	for _, kind := range SupportedTransitions {
		assert.True(t, IsSupportedTransition(kind))
	}
	assert.True(t, IsSupportedTransition("  Crossfade "))
	assert.False(t, IsSupportedTransition("slide"))
	assert.False(t, IsSupportedTransition("wipe"))
	assert.False(t, IsSupportedTransition(""))
}

func TestNormalizeTransitions(t *testing.T) {
	t.Run("slide alias expands to both directions", func(t *testing.T) {
		got := NormalizeTransitions([]string{"slide"})
		assert.Equal(t, []string{KindSlideHorizontal, KindSlideVertical}, got)
	})

	t.Run("dedupes and drops unknowns", func(t *testing.T) {
		got := NormalizeTransitions([]string{"zoom", "Zoom", "wipe", "MOSAIC", "slide", "slide-vertical"})
		assert.Equal(t, []string{KindZoom, KindMosaic, KindSlideHorizontal, KindSlideVertical}, got)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, NormalizeTransitions(nil))
	})
}

func TestNewEffectUnknownKindFallsBack(t *testing.T) {
	v := New()
	eff := newEffect("nonsense", v)
	assert.Equal(t, KindCrossfade, eff.kind())
}
