package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photodrift/photodrift/internal/viewer"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestLoadDefaults(t *testing.T) {
	resetViper(t)

	s := Load()

	assert.Equal(t, DefaultDuration, s.Duration)
	assert.Equal(t, DefaultFontSize, s.FolderFontSize)
	assert.Equal(t, DefaultSmallFontSize, s.DateFontSize)
	assert.Equal(t, 30*time.Minute, s.RefreshInterval)
	assert.Equal(t, 60, s.FramerateLimit)
	assert.Nil(t, s.Night)
	assert.False(t, s.Weather.Enabled)
}

func TestLoadSlideAliasExpands(t *testing.T) {
	resetViper(t)
	viper.Set("transitions", []string{"Slide", "crossfade", "slide"})

	s := Load()

	assert.Equal(t, []string{
		viewer.KindSlideHorizontal,
		viewer.KindSlideVertical,
		viewer.KindCrossfade,
	}, s.Transitions)
}

func TestLoadUnknownTransitionsDropped(t *testing.T) {
	resetViper(t)
	viper.Set("transitions", []string{"wipe", "ZOOM", " mosaic "})

	s := Load()

	assert.Equal(t, []string{viewer.KindZoom, viewer.KindMosaic}, s.Transitions)
}

func TestLoadBadNightWindowIgnored(t *testing.T) {
	resetViper(t)
	viper.Set("night_start", "25:99")
	viper.Set("night_end", "07:00")

	s := Load()
	assert.Nil(t, s.Night)
}

func TestLoadNightWindow(t *testing.T) {
	resetViper(t)
	viper.Set("night_start", "22:00")
	viper.Set("night_end", "07:00")

	s := Load()
	require.NotNil(t, s.Night)
	assert.Equal(t, 22*60, s.Night.Start)
	assert.Equal(t, 7*60, s.Night.End)
}

func TestLoadLegacyFontKey(t *testing.T) {
	resetViper(t)
	viper.Set("overlay_title_font_size", 32)

	s := Load()
	assert.Equal(t, 32.0, s.FolderFontSize)
	assert.Equal(t, 32.0, s.FileFontSize)

	// Split keys win over the legacy key.
	resetViper(t)
	viper.Set("overlay_title_font_size", 32)
	viper.Set("folder_font_size", 40)

	s = Load()
	assert.Equal(t, 40.0, s.FolderFontSize)
	assert.Equal(t, 32.0, s.FileFontSize)
}

func TestFontSizeFloor(t *testing.T) {
	resetViper(t)
	viper.Set("file_font_size", 3)

	s := Load()
	assert.Equal(t, 8.0, s.FileFontSize)
}

func TestDurationSecondsFractional(t *testing.T) {
	resetViper(t)
	viper.Set("duration", 2.5)

	s := Load()
	assert.Equal(t, 2500*time.Millisecond, s.Duration)
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		in      string
		minutes int
		ok      bool
	}{
		{"00:00", 0, true},
		{"07:30", 450, true},
		{"23:59", 1439, true},
		{"24:00", 0, false},
		{"12:60", 0, false},
		{"noon", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseClock(tc.in)
		if tc.ok {
			assert.NoError(t, err, tc.in)
			assert.Equal(t, tc.minutes, got, tc.in)
		} else {
			assert.Error(t, err, tc.in)
		}
	}
}

func TestWindowContainsWrapsMidnight(t *testing.T) {
	w := &Window{Start: 22 * 60, End: 7 * 60}

	at := func(hour, minute int) time.Time {
		return time.Date(2025, 6, 1, hour, minute, 0, 0, time.Local)
	}

	assert.True(t, w.Contains(at(23, 0)))
	assert.True(t, w.Contains(at(2, 30)))
	assert.True(t, w.Contains(at(22, 0)))
	assert.False(t, w.Contains(at(7, 0)))
	assert.False(t, w.Contains(at(12, 0)))
	assert.False(t, w.Contains(at(21, 59)))
}

func TestWindowContainsSameDay(t *testing.T) {
	w := &Window{Start: 9 * 60, End: 17 * 60}

	at := func(hour int) time.Time {
		return time.Date(2025, 6, 1, hour, 0, 0, 0, time.Local)
	}

	assert.True(t, w.Contains(at(12)))
	assert.False(t, w.Contains(at(8)))
	assert.False(t, w.Contains(at(17)))
}

func TestParseWindowHalfEmpty(t *testing.T) {
	_, err := ParseWindow("22:00", "")
	assert.Error(t, err)

	w, err := ParseWindow("", "")
	assert.NoError(t, err)
	assert.Nil(t, w)
}
