// Package config turns the flat JSON settings file (read through viper) into
// typed settings. Malformed values never fail hard: everything falls back to
// a documented default.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/photodrift/photodrift/internal/viewer"
)

// Defaults for anything the settings file leaves out or mangles.
const (
	DefaultDuration       = 10 * time.Second
	DefaultRefreshMinutes = 30
	DefaultFontSize       = 24.0
	DefaultSmallFontSize  = 18.0
)

// Settings is the resolved configuration for one slideshow session.
type Settings struct {
	Folders       []string
	Shuffle       bool
	Duration      time.Duration // per-image display time, also the motion duration
	MotionEnabled bool
	Transitions   []string // normalized transition kinds

	FolderFontSize  float64
	FileFontSize    float64
	DateFontSize    float64
	WeatherFontSize float64

	Night *Window // nil when night mode is off

	Weather WeatherSettings

	RefreshInterval time.Duration
	FramerateLimit  int
}

// WeatherSettings configures the optional weather overlay.
type WeatherSettings struct {
	Enabled  bool
	APIKey   string
	Location string // city name or "lat,lon"
	Units    string
}

// Load resolves settings from viper. It never returns an error; bad values
// are logged and defaulted.
func Load() Settings {
	s := Settings{
		Folders:         viper.GetStringSlice("folders"),
		Shuffle:         viper.GetBool("shuffle"),
		Duration:        durationSeconds(viper.GetFloat64("duration"), DefaultDuration),
		MotionEnabled:   viper.GetBool("motion"),
		Transitions:     viewer.NormalizeTransitions(viper.GetStringSlice("transitions")),
		FolderFontSize:  fontSize(viper.GetFloat64("folder_font_size"), DefaultFontSize),
		FileFontSize:    fontSize(viper.GetFloat64("file_font_size"), DefaultFontSize),
		DateFontSize:    fontSize(viper.GetFloat64("date_font_size"), DefaultSmallFontSize),
		WeatherFontSize: fontSize(viper.GetFloat64("weather_font_size"), DefaultSmallFontSize),
		RefreshInterval: time.Duration(refreshMinutes()) * time.Minute,
		FramerateLimit:  viper.GetInt("framerate_limit"),
		Weather: WeatherSettings{
			Enabled:  viper.GetBool("weather"),
			APIKey:   strings.TrimSpace(viper.GetString("weather_api_key")),
			Location: strings.TrimSpace(viper.GetString("weather_location")),
			Units:    strings.TrimSpace(viper.GetString("weather_units")),
		},
	}

	for i, folder := range s.Folders {
		s.Folders[i] = expandHome(folder)
	}

	// Legacy single font size key applies to both folder and file labels when
	// the split keys are absent.
	if legacy := viper.GetFloat64("overlay_title_font_size"); legacy > 0 {
		if !viper.IsSet("folder_font_size") {
			s.FolderFontSize = fontSize(legacy, DefaultFontSize)
		}
		if !viper.IsSet("file_font_size") {
			s.FileFontSize = fontSize(legacy, DefaultFontSize)
		}
	}

	window, err := ParseWindow(viper.GetString("night_start"), viper.GetString("night_end"))
	if err != nil {
		log.Warnf("ignoring night mode: %v", err)
	} else {
		s.Night = window
	}

	if s.FramerateLimit <= 0 {
		s.FramerateLimit = 60
	}
	return s
}

func expandHome(path string) string {
	if path == "~" {
		return os.Getenv("HOME")
	}
	if strings.HasPrefix(path, "~/") {
		return strings.Replace(path, "~", os.Getenv("HOME"), 1)
	}
	return path
}

func durationSeconds(seconds float64, fallback time.Duration) time.Duration {
	if seconds <= 0 {
		return fallback
	}
	return time.Duration(seconds * float64(time.Second))
}

func fontSize(size, fallback float64) float64 {
	if size <= 0 {
		return fallback
	}
	if size < 8 {
		return 8
	}
	return size
}

func refreshMinutes() int {
	minutes := viper.GetInt("refresh_minutes")
	if minutes <= 0 {
		return DefaultRefreshMinutes
	}
	return minutes
}

// Window is a blackout window in local time-of-day, in minutes since
// midnight. Start > End means the window wraps past midnight.
type Window struct {
	Start int
	End   int
}

// ParseWindow builds a Window from "HH:MM" strings. Both empty means night
// mode is off (nil window, no error); one empty or malformed is an error.
func ParseWindow(start, end string) (*Window, error) {
	start = strings.TrimSpace(start)
	end = strings.TrimSpace(end)
	if start == "" && end == "" {
		return nil, nil
	}

	startMin, err := ParseClock(start)
	if err != nil {
		return nil, fmt.Errorf("night_start: %w", err)
	}
	endMin, err := ParseClock(end)
	if err != nil {
		return nil, fmt.Errorf("night_end: %w", err)
	}
	if startMin == endMin {
		return nil, fmt.Errorf("night window start and end are both %s", start)
	}
	return &Window{Start: startMin, End: endMin}, nil
}

// ParseClock parses "HH:MM" into minutes since midnight.
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hour*60 + minute, nil
}

// Contains reports whether t's local time-of-day falls inside the window,
// handling wraparound past midnight.
func (w *Window) Contains(t time.Time) bool {
	minute := t.Hour()*60 + t.Minute()
	if w.Start < w.End {
		return minute >= w.Start && minute < w.End
	}
	return minute >= w.Start || minute < w.End
}
