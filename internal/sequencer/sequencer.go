// Package sequencer owns the playlist and the slideshow schedule: the
// interval timer, pause/resume, periodic folder rescans, the night blackout
// window, and the weather refresh cycle. It drives the viewer purely through
// the Display interface and is ticked from the render loop, so all playlist
// state is mutated in one place.
package sequencer

import (
	"image"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"

	"github.com/photodrift/photodrift/internal/config"
	"github.com/photodrift/photodrift/internal/scan"
	"github.com/photodrift/photodrift/internal/weather"
)

const weatherRefreshInterval = 15 * time.Minute

// Display is the slice of the viewer the sequencer drives.
type Display interface {
	Show(path string, duration time.Duration, transitionHint string)
	ShowBlank()
	SetPaused(paused bool)
	SetWeather(s *weather.Summary)
	SetWeatherError()
	SetWeatherIcon(img image.Image)
}

// CommandType enumerates the control commands accepted over IPC and from the
// keyboard.
type CommandType string

const (
	CommandStop        CommandType = "stop"
	CommandNext        CommandType = "next"
	CommandPrev        CommandType = "prev"
	CommandPause       CommandType = "pause"
	CommandResume      CommandType = "resume"
	CommandTogglePause CommandType = "toggle-pause"
)

// Command is one queued control command.
type Command struct {
	Type CommandType `json:"type"`
}

// Status is a snapshot of the sequencer for the status endpoint.
type Status struct {
	CurrentImage string `json:"current_image"`
	Paused       bool   `json:"paused"`
	Blackout     bool   `json:"blackout"`
	ImageCount   int    `json:"image_count"`
}

// Sequencer schedules the slideshow. Tick must be called from a single loop;
// the exported query/command methods are safe from other goroutines.
type Sequencer struct {
	mu sync.Mutex

	clock   clockwork.Clock
	cfg     config.Settings
	display Display
	weather *weather.Client

	images  []string
	index   int
	current string

	paused     bool
	blackedOut bool
	stopped    bool

	nextChange  time.Time
	nextRescan  time.Time
	nextWeather time.Time

	cmds chan Command
}

// New scans the configured folders and builds a sequencer. weatherClient may
// be nil when the weather overlay is disabled.
func New(cfg config.Settings, display Display, clock clockwork.Clock, weatherClient *weather.Client) *Sequencer {
	images := scan.Images(cfg.Folders)
	log.Infof("found %d images in %d folders", len(images), len(cfg.Folders))

	s := &Sequencer{
		clock:   clock,
		cfg:     cfg,
		display: display,
		weather: weatherClient,
		images:  images,
		cmds:    make(chan Command, 8),
	}
	if cfg.Shuffle {
		s.shuffle()
	}
	return s
}

func (s *Sequencer) shuffle() {
	rand.Shuffle(len(s.images), func(i, j int) {
		s.images[i], s.images[j] = s.images[j], s.images[i]
	})
}

// Start shows the first image (or blanks, inside the night window) and arms
// the schedules. Call once before ticking.
func (s *Sequencer) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	s.nextRescan = now.Add(s.cfg.RefreshInterval)

	if s.weather != nil {
		s.weather.Fetch()
		s.nextWeather = now.Add(weatherRefreshInterval)
	}

	if s.inNightWindow(now) {
		s.blackedOut = true
		s.display.ShowBlank()
		return
	}
	s.advance(now)
}

// Tick processes queued commands and runs whatever is due. Call once per
// frame.
func (s *Sequencer) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}

	s.drainCommands()
	now := s.clock.Now()

	if s.inNightWindow(now) {
		if !s.blackedOut {
			log.Info("entering night blackout")
			s.blackedOut = true
			s.display.ShowBlank()
		}
		return
	}
	if s.blackedOut {
		log.Info("leaving night blackout")
		s.blackedOut = false
		s.advance(now)
	}

	s.pollWeather(now)

	if !now.Before(s.nextRescan) {
		s.rescan(now)
	}

	if !s.paused && len(s.images) > 0 && !now.Before(s.nextChange) {
		s.advance(now)
	}
}

// EnqueueCommand queues a control command for the next tick. Full queues drop
// the command rather than block the caller.
func (s *Sequencer) EnqueueCommand(cmd Command) {
	select {
	case s.cmds <- cmd:
	default:
		log.Warnf("command queue full, dropping %s", cmd.Type)
	}
}

// Status reports the current playback state.
func (s *Sequencer) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		CurrentImage: s.current,
		Paused:       s.paused,
		Blackout:     s.blackedOut,
		ImageCount:   len(s.images),
	}
}

// Stopped reports whether a stop command has been processed.
func (s *Sequencer) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

func (s *Sequencer) drainCommands() {
	for {
		select {
		case cmd := <-s.cmds:
			s.handleCommand(cmd)
		default:
			return
		}
	}
}

func (s *Sequencer) handleCommand(cmd Command) {
	now := s.clock.Now()
	switch cmd.Type {
	case CommandStop:
		log.Info("stopping slideshow")
		s.stopped = true
	case CommandNext:
		if !s.blackedOut {
			s.advance(now)
		}
	case CommandPrev:
		if !s.blackedOut && len(s.images) > 0 {
			s.index = (s.index - 2 + 2*len(s.images)) % len(s.images)
			s.advance(now)
		}
	case CommandPause:
		s.setPaused(true, now)
	case CommandResume:
		s.setPaused(false, now)
	case CommandTogglePause:
		s.setPaused(!s.paused, now)
	default:
		log.Errorf("unknown command: %s", cmd.Type)
	}
}

// setPaused stops or restarts the interval timer. Viewer animation state
// keeps running; only the overlay marker changes.
func (s *Sequencer) setPaused(paused bool, now time.Time) {
	s.paused = paused
	s.display.SetPaused(paused)
	if !paused {
		s.nextChange = now.Add(s.cfg.Duration)
	}
}

// advance shows the image at the current index and steps past it.
func (s *Sequencer) advance(now time.Time) {
	if len(s.images) == 0 {
		return
	}
	if s.index >= len(s.images) {
		s.index = 0
	}

	path := s.images[s.index]
	s.current = path
	s.index = (s.index + 1) % len(s.images)

	log.Debugf("showing %s", path)
	s.display.Show(path, s.cfg.Duration, "")
	s.nextChange = now.Add(s.cfg.Duration)
}

// rescan reloads the folder list, preserving the playlist position by
// matching the current image path; if it is gone, playback restarts at 0.
func (s *Sequencer) rescan(now time.Time) {
	images := scan.Images(s.cfg.Folders)
	if s.cfg.Shuffle {
		rand.Shuffle(len(images), func(i, j int) {
			images[i], images[j] = images[j], images[i]
		})
	}

	index := 0
	if s.current != "" {
		for i, path := range images {
			if path == s.current {
				index = (i + 1) % len(images)
				break
			}
		}
	}

	log.Infof("rescan found %d images", len(images))
	s.images = images
	s.index = index
	s.nextRescan = now.Add(s.cfg.RefreshInterval)
}

func (s *Sequencer) pollWeather(now time.Time) {
	if s.weather == nil {
		return
	}

	select {
	case result := <-s.weather.Results():
		if result.Err != nil {
			log.Warnf("weather fetch failed: %v", result.Err)
			s.display.SetWeatherError()
			break
		}
		s.display.SetWeather(result.Summary)
		if result.Icon != nil {
			s.display.SetWeatherIcon(result.Icon)
		}
	default:
	}

	if !now.Before(s.nextWeather) {
		s.weather.Fetch()
		s.nextWeather = now.Add(weatherRefreshInterval)
	}
}

func (s *Sequencer) inNightWindow(now time.Time) bool {
	return s.cfg.Night != nil && s.cfg.Night.Contains(now)
}
