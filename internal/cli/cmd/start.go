package cmd

import (
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	daemon "github.com/sevlyar/go-daemon"
	"github.com/spf13/cobra"

	"github.com/photodrift/photodrift/internal/config"
	"github.com/photodrift/photodrift/internal/ipc"
	"github.com/photodrift/photodrift/internal/render"
	"github.com/photodrift/photodrift/internal/sequencer"
	"github.com/photodrift/photodrift/internal/viewer"
	"github.com/photodrift/photodrift/internal/weather"
)

func NewStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the slideshow",
		Long:  `Starts the fullscreen slideshow, optionally as a daemon with -b.`,
		Run: func(c *cobra.Command, args []string) {
			StartViewer(c)
		},
	}
}

// StartViewer runs the slideshow in the foreground, forking first when the
// background flag is set.
func StartViewer(c *cobra.Command) {
	if _, err := ipc.SendStatus(); err == nil {
		log.Infof("photodrift is already running, exiting")
		os.Exit(0)
	}

	if v, err := c.Flags().GetBool("background"); err == nil && v {
		ctx := daemonContext()

		child, err := ctx.Reborn()
		if err != nil {
			log.Fatalf("Unable to fork into the background: %v", err)
		}
		if child != nil {
			log.Infof("photodrift running in the background with PID %d", child.Pid)
			return
		}
		defer ctx.Release()

		setupRotatingLogger()
	}

	log.Infof("photodrift started in PID: %d", os.Getpid())

	cfg := config.Load()
	if len(cfg.Folders) == 0 {
		log.Fatal("No photo folders configured.")
	}

	v := viewer.New(
		viewer.WithMeasure(render.Measure),
		viewer.WithMotionEnabled(cfg.MotionEnabled),
	)
	v.SetAvailableTransitions(cfg.Transitions)
	v.SetFolderFontSize(cfg.FolderFontSize)
	v.SetFileFontSize(cfg.FileFontSize)
	v.SetDateFontSize(cfg.DateFontSize)
	v.SetWeatherFontSize(cfg.WeatherFontSize)
	v.SetWeatherUnits(cfg.Weather.Units)

	var weatherClient *weather.Client
	if cfg.Weather.Enabled && cfg.Weather.APIKey != "" && cfg.Weather.Location != "" {
		weatherClient = weather.New(cfg.Weather.APIKey, cfg.Weather.Location, cfg.Weather.Units)
		log.Infof("weather overlay enabled for %q", cfg.Weather.Location)
	}

	seq := sequencer.New(cfg, v, clockwork.NewRealClock(), weatherClient)
	seq.Start()

	go func() {
		log.Infof("Starting socket server")
		ipc.Start(seq)
	}()

	if err := render.Run(v, seq, &cfg); err != nil {
		log.Errorf("render loop failed: %v", err)
	}

	os.Remove(ipc.SocketPath())
	log.Infof("photodrift exited")
}

// daemonContext keeps the pid file next to the rotating log under
// ~/.local/share/photodrift.
func daemonContext() *daemon.Context {
	home := os.Getenv("HOME")
	runDir := filepath.Join(home, ".local", "share", "photodrift")
	if err := os.MkdirAll(runDir, 0755); err != nil {
		log.Fatalf("Error creating state directory: %v", err)
	}

	return &daemon.Context{
		PidFileName: filepath.Join(runDir, "photodrift.pid"),
		PidFilePerm: 0644,
		Env:         os.Environ(),
	}
}

func setupRotatingLogger() {
	home := os.Getenv("HOME")
	logDir := filepath.Join(home, ".local", "share", "photodrift")
	logPath := filepath.Join(logDir, "photodrift.log")

	writer, err := rotatelogs.New(
		logPath+".%Y%m%d%H%M",
		rotatelogs.WithLinkName(logPath),
		rotatelogs.WithMaxAge(7*24*time.Hour),
		rotatelogs.WithRotationSize(10*1024*1024),
		rotatelogs.WithRotationTime(24*time.Hour),
	)
	if err != nil {
		log.Fatalf("failed to configure log rotation: %v", err)
	}

	log.SetOutput(writer)
	log.SetLevel(log.InfoLevel)
}
