package ipc

import (
	"net/http"
	"os"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/spf13/viper"

	"github.com/photodrift/photodrift"
	"github.com/photodrift/photodrift/internal/sequencer"
)

// GET /status
func statusHandler(seq SequencerInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		status := seq.Status()
		return c.JSONPretty(http.StatusOK, StatusResponse{
			Status:       "ok",
			Message:      "photodrift is running",
			Version:      strings.Trim(photodrift.Version, "\n\r "),
			PID:          os.Getpid(),
			Socket:       SocketPath(),
			Config:       viper.ConfigFileUsed(),
			CurrentImage: status.CurrentImage,
			Paused:       status.Paused,
			Blackout:     status.Blackout,
			ImageCount:   status.ImageCount,
		}, "  ")
	}
}

// commandHandler enqueues a single sequencer command for POST routes.
func commandHandler(seq SequencerInterface, kind string) echo.HandlerFunc {
	return func(c echo.Context) error {
		seq.EnqueueCommand(sequencer.Command{Type: sequencer.CommandType(kind)})
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}
}
