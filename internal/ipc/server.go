package ipc

import (
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
)

// SocketPath returns the control socket location, preferring the user
// runtime directory.
func SocketPath() string {
	sockDir := os.Getenv("XDG_RUNTIME_DIR")
	if sockDir == "" {
		sockDir = os.TempDir()
	}
	return filepath.Join(sockDir, "photodrift.sock")
}

// Start serves the control API on the unix socket. It blocks; run it in its
// own goroutine.
func Start(seq SequencerInterface) {
	sockPath := SocketPath()

	if _, err := os.Stat(sockPath); err == nil {
		_ = os.Remove(sockPath)
	}

	listener, err := net.Listen("unix", sockPath)
	if err != nil {
		log.Fatal(err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Listener = listener

	e.Use(charmLog())

	RegisterRoutes(e, seq)

	server := new(http.Server)
	if err := e.StartServer(server); err != nil {
		log.Fatalf("socket server error: %v", err)
	}
}

// charmLog is a request-logging middleware writing through charmbracelet/log.
func charmLog() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			log.Debugf("%s %s -> %d (%s)",
				c.Request().Method, c.Request().URL.Path,
				c.Response().Status, time.Since(start))
			return err
		}
	}
}
