package ipc

import (
	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, seq SequencerInterface) {
	e.GET("/status", statusHandler(seq))
	e.POST("/stop", commandHandler(seq, "stop"))
	e.POST("/next", commandHandler(seq, "next"))
	e.POST("/prev", commandHandler(seq, "prev"))
	e.POST("/pause", commandHandler(seq, "pause"))
	e.POST("/resume", commandHandler(seq, "resume"))
}
