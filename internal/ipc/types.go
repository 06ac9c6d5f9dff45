package ipc

import (
	"github.com/photodrift/photodrift/internal/sequencer"
)

// SequencerInterface is what the handlers need from the running slideshow.
type SequencerInterface interface {
	EnqueueCommand(sequencer.Command)
	Status() sequencer.Status
}

// Response is the generic JSON envelope for command replies.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// StatusResponse is the payload of GET /status.
type StatusResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	Version      string `json:"version"`
	PID          int    `json:"pid"`
	Socket       string `json:"socket"`
	Config       string `json:"config"`
	CurrentImage string `json:"current_image"`
	Paused       bool   `json:"paused"`
	Blackout     bool   `json:"blackout"`
	ImageCount   int    `json:"image_count"`
}
