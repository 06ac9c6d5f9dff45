package cmd

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/photodrift/photodrift/internal/ipc"
)

func NewPauseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pause",
		Short: "Pause the slideshow on the current photo",
		Run: func(cmd *cobra.Command, args []string) {
			if _, err := ipc.SendPause(); err != nil {
				log.Fatalf("Failed to send 'pause' command: %v", err)
			}
			log.Info("Pause command sent")
		},
	}
}

func NewResumeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resume",
		Short: "Resume a paused slideshow",
		Run: func(cmd *cobra.Command, args []string) {
			if _, err := ipc.SendResume(); err != nil {
				log.Fatalf("Failed to send 'resume' command: %v", err)
			}
			log.Info("Resume command sent")
		},
	}
}
