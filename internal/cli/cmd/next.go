package cmd

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/photodrift/photodrift/internal/ipc"
)

func NewNextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Skip to the next photo",
		Run: func(cmd *cobra.Command, args []string) {
			if _, err := ipc.SendNext(); err != nil {
				log.Fatalf("Failed to send 'next' command: %v", err)
			}
			log.Info("Next photo command sent")
		},
	}
}

func NewPrevCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prev",
		Short: "Go back to the previous photo",
		Run: func(cmd *cobra.Command, args []string) {
			if _, err := ipc.SendPrev(); err != nil {
				log.Fatalf("Failed to send 'prev' command: %v", err)
			}
			log.Info("Previous photo command sent")
		},
	}
}
