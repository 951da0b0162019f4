package cmd

import (
	"strings"

	"github.com/charmbracelet/log"
	"github.com/matjam/smoothtft/internal/ipc"
	"github.com/spf13/cobra"
)

// send runs one widget command against the daemon on the default socket.
func send(cmd ipc.Command) {
	if _, err := ipc.SendCommand(cmd); err != nil {
		log.Fatalf("Failed to send '%s' command: %v", cmd.Type, err)
	}
	log.Infof("%s command sent to %s", cmd.Type, cmd.Widget)
}

func NewWidgetCmd() *cobra.Command {
	widgetCmd := &cobra.Command{
		Use:   "widget",
		Short: "Start or stop a widget",
	}

	widgetCmd.AddCommand(&cobra.Command{
		Use:   "start NAME",
		Short: "Start a widget",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			send(ipc.Command{Type: ipc.CommandStart, Widget: args[0]})
		},
	})
	widgetCmd.AddCommand(&cobra.Command{
		Use:   "stop NAME",
		Short: "Stop a widget, leaving its last frame on screen",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			send(ipc.Command{Type: ipc.CommandHalt, Widget: args[0]})
		},
	})
	return widgetCmd
}

func NewTextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "text NAME TEXT...",
		Short: "Replace the text of a marquee",
		Args:  cobra.MinimumNArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			send(ipc.Command{Type: ipc.CommandText, Widget: args[0], Args: []string{strings.Join(args[1:], " ")}})
		},
	}
}

func NewColorCmd() *cobra.Command {
	colorCmd := &cobra.Command{
		Use:   "color NAME",
		Short: "Change the colours of a widget",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			fg, _ := cmd.Flags().GetString("fg")
			bg, _ := cmd.Flags().GetString("bg")
			if fg == "" && bg == "" {
				log.Fatal("Nothing to change, pass --fg and/or --bg")
			}
			send(ipc.Command{Type: ipc.CommandColor, Widget: args[0], Args: []string{fg, bg}})
		},
	}
	colorCmd.Flags().String("fg", "", "foreground colour, e.g. #ff8800")
	colorCmd.Flags().String("bg", "", "background colour")
	return colorCmd
}

func NewValueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "value NAME N",
		Short: "Set the value of a progress bar (0 to 100)",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			send(ipc.Command{Type: ipc.CommandValue, Widget: args[0], Args: []string{args[1]}})
		},
	}
}
