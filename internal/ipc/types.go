package ipc

import "errors"

type CommandType string

const (
	CommandStop   CommandType = "stop"
	CommandStatus CommandType = "status"
	CommandStart  CommandType = "start"
	CommandHalt   CommandType = "halt"
	CommandText   CommandType = "text"
	CommandColor  CommandType = "color"
	CommandValue  CommandType = "value"
)

// Command is a request to the daemon. Widget names the target of the widget
// commands; Args carry their parameters:
//
//	text:  the new text (joined with spaces)
//	color: foreground, then optional background; "" keeps a colour
//	value: the new value
type Command struct {
	Type   CommandType `json:"type"`
	Widget string      `json:"widget,omitempty"`
	Args   []string    `json:"args"`
}

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUnknownWidget  = errors.New("unknown widget")
	ErrUnsupported    = errors.New("command not supported by widget")
	ErrBadArguments   = errors.New("bad command arguments")
	ErrStopped        = errors.New("display stopped")
	ErrTimeout        = errors.New("timed out waiting for the display loop")
)

type ManagerInterface interface {
	Status() ([]WidgetStatus, error)
	Execute(Command) (any, error)
	EnqueueCommand(Command)
}

type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

type WidgetStatus struct {
	Name    string   `json:"name"`
	Kind    string   `json:"kind"`
	Showing bool     `json:"showing"`
	Bounds  [4]int   `json:"bounds"`
	Text    string   `json:"text,omitempty"`
	Value   *float64 `json:"value,omitempty"`
}

type StatusResponse struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Version string         `json:"version"`
	PID     int            `json:"pid"`
	Socket  string         `json:"socket"`
	Config  string         `json:"config"`
	FPS     float64        `json:"fps"`
	Widgets []WidgetStatus `json:"widgets"`
}
