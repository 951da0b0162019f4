package ipc

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/matjam/smoothtft"
	"github.com/spf13/viper"
)

func errorStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnknownWidget):
		return http.StatusNotFound
	case errors.Is(err, ErrUnknownCommand), errors.Is(err, ErrUnsupported), errors.Is(err, ErrBadArguments):
		return http.StatusBadRequest
	case errors.Is(err, ErrStopped):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func errorResponse(c echo.Context, err error) error {
	return c.JSON(errorStatus(err), Response{Status: "error", Message: err.Error()})
}

func execute(c echo.Context, m ManagerInterface, cmd Command) error {
	data, err := m.Execute(cmd)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, Response{Status: "ok", Data: data})
}

// GET /status
func statusHandler(m ManagerInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		widgets, err := m.Status()
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSONPretty(http.StatusOK, StatusResponse{
			Status:  "ok",
			Message: "smoothtft is running",
			Version: strings.Trim(smoothtft.Version, "\n\r "),
			PID:     os.Getpid(),
			Socket:  SocketPath(),
			Config:  viper.ConfigFileUsed(),
			FPS:     viper.GetFloat64("fps"),
			Widgets: widgets,
		}, "  ")
	}
}

// POST /stop
func stopHandler(m ManagerInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		m.EnqueueCommand(Command{Type: CommandStop})
		return c.JSON(http.StatusOK, Response{Status: "ok"})
	}
}

// POST /command
func commandHandler(m ManagerInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		var cmd Command
		if err := c.Bind(&cmd); err != nil || cmd.Type == "" {
			return c.JSON(http.StatusBadRequest, Response{Status: "error", Message: "invalid command"})
		}
		return execute(c, m, cmd)
	}
}

// POST /widgets/:name/start and /widgets/:name/stop
func widgetHandler(m ManagerInterface, t CommandType) echo.HandlerFunc {
	return func(c echo.Context) error {
		return execute(c, m, Command{Type: t, Widget: c.Param("name")})
	}
}

type textRequest struct {
	Text *string `json:"text"`
}

// POST /widgets/:name/text
func textHandler(m ManagerInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req textRequest
		if err := c.Bind(&req); err != nil || req.Text == nil {
			return c.JSON(http.StatusBadRequest, Response{Status: "error", Message: `expected {"text": "..."}`})
		}
		return execute(c, m, Command{Type: CommandText, Widget: c.Param("name"), Args: []string{*req.Text}})
	}
}

type colorRequest struct {
	Color      string `json:"color"`
	Background string `json:"background"`
}

// POST /widgets/:name/color
func colorHandler(m ManagerInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req colorRequest
		if err := c.Bind(&req); err != nil || (req.Color == "" && req.Background == "") {
			return c.JSON(http.StatusBadRequest, Response{Status: "error", Message: `expected {"color": "#rrggbb", "background": "#rrggbb"}`})
		}
		return execute(c, m, Command{Type: CommandColor, Widget: c.Param("name"), Args: []string{req.Color, req.Background}})
	}
}

type valueRequest struct {
	Value *float64 `json:"value"`
}

// POST /widgets/:name/value
func valueHandler(m ManagerInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req valueRequest
		if err := c.Bind(&req); err != nil || req.Value == nil {
			return c.JSON(http.StatusBadRequest, Response{Status: "error", Message: `expected {"value": 42}`})
		}
		return execute(c, m, Command{Type: CommandValue, Widget: c.Param("name"), Args: []string{FormatValue(*req.Value)}})
	}
}
