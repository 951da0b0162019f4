package ipc

import (
	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, manager ManagerInterface) {
	e.GET("/status", statusHandler(manager))
	e.POST("/stop", stopHandler(manager))
	e.POST("/command", commandHandler(manager))

	w := e.Group("/widgets/:name")
	w.POST("/start", widgetHandler(manager, CommandStart))
	w.POST("/stop", widgetHandler(manager, CommandHalt))
	w.POST("/text", textHandler(manager))
	w.POST("/color", colorHandler(manager))
	w.POST("/value", valueHandler(manager))
}
