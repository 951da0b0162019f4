package ipc

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/matjam/smoothtft/internal/middleware"
	"github.com/spf13/viper"
)

// SocketPath is the control socket: the socket setting, else
// $XDG_RUNTIME_DIR/smoothtft.sock.
func SocketPath() string {
	if p := viper.GetString("socket"); p != "" {
		return p
	}
	sockDir := os.Getenv("XDG_RUNTIME_DIR")
	if sockDir == "" {
		sockDir = os.TempDir()
	}
	return filepath.Join(sockDir, "smoothtft.sock")
}

func NewServer(manager ManagerInterface) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.CharmLog())

	RegisterRoutes(e, manager)
	return e
}

// Serve answers requests on the unix socket at sockPath until ctx is done.
// A stale socket file is replaced and the socket is removed on return.
func Serve(ctx context.Context, manager ManagerInterface, sockPath string) error {
	if _, err := os.Stat(sockPath); err == nil {
		_ = os.Remove(sockPath)
	}

	listener, err := net.Listen("unix", sockPath)
	if err != nil {
		return err
	}
	defer os.Remove(sockPath)

	e := NewServer(manager)
	e.Listener = listener

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			log.Errorf("Socket server shutdown: %v", err)
		}
	}()

	log.Infof("Listening on %s", sockPath)
	if err := e.StartServer(e.Server); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
