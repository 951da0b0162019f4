package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fogleman/gg"
	goerrors "github.com/go-errors/errors"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/matjam/smoothtft/internal/display"
	"github.com/matjam/smoothtft/internal/ipc"
	"github.com/matjam/smoothtft/internal/types"
	"github.com/sevlyar/go-daemon"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the smoothtft display daemon",
		Run: func(cmd *cobra.Command, args []string) {
			background, _ := cmd.Flags().GetBool("background")
			Start(background)
		},
	}
}

// Start runs the daemon, detaching from the terminal first when background
// is set.
func Start(background bool) {
	if !background || daemon.WasReborn() {
		StartManager()
		return
	}

	ctx := &daemon.Context{
		PidFileName: filepath.Join(filepath.Dir(ipc.SocketPath()), "smoothtft.pid"),
		PidFilePerm: 0644,
		Umask:       027,
		Env:         append(os.Environ(), "BACKGROUND_PROCESS=1"),
	}

	child, err := ctx.Reborn()
	if err != nil {
		log.Fatalf("Failed to start in the background: %v", err)
	}
	if child != nil {
		log.Infof("smoothtft started in the background, PID %d", child.Pid)
		return
	}
	defer ctx.Release()

	StartManager()
}

func StartManager() {
	log.Infof("StartManager() started in PID: %d", os.Getpid())

	if os.Getenv("BACKGROUND_PROCESS") == "1" {
		setupRotatingLogger()
	}

	if _, err := ipc.SendStatus(); err == nil {
		log.Infof("smoothtft is already running, exiting")
		os.Exit(0)
	}

	cfg, err := LoadConfig(viper.GetViper())
	if err != nil {
		log.Fatalf("%v", err)
	}
	bg, err := types.ParseColor(cfg.Background)
	if err != nil {
		log.Fatalf("Bad background: %v", err)
	}

	presenter, err := OpenPresenter(cfg)
	if err != nil {
		var stack *goerrors.Error
		if errors.As(err, &stack) {
			log.Debug(stack.ErrorStack())
		}
		log.Fatalf("Error opening %s output: %v", cfg.Output, err)
	}
	log.Infof("Output %s is %v", cfg.Output, presenter.Bounds())

	d := display.New(presenter, display.Options{FPS: cfg.FPS})
	manager := ipc.NewManager(d)
	autostart, err := BuildWidgets(d, manager, cfg)
	if err != nil {
		presenter.Close()
		log.Fatalf("Error creating widgets: %v", err)
	}
	log.Infof("Running with %d widgets", len(manager.Names()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	served := make(chan struct{})
	go func() {
		defer close(served)
		log.Infof("Starting socket server")
		if err := ipc.Serve(ctx, manager, ipc.SocketPath()); err != nil {
			log.Errorf("Socket server: %v", err)
		}
	}()

	err = d.Run(ctx, func(dc *gg.Context) {
		d.BlankScreen(bg, true)
		for _, w := range autostart {
			w.Start(dc)
		}
	})
	if err != nil {
		log.Errorf("Display stopped: %v", err)
	}

	stop()
	<-served
	log.Infof("smoothtft exited")
}

func setupRotatingLogger() {
	home := os.Getenv("HOME")
	logDir := filepath.Join(home, ".local", "share", "smoothtft")
	logPath := filepath.Join(logDir, "smoothtft.log")

	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Fatalf("failed to create log directory: %v", err)
	}

	writer, err := rotatelogs.New(
		logPath+".%Y%m%d%H%M",
		rotatelogs.WithLinkName(logPath),
		rotatelogs.WithMaxAge(7*24*time.Hour),
		rotatelogs.WithRotationSize(10*1024*1024),
		rotatelogs.WithRotationTime(24*time.Hour),
	)
	if err != nil {
		log.Fatalf("failed to configure log rotation: %v", err)
	}

	log.SetOutput(writer)
	if !viper.GetBool("debug") {
		log.SetLevel(log.InfoLevel)
	}
}
