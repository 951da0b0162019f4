package ipc

import (
	"fmt"
	"image/color"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fogleman/gg"
	"github.com/jonboulle/clockwork"
	"github.com/matjam/smoothtft/internal/types"
	"github.com/matjam/smoothtft/internal/widget"
)

// Host is the display the manager's widgets live on.
type Host interface {
	Post(fn func())
	Done() <-chan struct{}
	Stop()
	Context() *gg.Context
	Clock() clockwork.Clock
}

type textSetter interface {
	SetText(string)
	Text() string
}

type colorSetter interface {
	SetColors(fg, bg color.Color)
}

type valueSetter interface {
	SetValue(float64)
	Value() float64
}

// Manager owns the widgets of a display. Commands arrive on server
// goroutines and are applied on the display loop.
type Manager struct {
	sync.RWMutex
	host    Host
	widgets map[string]widget.Widget
	timeout time.Duration
}

func NewManager(host Host) *Manager {
	return &Manager{
		host:    host,
		widgets: make(map[string]widget.Widget),
		timeout: 5 * time.Second,
	}
}

// Register adds a widget. Names must be unique.
func (m *Manager) Register(w widget.Widget) error {
	m.Lock()
	defer m.Unlock()

	if _, ok := m.widgets[w.Name()]; ok {
		return fmt.Errorf("widget %q already registered", w.Name())
	}
	m.widgets[w.Name()] = w
	return nil
}

func (m *Manager) Widget(name string) (widget.Widget, bool) {
	m.RLock()
	defer m.RUnlock()
	w, ok := m.widgets[name]
	return w, ok
}

// Names returns the registered widget names in order.
func (m *Manager) Names() []string {
	m.RLock()
	defer m.RUnlock()
	names := make([]string, 0, len(m.widgets))
	for name := range m.widgets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// call runs fn on the loop and waits for it.
func (m *Manager) call(fn func() (any, error)) (any, error) {
	type result struct {
		v   any
		err error
	}
	done := make(chan result, 1)
	m.host.Post(func() {
		v, err := fn()
		done <- result{v, err}
	})

	timer := m.host.Clock().NewTimer(m.timeout)
	defer timer.Stop()
	select {
	case r := <-done:
		return r.v, r.err
	case <-m.host.Done():
		return nil, ErrStopped
	case <-timer.Chan():
		return nil, fmt.Errorf("%w after %v", ErrTimeout, m.timeout)
	}
}

// Status describes every widget. It is collected on the loop.
func (m *Manager) Status() ([]WidgetStatus, error) {
	v, err := m.call(func() (any, error) {
		return m.status(), nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]WidgetStatus), nil
}

func (m *Manager) status() []WidgetStatus {
	names := m.Names()
	out := make([]WidgetStatus, 0, len(names))
	for _, name := range names {
		w, _ := m.Widget(name)
		b := w.Bounds()
		ws := WidgetStatus{
			Name:    name,
			Kind:    w.Kind(),
			Showing: w.Showing(),
			Bounds:  [4]int{b.Min.X, b.Min.Y, b.Dx(), b.Dy()},
		}
		if t, ok := w.(textSetter); ok {
			ws.Text = t.Text()
		}
		if vs, ok := w.(valueSetter); ok {
			v := vs.Value()
			ws.Value = &v
		}
		out = append(out, ws)
	}
	return out
}

// Execute validates cmd, applies it on the loop and waits for the result.
func (m *Manager) Execute(cmd Command) (any, error) {
	switch cmd.Type {
	case CommandStop:
		log.Info("Stopping display ...")
		m.host.Stop()
		return nil, nil
	case CommandStatus:
		return m.Status()
	}

	apply, err := m.prepare(cmd)
	if err != nil {
		return nil, err
	}
	return m.call(func() (any, error) {
		apply()
		return nil, nil
	})
}

// EnqueueCommand applies cmd on the loop without waiting. Invalid commands
// are logged.
func (m *Manager) EnqueueCommand(cmd Command) {
	if cmd.Type == CommandStop {
		m.host.Stop()
		return
	}
	apply, err := m.prepare(cmd)
	if err != nil {
		log.Errorf("Dropping %s command: %v", cmd.Type, err)
		return
	}
	m.host.Post(apply)
}

// prepare checks a widget command off the loop and returns the function
// that applies it.
func (m *Manager) prepare(cmd Command) (func(), error) {
	w, ok := m.Widget(cmd.Widget)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWidget, cmd.Widget)
	}

	switch cmd.Type {
	case CommandStart:
		return func() {
			log.Infof("Starting widget %s", w.Name())
			w.Start(m.host.Context())
		}, nil

	case CommandHalt:
		return func() {
			log.Infof("Stopping widget %s", w.Name())
			w.Stop()
		}, nil

	case CommandText:
		t, ok := w.(textSetter)
		if !ok {
			return nil, fmt.Errorf("%w: %s on %s", ErrUnsupported, cmd.Type, w.Kind())
		}
		text := strings.Join(cmd.Args, " ")
		return func() { t.SetText(text) }, nil

	case CommandColor:
		c, ok := w.(colorSetter)
		if !ok {
			return nil, fmt.Errorf("%w: %s on %s", ErrUnsupported, cmd.Type, w.Kind())
		}
		if len(cmd.Args) == 0 || len(cmd.Args) > 2 {
			return nil, fmt.Errorf("%w: color takes a foreground and an optional background", ErrBadArguments)
		}
		fg, err := optionalColor(cmd.Args, 0)
		if err != nil {
			return nil, err
		}
		bg, err := optionalColor(cmd.Args, 1)
		if err != nil {
			return nil, err
		}
		return func() { c.SetColors(fg, bg) }, nil

	case CommandValue:
		vs, ok := w.(valueSetter)
		if !ok {
			return nil, fmt.Errorf("%w: %s on %s", ErrUnsupported, cmd.Type, w.Kind())
		}
		if len(cmd.Args) != 1 {
			return nil, fmt.Errorf("%w: value takes one number", ErrBadArguments)
		}
		v, err := strconv.ParseFloat(cmd.Args[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadArguments, err)
		}
		return func() { vs.SetValue(v) }, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Type)
}

func optionalColor(args []string, i int) (color.Color, error) {
	if i >= len(args) || args[i] == "" {
		return nil, nil
	}
	c, err := types.ParseColor(args[i])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadArguments, err)
	}
	return c, nil
}
