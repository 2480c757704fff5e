// Package app wires the navspy components together and owns their
// lifecycle: configuration, logging, the document page, the scroll spy,
// the event bus, Lua hooks, file watchers and the terminal viewer.
package app

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/navspy/internal/config"
	"github.com/dshills/navspy/internal/document"
	"github.com/dshills/navspy/internal/event"
	"github.com/dshills/navspy/internal/hook"
	"github.com/dshills/navspy/internal/page"
	"github.com/dshills/navspy/internal/spy"
	"github.com/dshills/navspy/internal/spy/registry"
	"github.com/dshills/navspy/internal/term"
	"github.com/dshills/navspy/internal/watch"
)

// shutdownTimeout bounds how long Shutdown waits for the event loop.
const shutdownTimeout = 2 * time.Second

// Options configures the application.
type Options struct {
	// File is the Markdown or HTML document to view.
	File string

	// ConfigPath is the configuration file. Empty selects the per-user
	// default location.
	ConfigPath string

	// LogLevel and LogFile override the log section when not empty.
	LogLevel string
	LogFile  string

	// Overrides maps dotted setting paths to values, applied last.
	Overrides map[string]any

	// Screen replaces the terminal, mainly for tests. It must not be
	// initialized yet.
	Screen tcell.Screen
}

// Application is a running navspy instance.
type Application struct {
	opts       Options
	docPath    string
	configPath string
	overrides  map[string]any

	cfg    config.Config
	logs   *logSink
	logger *slog.Logger

	screen  tcell.Screen
	frames  *page.TimerScheduler
	page    *page.Page
	viewer  *term.Viewer
	spy     *spy.Spy
	bus     *event.Bus
	hooks   *hook.Runtime
	unhook  func()
	watcher *watch.Watcher
	cancels []func()

	running      atomic.Bool
	stopped      chan struct{}
	shutdownOnce sync.Once
	shutdown     atomic.Bool
}

// New loads the configuration and document and builds every component.
// The terminal is initialized but nothing is drawn until Run.
func New(opts Options) (*Application, error) {
	if opts.File == "" {
		return nil, ErrNoDocument
	}

	app := &Application{
		opts:      opts,
		overrides: overrides(opts),
		stopped:   make(chan struct{}),
	}
	app.configPath = opts.ConfigPath
	if app.configPath == "" {
		app.configPath = config.DefaultPath()
	}
	if abs, err := filepath.Abs(opts.File); err == nil {
		app.docPath = abs
	} else {
		app.docPath = opts.File
	}

	if err := app.bootstrap(); err != nil {
		app.Shutdown()
		return nil, err
	}
	return app, nil
}

// overrides merges the explicit log options into the override map.
func overrides(opts Options) map[string]any {
	m := make(map[string]any, len(opts.Overrides)+2)
	for k, v := range opts.Overrides {
		m[k] = v
	}
	if opts.LogLevel != "" {
		m["log.level"] = opts.LogLevel
	}
	if opts.LogFile != "" {
		m["log.file"] = opts.LogFile
	}
	return m
}

// bootstrap initializes the components in dependency order.
func (app *Application) bootstrap() error {
	cfg, err := config.Load(app.configPath, app.overrides)
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	app.cfg = cfg

	level, _ := cfg.LogLevel()
	app.logs, err = newLogSink(cfg.Log.File, level)
	if err != nil {
		return &InitError{Component: "log", Err: err}
	}
	app.logger = app.logs.logger

	doc, err := document.Load(app.docPath)
	if err != nil {
		return &InitError{Component: "document", Err: err}
	}

	screen := app.opts.Screen
	if screen == nil {
		if screen, err = tcell.NewScreen(); err != nil {
			return &InitError{Component: "terminal", Err: err}
		}
	}
	if err := screen.Init(); err != nil {
		return &InitError{Component: "terminal", Err: err}
	}
	app.screen = screen
	screen.EnableMouse()

	app.frames = page.NewTimerScheduler(app.post, cfg.Viewer.FrameInterval)
	app.page = page.New(doc, app.frames)
	app.viewer = term.New(screen, app.page, app.viewerOptions(cfg))

	spyOpts, err := cfg.SpyOptions()
	if err != nil {
		return &InitError{Component: "spy", Err: err}
	}
	app.spy, err = spy.New(app.page, spyOpts, spy.WithLogger(app.logger))
	if err != nil {
		return &InitError{Component: "spy", Err: err}
	}

	app.bus = event.NewBus()
	app.cancels = append(app.cancels,
		app.spy.OnChange(app.publishChange),
		app.spy.OnScrollComplete(app.publishComplete),
	)

	if err := app.loadHooks(cfg.Hooks.Script); err != nil {
		return &InitError{Component: "hooks", Err: err}
	}

	if err := app.startWatcher(); err != nil {
		return &InitError{Component: "watcher", Err: err}
	}

	if err := app.spy.Start(); err != nil {
		return &InitError{Component: "spy", Err: err}
	}

	app.logger.Info("navspy started",
		"document", app.docPath,
		"config", app.configPath,
		"items", len(app.spy.Items()),
	)
	return nil
}

func (app *Application) viewerOptions(cfg config.Config) term.Options {
	return term.Options{
		Container:    cfg.Spy.Container,
		ActiveClass:  cfg.Spy.ActiveClass,
		SidebarWidth: cfg.Viewer.SidebarWidth,
		ScrollStep:   cfg.Viewer.ScrollStep,
		Logger:       app.logger,
	}
}

// post runs fn on the event loop.
func (app *Application) post(fn func()) {
	if app.shutdown.Load() || app.viewer == nil {
		return
	}
	app.viewer.Post(fn)
}

func (app *Application) publish(topic event.Topic, payload any) {
	if err := app.bus.Publish(context.Background(), topic, payload); err != nil {
		app.logger.Warn("event handler failed", "topic", topic, "error", err)
	}
}

func (app *Application) publishChange(ev spy.ChangeEvent) {
	app.logger.Debug("active item changed",
		"origin", ev.Origin.Kind,
		"previous", itemID(ev.Previous),
		"current", itemID(ev.Current),
	)
	app.publish(event.TopicActiveChanged, event.ActiveChanged{
		Origin:   ev.Origin.Kind.String(),
		Previous: itemID(ev.Previous),
		Current:  itemID(ev.Current),
	})
}

func (app *Application) publishComplete(ev spy.CompleteEvent) {
	app.publish(event.TopicScrollCompleted, event.ScrollCompleted{
		ID: itemID(ev.Item),
		Y:  ev.Y,
	})
}

func itemID(item *registry.Item) string {
	if item == nil {
		return ""
	}
	return item.TargetID
}

// loadHooks replaces the hook runtime with the script at path. An empty
// path removes it.
func (app *Application) loadHooks(path string) error {
	app.closeHooks()
	if path == "" {
		return nil
	}

	rt, err := hook.Load(path,
		hook.WithLogger(app.logger),
		hook.WithActivate(app.activateLater),
	)
	if err != nil {
		return err
	}
	unhook, err := rt.Subscribe(app.bus)
	if err != nil {
		_ = rt.Close()
		return err
	}
	app.hooks = rt
	app.unhook = unhook
	app.logger.Info("hooks loaded", "script", path)
	return nil
}

func (app *Application) closeHooks() {
	if app.unhook != nil {
		app.unhook()
		app.unhook = nil
	}
	if app.hooks != nil {
		_ = app.hooks.Close()
		app.hooks = nil
	}
}

// activateLater navigates to id once the current callback has returned.
func (app *Application) activateLater(id string) {
	app.post(func() {
		if err := app.spy.Activate(id); err != nil {
			app.logger.Warn("activate failed", "id", id, "error", err)
		}
	})
}

// Run draws and handles input until the user quits or Shutdown is called.
// It returns ErrQuit when the user quit.
func (app *Application) Run() error {
	if app.shutdown.Load() {
		return ErrShutdown
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer close(app.stopped)

	app.viewer.Run()
	if app.shutdown.Load() {
		return ErrShutdown
	}
	return ErrQuit
}

// Shutdown stops the event loop if it is running and releases every
// component. Only the first call has an effect.
func (app *Application) Shutdown() {
	app.shutdownOnce.Do(func() {
		app.shutdown.Store(true)

		if app.running.Load() && app.viewer != nil {
			app.viewer.Post(app.viewer.Quit)
			select {
			case <-app.stopped:
			case <-time.After(shutdownTimeout):
				if app.logger != nil {
					app.logger.Warn("event loop did not stop", "error", ErrShutdownTimeout)
				}
			}
		}

		for _, cancel := range app.cancels {
			cancel()
		}
		app.cancels = nil
		if app.spy != nil {
			app.spy.Close()
		}
		if app.frames != nil {
			app.frames.Stop()
		}
		if app.watcher != nil {
			_ = app.watcher.Close()
		}
		app.closeHooks()
		if app.screen != nil {
			app.screen.Fini()
		}
		if app.logs != nil {
			app.logger.Info("navspy stopped")
			_ = app.logs.Close()
		}
	})
}

// Config returns the configuration in effect.
func (app *Application) Config() config.Config { return app.cfg }

// Spy returns the scroll spy.
func (app *Application) Spy() *spy.Spy { return app.spy }

// Page returns the viewed page.
func (app *Application) Page() *page.Page { return app.page }

// Bus returns the event bus carrying spy and reload notifications.
func (app *Application) Bus() *event.Bus { return app.bus }
