package app

import (
	"errors"
	"path/filepath"

	"github.com/dshills/navspy/internal/config"
	"github.com/dshills/navspy/internal/document"
	"github.com/dshills/navspy/internal/event"
	"github.com/dshills/navspy/internal/watch"
)

// startWatcher watches the document and the config file. Watch failures
// only disable live reload.
func (app *Application) startWatcher() error {
	w, err := watch.New()
	if err != nil {
		return err
	}
	app.watcher = w

	for _, path := range []string{app.docPath, app.configPath} {
		if path == "" {
			continue
		}
		if err := w.Watch(path); err != nil && !errors.Is(err, watch.ErrAlreadyWatching) {
			app.logger.Warn("live reload disabled", "path", path, "error", err)
		}
	}

	go app.pump(w)
	return nil
}

// pump forwards watcher output to the event loop until the watcher closes.
func (app *Application) pump(w *watch.Watcher) {
	events, errs := w.Events(), w.Errors()
	for events != nil || errs != nil {
		select {
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			app.post(func() { app.handleFileEvent(ev) })
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			app.logger.Warn("watch error", "error", err)
		}
	}
}

// handleFileEvent reloads whatever file changed. Removals are ignored so
// that editors replacing the file through a rename keep working.
func (app *Application) handleFileEvent(ev watch.Event) {
	if app.shutdown.Load() {
		return
	}
	app.logger.Debug("file changed", "path", ev.Path, "op", ev.Op)
	if !ev.Op.Has(watch.OpCreate | watch.OpWrite) {
		return
	}

	switch ev.Path {
	case filepath.Clean(app.docPath):
		if err := app.reloadDocument(); err != nil {
			app.logger.Warn("document reload failed", "path", ev.Path, "error", err)
		}
	case app.absConfigPath():
		if err := app.reloadConfig(); err != nil {
			app.logger.Warn("config reload failed, keeping previous", "path", ev.Path, "error", err)
		}
	}
}

func (app *Application) absConfigPath() string {
	abs, err := filepath.Abs(app.configPath)
	if err != nil {
		return filepath.Clean(app.configPath)
	}
	return abs
}

// reloadDocument parses the document again and swaps it into the page.
// The spy rebuilds its registry from the structure change notification.
func (app *Application) reloadDocument() error {
	doc, err := document.Load(app.docPath)
	if err != nil {
		return err
	}
	app.page.SetDocument(doc)
	app.viewer.Configure(app.viewerOptions(app.cfg))

	items := len(app.spy.Items())
	app.logger.Info("document reloaded", "path", app.docPath, "items", items)
	app.publish(event.TopicDocumentReloaded, event.DocumentReloaded{Path: app.docPath, Items: items})
	return nil
}

// reloadConfig applies a changed config file. An invalid file leaves the
// running configuration untouched.
func (app *Application) reloadConfig() error {
	cfg, err := config.Load(app.configPath, app.overrides)
	if err != nil {
		return err
	}
	opts, err := cfg.SpyOptions()
	if err != nil {
		return err
	}
	if err := app.spy.Reconfigure(opts); err != nil {
		return err
	}

	if level, err := cfg.LogLevel(); err == nil {
		app.logs.SetLevel(level)
	}
	if cfg.Log.File != app.cfg.Log.File {
		app.logger.Warn("log file change takes effect on restart", "file", cfg.Log.File)
	}
	if cfg.Viewer.FrameInterval != app.cfg.Viewer.FrameInterval {
		app.frames.SetInterval(cfg.Viewer.FrameInterval)
	}
	if cfg.Hooks.Script != app.cfg.Hooks.Script {
		if err := app.loadHooks(cfg.Hooks.Script); err != nil {
			app.logger.Warn("hooks not loaded", "script", cfg.Hooks.Script, "error", err)
		}
	}
	app.viewer.Configure(app.viewerOptions(cfg))
	app.cfg = cfg

	app.logger.Info("config reloaded", "path", app.configPath)
	app.publish(event.TopicConfigReloaded, event.ConfigReloaded{Path: app.configPath})
	return nil
}
