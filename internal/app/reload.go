package app

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultReloadDebounce collapses the burst of events an editor produces
// when saving a template.
const DefaultReloadDebounce = 200 * time.Millisecond

// TemplateWatcher watches a template directory and reloads the session when
// the file behind its current template changes. Useful while authoring
// templates.
type TemplateWatcher struct {
	session *Session
	dir     string
	watcher *fsnotify.Watcher

	// Debounce is how long a file must stay quiet before it is reloaded.
	Debounce time.Duration
	// OnReload, if set, is called after the active template was reloaded.
	OnReload func(handle string, err error)

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewTemplateWatcher starts watching dir. Call Start to handle events and
// Close to release the watcher.
func NewTemplateWatcher(s *Session, dir string) (*TemplateWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("template watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("template watcher: watch %s: %w", dir, err)
	}
	return &TemplateWatcher{
		session:  s,
		dir:      dir,
		watcher:  watcher,
		Debounce: DefaultReloadDebounce,
	}, nil
}

// Start handles file events in a background goroutine until ctx is done or
// Close is called.
func (w *TemplateWatcher) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.watchLoop(ctx)
	}()
	log.Printf("app: watching templates in %s", w.dir)
}

// Close stops the event loop and the underlying watcher.
func (w *TemplateWatcher) Close() error {
	if w.cancel != nil {
		w.cancel()
	}
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func (w *TemplateWatcher) watchLoop(ctx context.Context) {
	timers := make(map[string]*time.Timer)
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			h, ok := templateHandle(event.Name)
			if !ok {
				continue
			}
			if t, exists := timers[h]; exists {
				t.Stop()
			}
			timers[h] = time.AfterFunc(w.Debounce, func() {
				if ctx.Err() != nil {
					return
				}
				if _, err := w.Changed(ctx, h); err != nil {
					log.Printf("app: template reload: %v", err)
				}
			})
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("app: template watcher: %v", err)
		}
	}
}

// Changed invalidates the given templates and reloads the session if its
// template is among them. It reports whether a reload happened.
func (w *TemplateWatcher) Changed(ctx context.Context, handles ...string) (bool, error) {
	active := w.session.Draft().TemplateHandle
	reload := false
	for _, h := range handles {
		w.session.opts.Templates.Invalidate(h)
		if h == active {
			reload = true
		}
	}
	if !reload {
		return false, nil
	}

	log.Printf("app: template %s changed, reloading", active)
	err := w.session.LoadTemplate(ctx)
	if w.OnReload != nil {
		w.OnReload(active, err)
	}
	return true, err
}

// templateHandle maps a template file name to its handle.
func templateHandle(name string) (string, bool) {
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	switch ext {
	case ".yaml", ".yml", ".json":
		return strings.TrimSuffix(base, ext), true
	}
	return "", false
}
