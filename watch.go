package jsbind

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/yaoapp/kun/log"
)

// WatchOption reload the option when the file changes, the handler receives the new option or the error
// the returned function stops watching
func WatchOption(file string, handler func(option *Option, err error)) (func() error, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// watch the directory, editors replace the file when saving
	err = watcher.Add(filepath.Dir(abs))
	if err != nil {
		watcher.Close()
		return nil, err
	}

	log.Info("[Watch] Watching: %s", abs)
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}

				if filepath.Clean(event.Name) != abs {
					break
				}

				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					break
				}

				log.Info("[Watch] %s %s", event.Op.String(), abs)
				handler(LoadOption(abs))

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Error("[Watch] %s %s", abs, err.Error())
			}
		}
	}()

	return watcher.Close, nil
}
