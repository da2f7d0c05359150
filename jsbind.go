// Package jsbind binds Go host objects into embedded JavaScript engines
package jsbind

import (
	"fmt"
	"sort"

	"github.com/yaoapp/jsbind/console"
	"github.com/yaoapp/jsbind/repository"
	"github.com/yaoapp/jsbind/runtime"
	"github.com/yaoapp/jsbind/runtime/goja"
	"github.com/yaoapp/jsbind/runtime/transform"
	v8 "github.com/yaoapp/jsbind/runtime/v8"
	"github.com/yaoapp/kun/log"
)

// New create a host
func New(option *Option) (*Host, error) {
	if option == nil {
		option = &Option{}
	}
	option.Validate()

	repo, err := repository.New(&repository.Option{
		CacheSize:      option.CacheSize,
		ProcessTimeout: option.ProcessTimeoutDuration(),
	})
	if err != nil {
		return nil, err
	}

	consoles, err := repository.New(&repository.Option{CacheSize: 1})
	if err != nil {
		return nil, err
	}

	host := &Host{
		option:     option,
		engine:     newEngine(option),
		repo:       repo,
		consoles:   consoles,
		console:    console.New(option.Mode),
		sourcemaps: transform.NewSourceMaps(),
	}

	names := make([]string, 0, len(option.Processes))
	for name := range option.Processes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		_, err := host.RegisterProcesses(name, option.Processes[name])
		if err != nil {
			return nil, err
		}
	}

	log.Trace("[jsbind] host created. engine:%s mode:%s", host.engine.Name(), option.Mode)
	return host, nil
}

func newEngine(option *Option) runtime.Engine {
	if option.Engine == "goja" {
		return goja.New(&goja.Option{Timeout: option.TimeoutDuration()})
	}
	return v8.New(&v8.Option{Timeout: option.TimeoutDuration()})
}

// Option the host option
func (host *Host) Option() *Option {
	return host.option
}

// Engine the script engine
func (host *Host) Engine() runtime.Engine {
	return host.engine
}

// Repository the registered host objects
func (host *Host) Repository() *repository.Repository {
	return host.repo
}

// Console the console messages of all the contexts
func (host *Host) Console() *console.Console {
	return host.console
}

// Register register a host object, it is bound to the contexts created after
func (host *Host) Register(name string, value interface{}) (*repository.Object, error) {
	if err := host.ready(); err != nil {
		return nil, err
	}
	return host.repo.Register(name, value)
}

// RegisterProcesses register an object whose methods call the processes
func (host *Host) RegisterProcesses(name string, methods map[string]string) (*repository.Object, error) {
	if err := host.ready(); err != nil {
		return nil, err
	}
	return host.repo.RegisterProcesses(name, methods)
}

// Unregister remove the object, the members bound in the existing contexts throw when they are called
func (host *Host) Unregister(name string) bool {
	return host.repo.Unregister(name)
}

// Contexts the ids of the open contexts
func (host *Host) Contexts() []string {
	ids := []string{}
	host.contexts.Range(func(key, value interface{}) bool {
		ids = append(ids, key.(string))
		return true
	})
	sort.Strings(ids)
	return ids
}

// Context get the open context by id
func (host *Host) Context(id string) (*Context, bool) {
	ctx, has := host.contexts.Load(id)
	if !has {
		return nil, false
	}
	return ctx.(*Context), true
}

// Close close all the contexts, the host can not create contexts anymore
func (host *Host) Close() error {
	host.mutex.Lock()
	host.closed = true
	host.mutex.Unlock()

	var errs []error
	host.contexts.Range(func(key, value interface{}) bool {
		if err := value.(*Context).Close(); err != nil {
			errs = append(errs, err)
		}
		return true
	})

	if len(errs) > 0 {
		return fmt.Errorf("[jsbind] close the contexts: %v", errs)
	}
	return nil
}

func (host *Host) ready() error {
	host.mutex.RLock()
	defer host.mutex.RUnlock()
	if host.closed {
		return fmt.Errorf("[jsbind] the host is closed")
	}
	return nil
}
