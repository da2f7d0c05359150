// Package console implements the script console object, the messages are delivered to the subscribers
package console

import (
	"fmt"
	"strings"

	"github.com/TylerBrock/colorjson"
	"github.com/fatih/color"
	jsoniter "github.com/json-iterator/go"
	"github.com/yaoapp/jsbind/runtime"
	"github.com/yaoapp/kun/log"
)

// New create a new console, messages are printed only in development mode
func New(mode string) *Console {
	if mode != "development" {
		mode = "production"
	}
	return &Console{mode: mode, handlers: map[int]Handler{}}
}

// Mode production or development
func (c *Console) Mode() string {
	return c.mode
}

// Subscribe add a message handler, returns the function to remove it
func (c *Console) Subscribe(handler Handler) func() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.lastID++
	id := c.lastID
	c.handlers[id] = handler
	return func() {
		c.mutex.Lock()
		defer c.mutex.Unlock()
		delete(c.handlers, id)
	}
}

// Emit deliver the message to the subscribers
func (c *Console) Emit(msg Message) {
	if c.mode == "development" {
		output(msg)
	}

	c.mutex.RLock()
	handlers := make([]Handler, 0, len(c.handlers))
	for _, handler := range c.handlers {
		handlers = append(handlers, handler)
	}
	c.mutex.RUnlock()

	for _, handler := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Error("[console] the message handler panic: %v", r)
				}
			}()
			handler(msg)
		}()
	}
}

// Object create the script object, locate returns the position of the caller
func (c *Console) Object(locate Locator) *Object {
	return &Object{console: c, locate: locate}
}

// Log console.log
func (obj *Object) Log(args ...interface{}) { obj.emit(LevelLog, args) }

// Info console.info
func (obj *Object) Info(args ...interface{}) { obj.emit(LevelInfo, args) }

// Warn console.warn
func (obj *Object) Warn(args ...interface{}) { obj.emit(LevelWarn, args) }

// Error console.error
func (obj *Object) Error(args ...interface{}) { obj.emit(LevelError, args) }

// Debug console.debug
func (obj *Object) Debug(args ...interface{}) { obj.emit(LevelDebug, args) }

func (obj *Object) emit(level Level, args []interface{}) {
	msg := Message{Level: level, Message: Format(args...), Args: args}
	if obj.locate != nil {
		msg.Source, msg.Line = obj.locate()
	}
	obj.console.Emit(msg)
}

// Format join the values with spaces, objects are formatted as JSON
func Format(values ...interface{}) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		switch value := v.(type) {
		case nil:
			parts = append(parts, "null")
		case runtime.Undefined:
			parts = append(parts, "undefined")
		case string:
			parts = append(parts, value)
		case []byte:
			parts = append(parts, string(value))
		case error:
			parts = append(parts, value.Error())
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, bool:
			parts = append(parts, fmt.Sprintf("%v", value))
		default:
			txt, err := jsoniter.Marshal(value)
			if err != nil {
				parts = append(parts, fmt.Sprintf("%v", value))
				continue
			}
			parts = append(parts, string(txt))
		}
	}
	return strings.Join(parts, " ")
}

func output(msg Message) {
	prefix := ""
	if msg.Source != "" {
		prefix = fmt.Sprintf("%s:%d ", msg.Source, msg.Line)
	}

	switch msg.Level {
	case LevelError:
		color.Red(prefix + msg.Message)
	case LevelWarn:
		color.Yellow(prefix + msg.Message)
	case LevelInfo:
		color.Blue(prefix + msg.Message)
	case LevelDebug:
		color.Magenta(prefix + msg.Message)
	default:
		dump(prefix, msg.Args)
	}
}

// dump print the values of console.log with the json colored
func dump(prefix string, values []interface{}) {
	if prefix != "" {
		color.New(color.FgHiBlack).Print(prefix)
	}

	f := colorjson.NewFormatter()
	f.Indent = 4
	f.RawStrings = true
	for _, v := range values {
		switch v.(type) {
		case nil, runtime.Undefined, string, []byte, error,
			int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, bool:
			color.Cyan(Format(v))
			continue
		}

		var res interface{}
		txt, err := jsoniter.Marshal(v)
		if err != nil {
			color.Red(err.Error())
			continue
		}

		jsoniter.Unmarshal(txt, &res)
		bytes, err := f.Marshal(res)
		if err != nil {
			color.Red(err.Error())
			continue
		}
		fmt.Fprintln(color.Output, string(bytes))
	}
}
