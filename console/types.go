package console

import "sync"

// Level the console message level
type Level string

const (
	// LevelLog console.log
	LevelLog Level = "log"
	// LevelInfo console.info
	LevelInfo Level = "info"
	// LevelWarn console.warn
	LevelWarn Level = "warn"
	// LevelError console.error
	LevelError Level = "error"
	// LevelDebug console.debug
	LevelDebug Level = "debug"
)

// Message the console message event
type Message struct {
	Level   Level         `json:"level"`
	Message string        `json:"message"`
	Source  string        `json:"source,omitempty"`
	Line    int           `json:"line,omitempty"`
	Args    []interface{} `json:"-"`
}

// Handler receives the console messages
type Handler func(msg Message)

// Locator returns the source and the line of the running script
type Locator func() (string, int)

// Console dispatch the console messages to the subscribers
type Console struct {
	mode     string // production, development
	handlers map[int]Handler
	lastID   int
	mutex    sync.RWMutex
}

// Object the console object exposed to scripts
type Object struct {
	console *Console
	locate  Locator
}
