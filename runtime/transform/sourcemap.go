package transform

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/go-sourcemap/sourcemap"
)

// reStackEntry matches the V8 (at fn (file:line:column)) and goja (at fn (file:line:column(pc))) frames
var reStackEntry = regexp.MustCompile(`at[ ]+(?P<Function>[^(]+)[ ]+\((?P<File>[^:()]+):(?P<Line>\d+):(?P<Column>\d+)(?:\(\d+\))?\)`)

// StackEntry a frame of the stack trace
type StackEntry struct {
	Function string `json:"function,omitempty"`
	File     string `json:"file,omitempty"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
}

// StackEntries the frames of a stack trace
type StackEntries []*StackEntry

// SourceMaps the source maps of the transformed files
type SourceMaps struct {
	maps  map[string]*sourcemap.Consumer
	mutex sync.RWMutex
}

// NewSourceMaps create an empty source map store
func NewSourceMaps() *SourceMaps {
	return &SourceMaps{maps: map[string]*sourcemap.Consumer{}}
}

// Add parse and keep the source map of the file
func (maps *SourceMaps) Add(file string, data []byte) error {
	smap, err := sourcemap.Parse(file, data)
	if err != nil {
		return fmt.Errorf("parse the source map of %s: %w", file, err)
	}
	maps.mutex.Lock()
	defer maps.mutex.Unlock()
	maps.maps[file] = smap
	return nil
}

// Remove the source map of the file
func (maps *SourceMaps) Remove(file string) {
	maps.mutex.Lock()
	defer maps.mutex.Unlock()
	delete(maps.maps, file)
}

// Has check if the file has a source map
func (maps *SourceMaps) Has(file string) bool {
	maps.mutex.RLock()
	defer maps.mutex.RUnlock()
	_, has := maps.maps[file]
	return has
}

// StackTrace remap the frames of the stack to the original sources
// the stack is returned as it is when no frame could be parsed
func (maps *SourceMaps) StackTrace(message string, stack string) string {
	entries := ParseStack(stack)
	if len(entries) == 0 {
		return stack
	}

	maps.Remap(entries)
	return fmt.Sprintf("%s\n%s", message, entries.String())
}

// Remap rewrite the position of the frames which have a source map
func (maps *SourceMaps) Remap(entries StackEntries) {
	maps.mutex.RLock()
	defer maps.mutex.RUnlock()

	for _, entry := range entries {
		smap, has := maps.maps[entry.File]
		if !has {
			continue
		}

		file, fn, line, col, ok := smap.Source(entry.Line, entry.Column)
		if !ok {
			continue
		}

		entry.File = file
		entry.Line = line
		entry.Column = col
		if fn != "" {
			entry.Function = fn
		}
	}
}

// ParseStack parse the frames of the stack trace
func ParseStack(stack string) StackEntries {
	entries := StackEntries{}
	for _, line := range strings.Split(stack, "\n") {
		matches := reStackEntry.FindStringSubmatch(line)
		if matches == nil {
			continue
		}

		ln, _ := strconv.Atoi(matches[3])
		col, _ := strconv.Atoi(matches[4])
		entries = append(entries, &StackEntry{
			Function: strings.TrimSpace(matches[1]),
			File:     matches[2],
			Line:     ln,
			Column:   col,
		})
	}
	return entries
}

func (entry *StackEntry) String() string {
	return fmt.Sprintf("    at %s (%s:%d:%d)", entry.Function, entry.File, entry.Line, entry.Column)
}

func (entries StackEntries) String() string {
	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		lines = append(lines, entry.String())
	}
	return strings.Join(lines, "\n")
}
