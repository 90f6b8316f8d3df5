// Package theme defines the dashboard's color palettes. Built-in themes are
// registered at init; custom ones can be loaded from TOML files and
// registered alongside them.
package theme

import (
	"sort"
	"strings"
	"sync"
)

// Theme is a named color palette. All colors are "#rrggbb" hex strings.
type Theme struct {
	Name string

	// Base colors
	Foreground string
	Dim        string
	Accent     string

	// Panel colors
	Border      string
	BorderFocus string
	Title       string

	// Status colors
	StatusOK    string
	StatusWarn  string
	StatusError string

	// Grade gauge colors
	GaugeFilled string
	GaugeEmpty  string
}

var (
	mu       sync.RWMutex
	registry = map[string]Theme{}
)

func init() {
	thRegisterBuiltins()
}

// Get returns a named theme, falling back to the default when the name is
// unknown.
func Get(name string) Theme {
	mu.RLock()
	defer mu.RUnlock()
	if t, ok := registry[strings.ToLower(name)]; ok {
		return t
	}
	return registry["default"]
}

// Names returns all registered theme names sorted alphabetically.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register adds a theme under its lowercase name, replacing any previous
// theme of that name.
func Register(t Theme) {
	mu.Lock()
	defer mu.Unlock()
	registry[strings.ToLower(t.Name)] = t
}
