// Package env reports the runtime mode the component stack runs in.
//
// The mode is read once from the VISGRAPH_ENV environment variable and can be
// overridden programmatically (the CLI does so from its config file). It
// decides, among other things, whether engine option failures are swallowed
// and whether ref misuse is reported.
package env

import (
	"os"
	"strings"
	"sync/atomic"
)

// Mode is the runtime mode.
type Mode uint8

const (
	// Production is the default mode.
	Production Mode = iota
	// Development enables hot-reload tolerance and extra checks.
	Development
	// Test behaves like Development for checks but never swallows errors.
	Test
)

// Variable is the environment variable the mode is read from.
const Variable = "VISGRAPH_ENV"

var current atomic.Uint32

func init() {
	current.Store(uint32(Parse(os.Getenv(Variable))))
}

// Parse converts a mode name into a Mode. Unknown names map to Production.
func Parse(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "development", "dev":
		return Development
	case "test":
		return Test
	default:
		return Production
	}
}

// String returns the canonical mode name.
func (m Mode) String() string {
	switch m {
	case Development:
		return "development"
	case Test:
		return "test"
	default:
		return "production"
	}
}

// Current returns the active mode.
func Current() Mode {
	return Mode(current.Load())
}

// Set overrides the active mode and returns the previous one.
func Set(m Mode) Mode {
	return Mode(current.Swap(uint32(m)))
}

// IsDevelopment reports whether the active mode is Development.
func IsDevelopment() bool { return Current() == Development }

// IsProduction reports whether the active mode is Production.
func IsProduction() bool { return Current() == Production }
