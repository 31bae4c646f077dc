//go:build !js || !wasm

package resize

// NewJSObserver returns an observer that never reports: outside the browser
// there is no ResizeObserver.
func NewJSObserver(cb Callback) Observer {
	return NewManual(cb)
}
