//go:build !js || !wasm

// Package dom mounts virtual nodes into the browser DOM. Only the js/wasm
// build has an implementation.
package dom
