package live

import (
	_ "embed"
	"net/http"
)

// ClientJS is the browser runtime that executes commands against vis-network.
//
//go:embed client/client.js
var ClientJS []byte

// ServeClient serves ClientJS.
func ServeClient(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(ClientJS)
}
