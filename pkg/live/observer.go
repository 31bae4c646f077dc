package live

import "github.com/recera/visgraph/pkg/resize"

type remoteObserver struct {
	*resize.Manual
	cancel func()
}

// RemoteObserver returns a resize.ObserverFactory fed by resize messages from
// src. Hosts are matched by element id.
func RemoteObserver(src Subscriber) resize.ObserverFactory {
	return func(cb resize.Callback) resize.Observer {
		m := resize.NewManual(cb)
		cancel := src.Subscribe(func(msg Message) {
			if msg.Kind == KindResize {
				m.Notify(msg.Host, msg.Width, msg.Height)
			}
		})
		return &remoteObserver{Manual: m, cancel: cancel}
	}
}

func (o *remoteObserver) Disconnect() {
	o.Manual.Disconnect()
	o.cancel()
}
