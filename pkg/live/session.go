package live

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var (
	// ErrClosed is returned by Send after the session ended.
	ErrClosed = errors.New("live: session closed")
	// ErrBackpressure is returned when the client cannot keep up.
	ErrBackpressure = errors.New("live: send buffer full")
	// ErrRejected wraps an error the client raised applying a command.
	ErrRejected = errors.New("live: client rejected command")
)

// Sender delivers commands to a browser client.
type Sender interface {
	Send(cmd Command) error
}

// Subscriber delivers client messages.
type Subscriber interface {
	// Subscribe registers fn and returns a function removing it.
	Subscribe(fn func(Message)) (cancel func())
}

// Conn is a bidirectional client connection.
type Conn interface {
	Sender
	Subscriber
}

// Session represents a live connection session
type Session struct {
	ID string

	conn      *websocket.Conn
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
	seq       atomic.Uint64
	tel       Telemetry
	log       *log.Logger

	mu      sync.Mutex
	subs    map[int]func(Message)
	nextSub int
}

func newSession(id string, conn *websocket.Conn, buffer int, tel Telemetry, l *log.Logger) *Session {
	return &Session{
		ID:   id,
		conn: conn,
		send: make(chan []byte, buffer),
		done: make(chan struct{}),
		tel:  tel,
		log:  l.With("session", id),
		subs: make(map[int]func(Message)),
	}
}

// Send encodes cmd and queues it for the writer. It never blocks.
func (s *Session) Send(cmd Command) error {
	data, err := EncodeCommand(s.seq.Add(1), cmd)
	if err != nil {
		return err
	}
	if err := s.enqueue(data); err != nil {
		return fmt.Errorf("send %s: %w", cmd.Op, err)
	}
	s.tel.RecordFrame("out", string(cmd.Op))
	return nil
}

func (s *Session) enqueue(data []byte) error {
	select {
	case <-s.done:
		return ErrClosed
	default:
	}
	select {
	case s.send <- data:
		return nil
	case <-s.done:
		return ErrClosed
	default:
		return ErrBackpressure
	}
}

// Subscribe registers fn for every message the client sends.
func (s *Session) Subscribe(fn func(Message)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Done is closed when the session ends.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Close ends the session. It is safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		_ = s.conn.Close()
	})
}

func (s *Session) dispatch(msg Message) {
	s.mu.Lock()
	subs := make([]func(Message), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()
	for _, fn := range subs {
		fn(msg)
	}
}

// start launches the writer and greets the client.
func (s *Session) start() {
	go s.writer()
	if err := s.enqueue(EncodeControl(s.seq.Load(), ControlHello)); err != nil {
		s.log.Warn("hello not sent", "err", err)
	}
}

// readLoop processes client frames until the connection fails.
func (s *Session) readLoop() {
	defer s.Close()

	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("unexpected close", "err", err)
			} else {
				s.log.Debug("read ended", "err", err)
			}
			return
		}
		if messageType != websocket.BinaryMessage {
			s.log.Debug("ignoring text message", "size", len(data))
			continue
		}
		s.handleFrame(data)
	}
}

func (s *Session) handleFrame(data []byte) {
	f, err := DecodeFrame(data)
	if err != nil {
		s.log.Warn("bad frame", "err", err)
		return
	}
	switch f.Type {
	case FrameEvent:
		msg, err := DecodeMessage(data)
		if err != nil {
			s.log.Warn("bad message", "err", err)
			return
		}
		s.tel.RecordFrame("in", msg.Kind)
		s.dispatch(msg)
	case FrameControl:
		word := string(f.Payload)
		s.tel.RecordFrame("in", word)
		switch word {
		case ControlPing:
			if err := s.enqueue(EncodeControl(s.seq.Load(), ControlPong)); err != nil {
				s.log.Warn("pong not sent", "err", err)
			}
		case ControlHello:
			s.log.Debug("client hello", "lastSeq", f.Seq)
		}
	default:
		s.log.Warn("unexpected frame", "type", f.Type)
	}
}

// writer handles writing messages to the WebSocket
func (s *Session) writer() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.BinaryMessage, message); err != nil {
				s.log.Warn("write failed", "err", err)
				s.Close()
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.Close()
				return
			}
		case <-s.done:
			_ = s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}
