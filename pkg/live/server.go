package live

import (
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/recera/visgraph/pkg/logging"
)

const defaultSendBuffer = 256

// Telemetry receives session and frame counts.
type Telemetry interface {
	RecordFrame(direction, kind string)
	SessionOpened()
	SessionClosed()
}

type noTelemetry struct{}

func (noTelemetry) RecordFrame(string, string) {}
func (noTelemetry) SessionOpened()             {}
func (noTelemetry) SessionClosed()             {}

// Server handles WebSocket connections for live updates
type Server struct {
	upgrader   websocket.Upgrader
	sessions   map[string]*Session
	mu         sync.RWMutex
	onConnect  func(*Session)
	tel        Telemetry
	log        *log.Logger
	sendBuffer int
}

// Option configures a Server.
type Option func(*Server)

// WithOnConnect runs fn for every new session after HELLO was queued and
// before client frames are read.
func WithOnConnect(fn func(*Session)) Option {
	return func(s *Server) { s.onConnect = fn }
}

// WithTelemetry sets the frame and session counters.
func WithTelemetry(t Telemetry) Option {
	return func(s *Server) {
		if t != nil {
			s.tel = t
		}
	}
}

// WithCheckOrigin replaces the origin check. The default accepts same-host
// origins only.
func WithCheckOrigin(fn func(r *http.Request) bool) Option {
	return func(s *Server) { s.upgrader.CheckOrigin = fn }
}

// WithSendBuffer sets how many frames may queue per session.
func WithSendBuffer(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.sendBuffer = n
		}
	}
}

// NewServer creates a new live protocol server
func NewServer(opts ...Option) *Server {
	s := &Server{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		sessions:   make(map[string]*Session),
		tel:        noTelemetry{},
		log:        logging.For("live"),
		sendBuffer: defaultSendBuffer,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewSessionID returns a fresh session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// HandleWebSocket upgrades the request and serves the session named by the
// {session} route parameter until the connection closes.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "session")
	if id == "" {
		id = r.URL.Path[strings.LastIndexByte(r.URL.Path, '/')+1:]
	}
	if err := uuid.Validate(id); err != nil {
		http.Error(w, "invalid session id", http.StatusBadRequest)
		return
	}
	s.mu.RLock()
	_, taken := s.sessions[id]
	s.mu.RUnlock()
	if taken {
		http.Error(w, "session already connected", http.StatusConflict)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("upgrade failed", "err", err)
		return
	}

	sess := newSession(id, conn, s.sendBuffer, s.tel, s.log)
	if !s.register(sess) {
		sess.Close()
		return
	}
	defer s.unregister(sess)

	sess.start()
	if s.onConnect != nil {
		s.onConnect(sess)
	}
	sess.readLoop()
}

func (s *Server) register(sess *Session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sess.ID]; ok {
		return false
	}
	s.sessions[sess.ID] = sess
	s.tel.SessionOpened()
	s.log.Info("session connected", "session", sess.ID)
	return true
}

func (s *Server) unregister(sess *Session) {
	s.mu.Lock()
	if s.sessions[sess.ID] == sess {
		delete(s.sessions, sess.ID)
		s.tel.SessionClosed()
	}
	s.mu.Unlock()
	s.log.Info("session disconnected", "session", sess.ID)
}

// Session returns an active session by ID
func (s *Server) Session(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Sessions returns the active sessions ordered by ID.
func (s *Server) Sessions() []*Session {
	s.mu.RLock()
	out := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess)
	}
	s.mu.RUnlock()
	slices.SortFunc(out, func(a, b *Session) int { return strings.Compare(a.ID, b.ID) })
	return out
}

// Close ends every active session.
func (s *Server) Close() {
	for _, sess := range s.Sessions() {
		sess.Close()
	}
}
