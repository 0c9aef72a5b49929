package bridge

import (
	"net/http"
	"sync"
	"time"

	"github.com/edaniels/golog"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/gorilla/websocket"
	"go.uber.org/multierr"

	"github.com/luckyfish-tu/camservo/link"
)

const sendBufferSize = 256

// Mount is the part of the link the bridge drives
type Mount interface {
	SetTarget(deg float64) error
	SetSpeed(degPerS float64) error
	SetInversion(inverted bool) error
	Status() link.Status
	Err() error
}

// Server relays firmware events to websocket clients and their commands back to the firmware
type Server struct {
	mount  Mount
	logger golog.Logger

	clients   map[*client]bool
	clientsMu sync.RWMutex

	upgrader websocket.Upgrader
	router   chi.Router
}

// New creates a Server. Events from the link must be passed to Broadcast.
func New(mount Mount, logger golog.Logger) *Server {
	if logger == nil {
		logger = golog.NewLogger("bridge")
	}

	s := &Server{
		mount:   mount,
		logger:  logger,
		clients: make(map[*client]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/ws", s.handleWebSocket)
	r.Get("/status", s.handleStatus)
	s.router = r

	return s
}

// Handler returns the HTTP routes
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.status())
}

func (s *Server) status() StatusPayload {
	return StatusPayload{
		Status:    s.mount.Status(),
		Connected: s.mount.Err() == nil,
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warnw("websocket upgrade failed", "error", err)
		return
	}

	c := &client{
		conn:   conn,
		server: s,
		send:   make(chan []byte, sendBufferSize),
	}

	s.clientsMu.Lock()
	s.clients[c] = true
	s.clientsMu.Unlock()

	s.logger.Debugw("client connected", "remote_addr", r.RemoteAddr)

	go c.writePump()
	go c.readPump()

	c.sendMessage(TypeStatus, s.status())
}

// Broadcast sends a firmware event to every connected client
func (s *Server) Broadcast(event link.Event) {
	msgType, payload, ok := s.eventMessage(event)
	if !ok {
		return
	}

	data, err := newMessage(msgType, payload)
	if err != nil {
		s.logger.Errorw("error encoding event", "event", event.String(), "error", err)
		return
	}

	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	for c := range s.clients {
		c.enqueue(data)
	}
}

func (s *Server) eventMessage(event link.Event) (string, any, bool) {
	switch event.Kind() {
	case link.EventTelemetry:
		deg, err := event.Degrees()
		if err != nil {
			return "", nil, false
		}
		return TypeTelemetry, PositionPayload{Degrees: deg}, true
	case link.EventVersion:
		return TypeVersion, VersionPayload{
			Version:    event.Value,
			Compatible: link.CheckVersion(event.Value) == nil,
		}, true
	case link.EventTargetAck, link.EventSpeedAck, link.EventInversionAck:
		return TypeAck, AckPayload{Command: event.Name, Value: event.Value}, true
	default:
		return "", nil, false
	}
}

func (s *Server) removeClient(c *client) {
	s.clientsMu.Lock()
	delete(s.clients, c)
	s.clientsMu.Unlock()
}

// Close tells every client the server is going away and disconnects them
func (s *Server) Close() error {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	closeMsg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")

	var err error
	for c := range s.clients {
		err = multierr.Append(err, c.conn.WriteControl(websocket.CloseMessage, closeMsg, time.Now().Add(writeWait)))
		c.close()
		delete(s.clients, c)
	}
	return err
}
