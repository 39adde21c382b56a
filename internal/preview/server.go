// Package preview streams emitted frames to browsers over a websocket so a
// board can be watched without the hardware attached.
package preview

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/coreman2200/turbolights/internal/led"
)

type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *client) send(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(200 * time.Millisecond))
	return c.conn.WriteMessage(websocket.TextMessage, b)
}

// Server is an led.Driver: every written frame is kept for /health and
// broadcast to the /ws clients.
type Server struct {
	Log zerolog.Logger
	// Every sends one frame in Every to the clients; the LEDs run far faster
	// than a browser needs.
	Every int
	// Effect reports the active effect for /health and the hello message.
	Effect func() string

	mu      sync.RWMutex
	count   int
	fps     int
	rgb     []byte
	frameID uint64
	start   time.Time
	clients map[*client]bool
	closed  bool
}

func New(count, fps int, log zerolog.Logger) *Server {
	return &Server{
		Log:     log,
		Every:   1,
		count:   count,
		fps:     fps,
		rgb:     make([]byte, count*3),
		start:   time.Now(),
		clients: map[*client]bool{},
	}
}

type frame struct {
	T       int64  `json:"t"`
	FrameID uint64 `json:"frame_id"`
	RGB     []byte `json:"rgb"`
}

type hello struct {
	LEDs   int    `json:"leds"`
	FPS    int    `json:"fps"`
	Effect string `json:"effect"`
}

func (s *Server) effect() string {
	if s.Effect == nil {
		return ""
	}
	return s.Effect()
}

func (s *Server) Write(rgb []byte) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return led.ErrClosed
	}
	s.rgb = append(s.rgb[:0], rgb...)
	s.frameID++
	id := s.frameID
	every := s.Every
	s.mu.Unlock()

	if every > 1 && id%uint64(every) != 0 {
		return nil
	}
	b, err := json.Marshal(frame{T: time.Now().UnixNano(), FrameID: id, RGB: rgb})
	if err != nil {
		return err
	}
	s.broadcast(b)
	return nil
}

func (s *Server) broadcast(b []byte) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for c := range s.clients {
		if err := c.send(b); err != nil {
			s.Log.Debug().Err(err).Msg("write frame")
		}
	}
}

// Close drops every client; later writes fail.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for c := range s.clients {
		_ = c.conn.Close()
		delete(s.clients, c)
	}
	return nil
}

// Clients is the number of connected viewers.
func (s *Server) Clients() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *Server) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &client{conn: conn}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		conn.Close()
		return
	}
	s.clients[c] = true
	s.mu.Unlock()

	b, _ := json.Marshal(hello{LEDs: s.count, FPS: s.fps, Effect: s.effect()})
	_ = c.send(b)

	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.clients, c)
			s.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	resp := map[string]any{
		"frame_id": s.frameID,
		"uptime_s": time.Since(s.start).Seconds(),
		"leds":     s.count,
		"fps":      s.fps,
		"clients":  len(s.clients),
	}
	s.mu.RUnlock()
	resp["effect"] = s.effect()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// Handler routes /ws and /health with permissive CORS.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.HandleFramesWS)
	mux.HandleFunc("/health", s.HandleHealth)
	return withCORS(mux)
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// ListenAndServe serves Handler on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()
	s.Log.Info().Str("addr", addr).Msg("preview server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
