// Package rpc serves doomsdayd over a websocket: clients submit signed
// operations, price swaps, and subscribe to the stream of applied operations.
package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/LeJamon/goDoomsday/internal/core/tx"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	maxMessageSize = 64 * 1024
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	writeWait      = 10 * time.Second
	sendBuffer     = 256
)

// WebSocketServer accepts websocket connections on ServeHTTP. It is also a
// tx.Observer and fans applied operations out to subscribed connections.
type WebSocketServer struct {
	service  *Service
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu    sync.RWMutex
	conns map[uuid.UUID]*wsConn
}

type wsConn struct {
	id     uuid.UUID
	conn   *websocket.Conn
	send   chan []byte
	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	subscribed bool
}

// NewWebSocketServer returns a server submitting to engine. Register it with
// engine.AddObserver to feed subscriptions.
func NewWebSocketServer(engine *tx.Engine, logger *slog.Logger) *WebSocketServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebSocketServer{
		service: NewService(engine),
		logger:  logger.With("component", "rpc"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		conns: make(map[uuid.UUID]*wsConn),
	}
}

// ServeHTTP upgrades the request and runs the connection until it closes.
func (s *WebSocketServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Info("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c := &wsConn{
		id:     uuid.New(),
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		ctx:    ctx,
		cancel: cancel,
	}

	s.mu.Lock()
	s.conns[c.id] = c
	s.mu.Unlock()
	s.logger.Debug("websocket connected", "conn", c.id, "remote", r.RemoteAddr)

	go s.writePump(c)
	s.readPump(c)
}

// Connections returns the number of open connections.
func (s *WebSocketServer) Connections() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conns)
}

// Close drops every connection.
func (s *WebSocketServer) Close() {
	s.mu.RLock()
	conns := make([]*wsConn, 0, len(s.conns))
	for _, c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.RUnlock()
	for _, c := range conns {
		s.closeConn(c)
	}
}

func (s *WebSocketServer) readPump(c *wsConn) {
	defer s.closeConn(c)

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Info("websocket read failed", "conn", c.id, "error", err)
			}
			return
		}
		s.handleMessage(c, message)
	}
}

func (s *WebSocketServer) writePump(c *wsConn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				s.logger.Info("websocket write failed", "conn", c.id, "error", err)
				s.closeConn(c)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.closeConn(c)
				return
			}
		}
	}
}

func (s *WebSocketServer) closeConn(c *wsConn) {
	s.mu.Lock()
	_, open := s.conns[c.id]
	delete(s.conns, c.id)
	s.mu.Unlock()
	if !open {
		return
	}
	c.cancel()
	// The write pump sends the close frame first.
	time.AfterFunc(writeWait, func() { c.conn.Close() })
	s.logger.Debug("websocket closed", "conn", c.id)
}

func (s *WebSocketServer) handleMessage(c *wsConn, message []byte) {
	var req Request
	if err := json.Unmarshal(message, &req); err != nil {
		s.reply(c, Response{Type: "response", Status: "error", Error: "invalid JSON: " + err.Error()})
		return
	}

	var (
		result any
		err    error
	)
	switch req.Command {
	case CommandPing:
		result = map[string]any{}
	case CommandSubscribe:
		c.mu.Lock()
		c.subscribed = true
		c.mu.Unlock()
		result = map[string]any{"subscribed": true}
	case CommandUnsubscribe:
		c.mu.Lock()
		c.subscribed = false
		c.mu.Unlock()
		result = map[string]any{"subscribed": false}
	case CommandSubmit:
		result, err = s.service.Submit(req.Operation, req.Fields, req.PublicKey, req.Signature)
	case CommandQuote:
		result, err = s.service.Quote(req.Amount, req.Direction)
	case "":
		err = errors.New("missing command")
	default:
		err = fmt.Errorf("unknown command %q", req.Command)
	}

	resp := Response{Type: "response", ID: req.ID, Status: "success", Result: result}
	if err != nil {
		resp.Status = "error"
		resp.Error = err.Error()
		resp.Result = nil
	}
	s.reply(c, resp)
}

func (s *WebSocketServer) reply(c *wsConn, resp Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("marshal response", "conn", c.id, "error", err)
		return
	}
	select {
	case c.send <- data:
	case <-c.ctx.Done():
	default:
		s.logger.Info("send buffer full, closing connection", "conn", c.id)
		s.closeConn(c)
	}
}

// OperationApplied implements tx.Observer. It runs under the engine lock,
// so slow subscribers are skipped rather than waited for.
func (s *WebSocketServer) OperationApplied(rec tx.Record) {
	data, err := json.Marshal(NewOperationMessage(rec))
	if err != nil {
		s.logger.Error("marshal operation message", "seq", rec.Seq, "error", err)
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.conns {
		c.mu.Lock()
		subscribed := c.subscribed
		c.mu.Unlock()
		if !subscribed {
			continue
		}
		select {
		case c.send <- data:
		default:
			s.logger.Info("skipping slow subscriber", "conn", c.id, "seq", rec.Seq)
		}
	}
}

// ListenAndServe serves the websocket on /ws, plus any extra handlers, until
// ctx is cancelled.
func (s *WebSocketServer) ListenAndServe(ctx context.Context, addr string, extra map[string]http.Handler) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", s)
	for path, h := range extra {
		mux.Handle(path, h)
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("rpc server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
